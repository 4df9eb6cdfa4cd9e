package quiz

import "github.com/stemsi/certquiz-backend/internal/model"

// Snapshot is the render state of a session. The answer key is never
// included; Score and Percentage appear only once the session is completed.
type Snapshot struct {
	State            State               `json:"state"`
	Position         int                 `json:"position"`
	Total            int                 `json:"total"`
	Question         *model.QuizQuestion `json:"question,omitempty"`
	Selection        string              `json:"selection"`
	Answers          map[int]string      `json:"answers"`
	Answered         int                 `json:"answered"`
	RemainingSeconds int                 `json:"remainingSeconds"`
	FinishReason     FinishReason        `json:"finishReason,omitempty"`
	Score            *int                `json:"score,omitempty"`
	Percentage       *int                `json:"percentage,omitempty"`
}

// Snapshot captures the current render state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:            s.state,
		Position:         s.position,
		Total:            len(s.pool),
		Selection:        s.selection,
		Answers:          s.Answers(),
		Answered:         len(s.answers),
		RemainingSeconds: s.remaining,
		FinishReason:     s.reason,
	}
	if s.state == StateInProgress && s.position < len(s.pool) {
		q := s.pool[s.position].Public()
		snap.Question = &q
	}
	if s.state == StateCompleted {
		score, pct := s.Score(), s.Percentage()
		snap.Score = &score
		snap.Percentage = &pct
	}
	return snap
}

// ReviewItem is the per-question breakdown shown after scoring.
type ReviewItem struct {
	Position      int            `json:"position"`
	Question      model.Question `json:"question"`
	Answer        string         `json:"answer"`
	CorrectAnswer string         `json:"correctAnswer"`
	Correct       bool           `json:"correct"`
	Explanation   string         `json:"explanation"`
}

// Result is the final score with the per-question review.
type Result struct {
	Score        int          `json:"score"`
	Total        int          `json:"total"`
	Percentage   int          `json:"percentage"`
	FinishReason FinishReason `json:"finishReason"`
	Items        []ReviewItem `json:"items"`
}

// Result scores a completed session. Unanswered positions have an empty Answer.
func (s *Session) Result() (*Result, error) {
	if s.state != StateCompleted {
		return nil, ErrNotCompleted
	}

	items := make([]ReviewItem, len(s.pool))
	for i, q := range s.pool {
		ans := s.answers[i]
		items[i] = ReviewItem{
			Position:      i,
			Question:      q,
			Answer:        ans,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       ans != "" && ans == q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}

	return &Result{
		Score:        s.Score(),
		Total:        len(s.pool),
		Percentage:   s.Percentage(),
		FinishReason: s.reason,
		Items:        items,
	}, nil
}
