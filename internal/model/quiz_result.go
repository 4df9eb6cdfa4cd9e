package model

import "time"

// QuizResultEvent is emitted once per completed quiz session.
type QuizResultEvent struct {
	SessionID  string    `json:"session_id"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	Reason     string    `json:"reason"`
	FinishedAt time.Time `json:"finished_at"`
}

// QuizStats aggregates completed quiz attempts.
type QuizStats struct {
	Attempts          int64            `json:"attempts"`
	TotalScore        int64            `json:"totalScore"`
	TotalQuestions    int64            `json:"totalQuestions"`
	AveragePercentage float64          `json:"averagePercentage"`
	ByReason          map[string]int64 `json:"byReason"`
}

// Add folds one result into the counters. AveragePercentage is refreshed.
func (s *QuizStats) Add(ev QuizResultEvent) {
	if s.ByReason == nil {
		s.ByReason = make(map[string]int64)
	}
	s.Attempts++
	s.TotalScore += int64(ev.Score)
	s.TotalQuestions += int64(ev.Total)
	s.ByReason[ev.Reason]++
	s.Refresh()
}

// Refresh recomputes AveragePercentage from the raw counters.
func (s *QuizStats) Refresh() {
	if s.TotalQuestions == 0 {
		s.AveragePercentage = 0
		return
	}
	s.AveragePercentage = float64(s.TotalScore) * 100 / float64(s.TotalQuestions)
}
