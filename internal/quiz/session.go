// Package quiz implements the practice-quiz state machine: sampling a pool
// of questions, walking through them under a countdown, and scoring.
//
// A Session is not safe for concurrent use; the owner serialises access.
package quiz

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/stemsi/certquiz-backend/internal/model"
)

// State is the lifecycle state of a session.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateInProgress State = "IN_PROGRESS"
	StateCompleted  State = "COMPLETED"
)

// FinishReason records which transition completed a session.
type FinishReason string

const (
	FinishSubmit       FinishReason = "submit"
	FinishLastQuestion FinishReason = "last_question"
	FinishTimeout      FinishReason = "timeout"
)

const (
	DefaultPoolSize        = 10
	DefaultDurationSeconds = 600
)

var (
	ErrNoQuestions    = errors.New("no questions available")
	ErrAlreadyStarted = errors.New("quiz session already started")
	ErrNotInProgress  = errors.New("quiz session is not in progress")
	ErrNotCompleted   = errors.New("quiz session is not completed")
	ErrInvalidAnswer  = errors.New("answer must be one of A, B, C, D")
)

// Session is one practice attempt.
type Session struct {
	state     State
	pool      []model.Question
	position  int
	answers   map[int]string
	selection string
	remaining int
	reason    FinishReason

	poolSize int
	duration int
	rng      *rand.Rand
}

// Option configures a Session.
type Option func(*Session)

// WithPoolSize caps the number of sampled questions. Non-positive values are ignored.
func WithPoolSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// WithDuration sets the countdown length in seconds. Non-positive values are ignored.
func WithDuration(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.duration = seconds
		}
	}
}

// WithRand sets the random source used for sampling.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// NewSession returns a session in NOT_STARTED.
func NewSession(opts ...Option) *Session {
	s := &Session{
		state:    StateNotStarted,
		answers:  make(map[int]string),
		poolSize: DefaultPoolSize,
		duration: DefaultDurationSeconds,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.remaining = s.duration
	return s
}

// Start samples the pool from questions and enters IN_PROGRESS. With no
// questions the session stays NOT_STARTED and ErrNoQuestions is returned.
func (s *Session) Start(questions []model.Question) error {
	if s.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	s.pool = Sample(s.rng, questions, s.poolSize)
	s.position = 0
	s.answers = make(map[int]string)
	s.selection = ""
	s.remaining = s.duration
	s.state = StateInProgress
	return nil
}

// Select sets the active choice for the current position. It is not
// recorded until the user leaves the position with Next or Finish.
func (s *Session) Select(letter string) error {
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if !model.IsAnswerLetter(letter) {
		return ErrInvalidAnswer
	}
	s.selection = letter
	return nil
}

// Next commits the active choice and moves forward. On the last position it
// finishes the session instead and reports true.
func (s *Session) Next() (finished bool, err error) {
	if s.state != StateInProgress {
		return false, ErrNotInProgress
	}
	if s.position == len(s.pool)-1 {
		return s.Finish(FinishLastQuestion), nil
	}

	s.commit()
	s.position++
	s.selection = s.answers[s.position]
	return false, nil
}

// Previous moves back one position and restores the answer recorded there.
// The active choice on the position being left is not committed.
func (s *Session) Previous() error {
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if s.position > 0 {
		s.position--
		s.selection = s.answers[s.position]
	}
	return nil
}

// Finish commits any active choice and completes the session. It reports
// false if the session was not in progress, so racing finishes are no-ops.
func (s *Session) Finish(reason FinishReason) bool {
	if s.state != StateInProgress {
		return false
	}
	s.commit()
	s.state = StateCompleted
	s.reason = reason
	return true
}

// Tick consumes one second of the countdown. When the countdown reaches
// zero the session finishes with FinishTimeout and Tick reports true.
func (s *Session) Tick() bool {
	if s.state != StateInProgress {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		return s.Finish(FinishTimeout)
	}
	return false
}

func (s *Session) commit() {
	if s.selection != "" {
		s.answers[s.position] = s.selection
	}
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Position returns the 0-based cursor into the pool.
func (s *Session) Position() int { return s.position }

// Selection returns the active, possibly uncommitted, choice.
func (s *Session) Selection() string { return s.selection }

// RemainingSeconds returns what is left of the countdown.
func (s *Session) RemainingSeconds() int { return s.remaining }

// FinishReason returns why the session completed, or "" while it has not.
func (s *Session) FinishReason() FinishReason { return s.reason }

// Pool returns a copy of the sampled questions.
func (s *Session) Pool() []model.Question {
	return append([]model.Question(nil), s.pool...)
}

// Answers returns a copy of the committed answers keyed by position.
func (s *Session) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Score counts positions whose committed answer matches the answer key.
func (s *Session) Score() int {
	score := 0
	for i, q := range s.pool {
		if ans, ok := s.answers[i]; ok && ans == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Percentage returns round(100 * score / len(pool)).
func (s *Session) Percentage() int {
	return Percentage(s.Score(), len(s.pool))
}

// Percentage returns round(100 * score / total), or 0 when total is 0.
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
