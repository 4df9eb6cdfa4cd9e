package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/logger"
	"github.com/stemsi/certquiz-backend/internal/model"
	"github.com/stemsi/certquiz-backend/internal/quiz"
	"github.com/stemsi/certquiz-backend/internal/repository"
)

// Quiz session errors.
var (
	ErrNoQuestions       = quiz.ErrNoQuestions
	ErrSessionNotFound   = errors.New("quiz session not found")
	ErrSessionCompleted  = errors.New("quiz session already completed")
	ErrSessionInProgress = errors.New("quiz session still in progress")
)

const recordTimeout = 5 * time.Second

// ResultRecorder stores completed attempts and reports aggregate stats.
type ResultRecorder interface {
	Record(ctx context.Context, ev model.QuizResultEvent) error
	Stats(ctx context.Context) (*model.QuizStats, error)
}

// liveSession pairs a quiz session with its countdown and stream
// subscribers. mu guards everything below it, including ticks.
type liveSession struct {
	id uuid.UUID

	mu          sync.Mutex
	session     *quiz.Session
	countdown   *quiz.Countdown
	subscribers map[chan quiz.Snapshot]struct{}
	completedAt time.Time
	discarded   bool
}

// QuizService hosts running quiz sessions keyed by id.
type QuizService struct {
	questionRepo *repository.QuestionRepository
	recorder     ResultRecorder
	cfg          *config.Config
	log          zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[uuid.UUID]*liveSession

	now func() time.Time
}

// NewQuizService creates a new QuizService. Countdowns run until Close.
func NewQuizService(
	questionRepo *repository.QuestionRepository,
	recorder ResultRecorder,
	cfg *config.Config,
	log zerolog.Logger,
) *QuizService {
	ctx, cancel := context.WithCancel(context.Background())
	return &QuizService{
		questionRepo: questionRepo,
		recorder:     recorder,
		cfg:          cfg,
		log:          logger.Component(log, "quiz_service"),
		ctx:          ctx,
		cancel:       cancel,
		sessions:     make(map[uuid.UUID]*liveSession),
		now:          time.Now,
	}
}

// Start samples a new session from the active catalog and starts its countdown.
func (s *QuizService) Start(ctx context.Context) (uuid.UUID, *quiz.Snapshot, error) {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("load questions: %w", err)
	}

	sess := quiz.NewSession(
		quiz.WithPoolSize(s.cfg.QuizPoolSize),
		quiz.WithDuration(int(s.cfg.QuizDuration/time.Second)),
	)
	if err := sess.Start(questions); err != nil {
		return uuid.Nil, nil, err
	}

	live := &liveSession{
		id:          uuid.New(),
		session:     sess,
		subscribers: make(map[chan quiz.Snapshot]struct{}),
	}
	live.countdown = quiz.NewCountdown(s.cfg.QuizTickInterval, func() { s.tick(live) })

	s.mu.Lock()
	s.sessions[live.id] = live
	s.mu.Unlock()

	live.mu.Lock()
	live.countdown.Start(s.ctx)
	snap := sess.Snapshot()
	live.mu.Unlock()

	s.log.Info().
		Str("session_id", live.id.String()).
		Int("pool_size", snap.Total).
		Int("duration_seconds", snap.RemainingSeconds).
		Msg("quiz session started")

	return live.id, &snap, nil
}

// Get returns the current snapshot of a session.
func (s *QuizService) Get(id uuid.UUID) (*quiz.Snapshot, error) {
	live, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.discarded {
		return nil, ErrSessionNotFound
	}
	snap := live.session.Snapshot()
	return &snap, nil
}

// Select sets the active answer for the current question.
func (s *QuizService) Select(id uuid.UUID, letter string) (*quiz.Snapshot, error) {
	return s.apply(id, func(sess *quiz.Session) error { return sess.Select(letter) })
}

// Next commits the active answer and advances; on the last question the
// session completes.
func (s *QuizService) Next(id uuid.UUID) (*quiz.Snapshot, error) {
	return s.apply(id, func(sess *quiz.Session) error {
		_, err := sess.Next()
		return err
	})
}

// Previous goes back one question.
func (s *QuizService) Previous(id uuid.UUID) (*quiz.Snapshot, error) {
	return s.apply(id, func(sess *quiz.Session) error { return sess.Previous() })
}

// Submit completes the session early.
func (s *QuizService) Submit(id uuid.UUID) (*quiz.Snapshot, error) {
	return s.apply(id, func(sess *quiz.Session) error {
		sess.Finish(quiz.FinishSubmit)
		return nil
	})
}

// Result returns the score and per-question review of a completed session.
func (s *QuizService) Result(id uuid.UUID) (*quiz.Result, error) {
	live, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.discarded {
		return nil, ErrSessionNotFound
	}

	res, err := live.session.Result()
	if errors.Is(err, quiz.ErrNotCompleted) {
		return nil, ErrSessionInProgress
	}
	return res, err
}

// Discard stops and forgets a session. No result is recorded for a session
// discarded while still in progress.
func (s *QuizService) Discard(id uuid.UUID) error {
	s.mu.Lock()
	live, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	live.discarded = true
	live.countdown.Stop()
	live.closeSubscribers()

	s.log.Info().Str("session_id", id.String()).Msg("quiz session discarded")
	return nil
}

// Subscribe returns a channel that receives the current snapshot and then a
// fresh one on every tick and action. The channel only holds the latest
// snapshot; slow readers skip intermediate ones. It is closed when the
// session completes or is discarded, or when cancel is called.
func (s *QuizService) Subscribe(id uuid.UUID) (<-chan quiz.Snapshot, func(), error) {
	live, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.discarded {
		return nil, nil, ErrSessionNotFound
	}

	ch := make(chan quiz.Snapshot, 1)
	ch <- live.session.Snapshot()
	if live.session.State() == quiz.StateCompleted {
		close(ch)
		return ch, func() {}, nil
	}

	live.subscribers[ch] = struct{}{}
	cancel := func() {
		live.mu.Lock()
		defer live.mu.Unlock()
		if _, ok := live.subscribers[ch]; ok {
			delete(live.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel, nil
}

// Stats returns the aggregate of recorded results.
func (s *QuizService) Stats(ctx context.Context) (*model.QuizStats, error) {
	return s.recorder.Stats(ctx)
}

// Len returns the number of registered sessions.
func (s *QuizService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunJanitor evicts completed sessions older than QuizSessionTTL until ctx ends.
func (s *QuizService) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.QuizJanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evictExpired(); n > 0 {
				s.log.Debug().Int("evicted", n).Msg("expired quiz sessions evicted")
			}
		}
	}
}

// Close stops every countdown and closes open subscriptions. Sessions stay
// readable.
func (s *QuizService) Close() {
	s.cancel()

	s.mu.RLock()
	live := make([]*liveSession, 0, len(s.sessions))
	for _, l := range s.sessions {
		live = append(live, l)
	}
	s.mu.RUnlock()

	for _, l := range live {
		l.mu.Lock()
		l.closeSubscribers()
		l.mu.Unlock()
	}
}

func (s *QuizService) evictExpired() int {
	cutoff := s.now().Add(-s.cfg.QuizSessionTTL)

	s.mu.RLock()
	candidates := make([]*liveSession, 0, len(s.sessions))
	for _, live := range s.sessions {
		candidates = append(candidates, live)
	}
	s.mu.RUnlock()

	var expired []uuid.UUID
	for _, live := range candidates {
		live.mu.Lock()
		if live.session.State() == quiz.StateCompleted && !live.completedAt.After(cutoff) {
			expired = append(expired, live.id)
		}
		live.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range expired {
		delete(s.sessions, id)
	}
	return len(expired)
}

func (s *QuizService) lookup(id uuid.UUID) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return live, nil
}

// apply runs action against an in-progress session under its lock, then
// publishes the new snapshot.
func (s *QuizService) apply(id uuid.UUID, action func(sess *quiz.Session) error) (*quiz.Snapshot, error) {
	live, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	if live.discarded {
		live.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if live.session.State() != quiz.StateInProgress {
		live.mu.Unlock()
		return nil, ErrSessionCompleted
	}

	if err := action(live.session); err != nil {
		live.mu.Unlock()
		if errors.Is(err, quiz.ErrNotInProgress) {
			return nil, ErrSessionCompleted
		}
		return nil, err
	}

	snap := live.session.Snapshot()
	ev := s.publish(live, snap)
	live.mu.Unlock()

	if ev != nil {
		s.record(*ev)
	}
	return &snap, nil
}

func (s *QuizService) tick(live *liveSession) {
	live.mu.Lock()
	if live.discarded || live.session.State() != quiz.StateInProgress {
		live.mu.Unlock()
		return
	}
	live.session.Tick()
	ev := s.publish(live, live.session.Snapshot())
	live.mu.Unlock()

	if ev != nil {
		s.record(*ev)
	}
}

// publish fans snap out to subscribers. If snap is the first completed
// snapshot it also stops the countdown, closes the subscribers and returns
// the result to record. Callers hold live.mu.
func (s *QuizService) publish(live *liveSession, snap quiz.Snapshot) *model.QuizResultEvent {
	for ch := range live.subscribers {
		offer(ch, snap)
	}

	if snap.State != quiz.StateCompleted || !live.completedAt.IsZero() {
		return nil
	}

	live.countdown.Stop()
	live.completedAt = s.now()
	live.closeSubscribers()

	return &model.QuizResultEvent{
		SessionID:  live.id.String(),
		Score:      *snap.Score,
		Total:      snap.Total,
		Percentage: *snap.Percentage,
		Reason:     string(snap.FinishReason),
		FinishedAt: live.completedAt,
	}
}

func (s *QuizService) record(ev model.QuizResultEvent) {
	s.log.Info().
		Str("session_id", ev.SessionID).
		Int("score", ev.Score).
		Int("total", ev.Total).
		Int("percentage", ev.Percentage).
		Str("reason", ev.Reason).
		Msg("quiz session completed")

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := s.recorder.Record(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("session_id", ev.SessionID).Msg("failed to record quiz result")
	}
}

func (l *liveSession) closeSubscribers() {
	for ch := range l.subscribers {
		delete(l.subscribers, ch)
		close(ch)
	}
}

// offer replaces whatever is buffered in ch with snap.
func offer(ch chan quiz.Snapshot, snap quiz.Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
