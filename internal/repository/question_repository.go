package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/stemsi/certquiz-backend/internal/model"
)

// ErrNotFound is returned for ids that do not exist or were soft-deleted.
var ErrNotFound = errors.New("question not found")

// QuestionRepository is the in-memory question catalog. Ids are handed out
// from a counter and never reused; deletion only clears IsActive.
type QuestionRepository struct {
	mu        sync.RWMutex
	questions map[int]*model.Question
	order     []int
	nextID    int
}

// NewQuestionRepository creates an empty QuestionRepository.
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{
		questions: make(map[int]*model.Question),
		nextID:    1,
	}
}

// Create stores q under the next id and marks it active. q is updated in place.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	q.ID = r.nextID
	q.IsActive = true
	r.nextID++

	stored := *q
	r.questions[q.ID] = &stored
	r.order = append(r.order, q.ID)
	return nil
}

// GetAll returns every active question in insertion order.
func (r *QuestionRepository) GetAll(ctx context.Context) ([]model.Question, error) {
	return r.collect(ctx, func(*model.Question) bool { return true })
}

// GetByID returns an active question. Inactive and missing ids both yield ErrNotFound.
func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.questions[id]
	if !ok || !q.IsActive {
		return nil, ErrNotFound
	}
	out := *q
	return &out, nil
}

// Update applies mutate to a copy of the active question with the given id
// and stores the copy only if mutate succeeds. ID and IsActive are restored
// after mutate, so callers cannot change them.
func (r *QuestionRepository) Update(ctx context.Context, id int, mutate func(q *model.Question) error) (*model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.questions[id]
	if !ok || !current.IsActive {
		return nil, ErrNotFound
	}

	updated := *current
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.IsActive = current.IsActive

	r.questions[id] = &updated
	out := updated
	return &out, nil
}

// Delete soft-deletes a question. Deleting an already inactive question
// succeeds; only ids that were never issued yield ErrNotFound.
func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.questions[id]
	if !ok {
		return ErrNotFound
	}
	q.IsActive = false
	return nil
}

// Search returns active questions whose text, explanation or any option
// contains term, ignoring case. An empty term matches everything.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]model.Question, error) {
	return r.collect(ctx, matchesTerm(term))
}

// ListByCategory returns active questions whose category equals category exactly.
func (r *QuestionRepository) ListByCategory(ctx context.Context, category string) ([]model.Question, error) {
	return r.collect(ctx, func(q *model.Question) bool { return q.Category == category })
}

// Filter intersects Search(term) with ListByCategory(category). An empty
// category means no category constraint.
func (r *QuestionRepository) Filter(ctx context.Context, term, category string) ([]model.Question, error) {
	match := matchesTerm(term)
	return r.collect(ctx, func(q *model.Question) bool {
		if category != "" && q.Category != category {
			return false
		}
		return match(q)
	})
}

// CategoryCounts returns the number of active questions per category.
func (r *QuestionRepository) CategoryCounts(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, id := range r.order {
		if q := r.questions[id]; q.IsActive {
			counts[q.Category]++
		}
	}
	return counts, nil
}

func (r *QuestionRepository) collect(ctx context.Context, keep func(q *model.Question) bool) ([]model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Question, 0, len(r.order))
	for _, id := range r.order {
		q := r.questions[id]
		if q.IsActive && keep(q) {
			out = append(out, *q)
		}
	}
	return out, nil
}

func matchesTerm(term string) func(q *model.Question) bool {
	needle := strings.ToLower(term)
	return func(q *model.Question) bool {
		if needle == "" {
			return true
		}
		for _, field := range []string{q.Text, q.Explanation, q.OptionA, q.OptionB, q.OptionC, q.OptionD} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}
}
