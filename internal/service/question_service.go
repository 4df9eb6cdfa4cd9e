package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/logger"
	"github.com/stemsi/certquiz-backend/internal/model"
	"github.com/stemsi/certquiz-backend/internal/repository"
)

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// CategoryAll is the browse-view sentinel for "no category constraint".
const CategoryAll = "all"

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// QuestionService handles question business logic.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		log:          logger.Component(log, "question_service"),
	}
}

// List returns every active question.
func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	return s.questionRepo.GetAll(ctx)
}

// Browse combines search and category filter. An empty category or "all"
// means no category constraint; an empty search matches everything.
func (s *QuestionService) Browse(ctx context.Context, q model.BrowseQuery) ([]model.Question, error) {
	category := strings.TrimSpace(q.Category)
	if strings.EqualFold(category, CategoryAll) {
		category = ""
	}
	return s.questionRepo.Filter(ctx, strings.TrimSpace(q.Search), category)
}

// Get returns an active question by id.
func (s *QuestionService) Get(ctx context.Context, id int) (*model.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// Search returns active questions matching term.
func (s *QuestionService) Search(ctx context.Context, term string) ([]model.Question, error) {
	return s.questionRepo.Search(ctx, term)
}

// ListByCategory returns active questions in exactly category.
func (s *QuestionService) ListByCategory(ctx context.Context, category string) ([]model.Question, error) {
	return s.questionRepo.ListByCategory(ctx, category)
}

// Categories lists the known categories in display order, followed by any
// other category that has active questions, sorted by value.
func (s *QuestionService) Categories(ctx context.Context) ([]model.Category, error) {
	counts, err := s.questionRepo.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Category, 0, len(model.KnownCategories)+len(counts))
	known := make(map[string]bool, len(model.KnownCategories))
	for _, c := range model.KnownCategories {
		known[c] = true
		out = append(out, model.Category{Value: c, Label: model.CategoryLabel(c), Count: counts[c]})
	}

	var extra []string
	for c := range counts {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		out = append(out, model.Category{Value: c, Label: model.CategoryLabel(c), Count: counts[c]})
	}
	return out, nil
}

// Create validates and stores a new question.
func (s *QuestionService) Create(ctx context.Context, q *model.Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	s.log.Info().Int("question_id", q.ID).Str("category", q.Category).Msg("question created")
	return nil
}

// Update merges req onto the stored question. The merged record is
// validated before it is written; on failure the stored record is unchanged.
func (s *QuestionService) Update(ctx context.Context, id int, req *model.UpdateQuestionRequest) (*model.Question, error) {
	updated, err := s.questionRepo.Update(ctx, id, func(q *model.Question) error {
		req.Apply(q)
		return validateQuestion(q)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("question_id", id).Msg("question updated")
	return updated, nil
}

// Delete soft-deletes a question.
func (s *QuestionService) Delete(ctx context.Context, id int) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("question_id", id).Msg("question deleted")
	return nil
}

// validateQuestion checks the rules that need the whole record: every
// required field is non-blank and the correct answer names a non-empty option.
func validateQuestion(q *model.Question) error {
	fields := map[string]string{}
	required := map[string]string{
		"text":     q.Text,
		"category": q.Category,
		"optionA":  q.OptionA,
		"optionB":  q.OptionB,
		"optionC":  q.OptionC,
		"optionD":  q.OptionD,
	}
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			fields[name] = name + " is a required field"
		}
	}

	switch {
	case !model.IsAnswerLetter(q.CorrectAnswer):
		fields["correctAnswer"] = "correctAnswer must be one of [A B C D]"
	case strings.TrimSpace(q.Option(q.CorrectAnswer)) == "":
		fields["correctAnswer"] = "correctAnswer must reference a non-empty option"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
