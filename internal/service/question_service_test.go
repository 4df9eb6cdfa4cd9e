package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/model"
	"github.com/stemsi/certquiz-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func validQuestion(text, category string) *model.Question {
	return &model.Question{
		Text:          text,
		Category:      category,
		OptionA:       "Alpha",
		OptionB:       "Bravo",
		OptionC:       "Charlie",
		OptionD:       "Delta",
		CorrectAnswer: "B",
		Explanation:   "Bravo is right.",
	}
}

func newQuestionService(t *testing.T) (*QuestionService, *repository.QuestionRepository) {
	t.Helper()
	repo := repository.NewQuestionRepository()
	return NewQuestionService(repo, zerolog.Nop()), repo
}

func TestQuestionServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuestionService(t)

	q := validQuestion("What is KYC?", model.CategoryRegulatory)
	require.NoError(t, svc.Create(ctx, q))
	assert.Equal(t, 1, q.ID)
	assert.True(t, q.IsActive)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, *q, *got)
}

func TestQuestionServiceCreateRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *model.Question)
		field  string
	}{
		{name: "blank text", mutate: func(q *model.Question) { q.Text = "  " }, field: "text"},
		{name: "empty category", mutate: func(q *model.Question) { q.Category = "" }, field: "category"},
		{name: "empty option", mutate: func(q *model.Question) { q.OptionC = "" }, field: "optionC"},
		{name: "bad letter", mutate: func(q *model.Question) { q.CorrectAnswer = "E" }, field: "correctAnswer"},
		{name: "lowercase letter", mutate: func(q *model.Question) { q.CorrectAnswer = "b" }, field: "correctAnswer"},
		{
			name: "answer points at empty option",
			mutate: func(q *model.Question) {
				q.OptionB = ""
			},
			field: "correctAnswer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newQuestionService(t)
			q := validQuestion("text", model.CategoryServices)
			tt.mutate(q)

			err := svc.Create(context.Background(), q)

			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)

			all, _ := repo.GetAll(context.Background())
			assert.Empty(t, all, "nothing is stored on validation failure")
		})
	}
}

func TestQuestionServiceUpdateMergesPartialFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuestionService(t)
	q := validQuestion("Original", model.CategoryServices)
	require.NoError(t, svc.Create(ctx, q))

	updated, err := svc.Update(ctx, q.ID, &model.UpdateQuestionRequest{
		Text:          ptr("Edited"),
		CorrectAnswer: ptr("D"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Edited", updated.Text)
	assert.Equal(t, "D", updated.CorrectAnswer)
	assert.Equal(t, "Alpha", updated.OptionA)
	assert.Equal(t, model.CategoryServices, updated.Category)
	assert.Equal(t, q.ID, updated.ID)
	assert.True(t, updated.IsActive)
}

func TestQuestionServiceUpdateFailureLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuestionService(t)
	q := validQuestion("Original", model.CategoryServices)
	require.NoError(t, svc.Create(ctx, q))

	_, err := svc.Update(ctx, q.ID, &model.UpdateQuestionRequest{
		Text:    ptr("Should not stick"),
		OptionB: ptr(""),
	})
	require.ErrorIs(t, err, ErrValidation)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Text)
	assert.Equal(t, "Bravo", got.OptionB)
}

func TestQuestionServiceUpdateMissing(t *testing.T) {
	svc, _ := newQuestionService(t)

	_, err := svc.Update(context.Background(), 42, &model.UpdateQuestionRequest{Text: ptr("x")})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestQuestionServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuestionService(t)
	q := validQuestion("Doomed", model.CategoryTechnical)
	require.NoError(t, svc.Create(ctx, q))

	require.NoError(t, svc.Delete(ctx, q.ID))

	_, err := svc.Get(ctx, q.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 99), repository.ErrNotFound)
}

func TestQuestionServiceBrowse(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuestionService(t)
	require.NoError(t, svc.Create(ctx, validQuestion("UPI limits", model.CategoryServices)))
	require.NoError(t, svc.Create(ctx, validQuestion("UPI regulation", model.CategoryRegulatory)))
	require.NoError(t, svc.Create(ctx, validQuestion("Server uptime", model.CategoryTechnical)))

	tests := []struct {
		name  string
		query model.BrowseQuery
		want  []string
	}{
		{name: "no filter", query: model.BrowseQuery{}, want: []string{"UPI limits", "UPI regulation", "Server uptime"}},
		{name: "all category", query: model.BrowseQuery{Category: "all"}, want: []string{"UPI limits", "UPI regulation", "Server uptime"}},
		{name: "search only", query: model.BrowseQuery{Search: "upi"}, want: []string{"UPI limits", "UPI regulation"}},
		{name: "category only", query: model.BrowseQuery{Category: model.CategoryTechnical}, want: []string{"Server uptime"}},
		{name: "combined", query: model.BrowseQuery{Search: "upi", Category: model.CategoryRegulatory}, want: []string{"UPI regulation"}},
		{name: "no match", query: model.BrowseQuery{Search: "upi", Category: model.CategoryCustomer}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Browse(ctx, tt.query)
			require.NoError(t, err)

			texts := make([]string, 0, len(got))
			for _, q := range got {
				texts = append(texts, q.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestQuestionServiceCategories(t *testing.T) {
	ctx := context.Background()
	svc, repo := newQuestionService(t)
	_, err := repository.Seed(ctx, repo, repository.SeedQuestions())
	require.NoError(t, err)
	require.NoError(t, svc.Create(ctx, validQuestion("Odd one", "marketing")))

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)

	assert.Equal(t, []model.Category{
		{Value: model.CategoryRegulatory, Label: "Regulatory & Compliance", Count: 4},
		{Value: model.CategoryServices, Label: "Services & Features", Count: 3},
		{Value: model.CategoryTechnical, Label: "Technical Operations", Count: 1},
		{Value: model.CategoryCustomer, Label: "Customer Service", Count: 2},
		{Value: "marketing", Label: "marketing", Count: 1},
	}, cats)
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"text": "bad", "category": "worse"}}
	assert.Equal(t, "validation failed: category: worse; text: bad", err.Error())
}
