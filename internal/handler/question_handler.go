package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/logger"
	"github.com/stemsi/certquiz-backend/internal/model"
	"github.com/stemsi/certquiz-backend/internal/response"
	"github.com/stemsi/certquiz-backend/internal/service"
	"github.com/stemsi/certquiz-backend/internal/validator"
)

// QuestionHandler handles question catalog endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
	log             zerolog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		log:             logger.Component(log, "question_handler"),
	}
}

// ListQuestions godoc
// GET /api/v1/questions?search=&category=
// Lists active questions. Either query parameter narrows the result; both
// combine. category=all is the same as no category.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var q model.BrowseQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.questionService.Browse(c.Request.Context(), q)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// GetQuestion godoc
// GET /api/v1/questions/:id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := parseQuestionID(c)
	if !ok {
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// SearchQuestions godoc
// GET /api/v1/questions/search/:term
// Case-insensitive substring match over text, explanation and options.
func (h *QuestionHandler) SearchQuestions(c *gin.Context) {
	questions, err := h.questionService.Search(c.Request.Context(), c.Param("term"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// ListByCategory godoc
// GET /api/v1/questions/category/:category
// Exact category match.
func (h *QuestionHandler) ListByCategory(c *gin.Context) {
	questions, err := h.questionService.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// ListCategories godoc
// GET /api/v1/categories
// Returns category labels with active question counts.
func (h *QuestionHandler) ListCategories(c *gin.Context) {
	categories, err := h.questionService.Categories(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

// CreateQuestion godoc
// POST /api/v1/admin/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := req.ToQuestion()
	if err := h.questionService.Create(c.Request.Context(), question); err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// UpdateQuestion godoc
// PUT /api/v1/admin/questions/:id
// Partial update; omitted fields keep their stored value.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := parseQuestionID(c)
	if !ok {
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/questions/:id
// Soft delete; the id is never reused.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := parseQuestionID(c)
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "question deleted"})
}
