package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/logger"
	"github.com/stemsi/certquiz-backend/internal/model"
	"github.com/stemsi/certquiz-backend/internal/quiz"
	"github.com/stemsi/certquiz-backend/internal/response"
	"github.com/stemsi/certquiz-backend/internal/service"
	"github.com/stemsi/certquiz-backend/internal/validator"
)

// QuizHandler handles practice quiz session endpoints.
type QuizHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{quizService: quizService, log: logger.Component(log, "quiz_handler")}
}

// StartSession godoc
// POST /api/v1/quiz/sessions
// Samples up to ten questions and starts the countdown.
func (h *QuizHandler) StartSession(c *gin.Context) {
	id, snap, err := h.quizService.Start(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"sessionId": id, "session": snap})
}

// GetSession godoc
// GET /api/v1/quiz/sessions/:id
func (h *QuizHandler) GetSession(c *gin.Context) {
	h.respond(c, h.quizService.Get)
}

// SelectAnswer godoc
// POST /api/v1/quiz/sessions/:id/select
// Sets the active choice; it is recorded on next or submit.
func (h *QuizHandler) SelectAnswer(c *gin.Context) {
	var req model.SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.respond(c, func(id uuid.UUID) (*quiz.Snapshot, error) {
		return h.quizService.Select(id, req.Answer)
	})
}

// NextQuestion godoc
// POST /api/v1/quiz/sessions/:id/next
// On the last question this completes the session.
func (h *QuizHandler) NextQuestion(c *gin.Context) {
	h.respond(c, h.quizService.Next)
}

// PreviousQuestion godoc
// POST /api/v1/quiz/sessions/:id/previous
func (h *QuizHandler) PreviousQuestion(c *gin.Context) {
	h.respond(c, h.quizService.Previous)
}

// SubmitSession godoc
// POST /api/v1/quiz/sessions/:id/submit
func (h *QuizHandler) SubmitSession(c *gin.Context) {
	h.respond(c, h.quizService.Submit)
}

// GetResult godoc
// GET /api/v1/quiz/sessions/:id/result
// Score and per-question review; 409 while the session is running.
func (h *QuizHandler) GetResult(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.quizService.Result(id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// DiscardSession godoc
// DELETE /api/v1/quiz/sessions/:id
func (h *QuizHandler) DiscardSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.quizService.Discard(id); err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "session discarded"})
}

func (h *QuizHandler) respond(c *gin.Context, op func(id uuid.UUID) (*quiz.Snapshot, error)) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	snap, err := op(id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": snap})
}
