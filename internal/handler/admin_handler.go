package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/logger"
	"github.com/stemsi/certquiz-backend/internal/response"
	"github.com/stemsi/certquiz-backend/internal/service"
)

// AdminHandler handles admin-only endpoints outside the question CRUD.
type AdminHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(quizService *service.QuizService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{quizService: quizService, log: logger.Component(log, "admin_handler")}
}

// QuizStats godoc
// GET /api/v1/admin/stats
// Aggregate of every completed quiz attempt.
func (h *AdminHandler) QuizStats(c *gin.Context) {
	stats, err := h.quizService.Stats(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"stats":          stats,
		"activeSessions": h.quizService.Len(),
	})
}
