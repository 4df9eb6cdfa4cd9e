package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/quiz"
	"github.com/stemsi/certquiz-backend/internal/repository"
	"github.com/stemsi/certquiz-backend/internal/response"
	"github.com/stemsi/certquiz-backend/internal/service"
)

// classify maps a domain error onto an HTTP status and error code.
func classify(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, service.ErrValidation), errors.Is(err, quiz.ErrInvalidAnswer):
		return http.StatusBadRequest, response.ErrValidation
	case errors.Is(err, service.ErrNoQuestions):
		return http.StatusConflict, response.ErrNoQuestions
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, response.ErrSessionNotFound
	case errors.Is(err, service.ErrSessionCompleted):
		return http.StatusConflict, response.ErrSessionCompleted
	case errors.Is(err, service.ErrSessionInProgress):
		return http.StatusConflict, response.ErrSessionInProgress
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.ErrInvalidCredentials
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// failWith writes the envelope for err. Unexpected errors are logged.
func failWith(c *gin.Context, log zerolog.Logger, err error) {
	status, code := classify(err)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		response.FailWithFields(c, status, code, verr.Fields)
		return
	}
	if errors.Is(err, quiz.ErrInvalidAnswer) {
		response.FailWithFields(c, status, code, map[string]string{"answer": err.Error()})
		return
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetString(response.ContextKeyRequestID)).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	response.Fail(c, status, code)
}

func parseQuestionID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
