package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/certquiz-backend/internal/quiz"
	"github.com/stemsi/certquiz-backend/internal/repository"
	"github.com/stemsi/certquiz-backend/internal/response"
	"github.com/stemsi/certquiz-backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   response.ErrCode
	}{
		{"not found", fmt.Errorf("get: %w", repository.ErrNotFound), http.StatusNotFound, response.ErrNotFound},
		{"validation", &service.ValidationError{Fields: map[string]string{"text": "required"}}, http.StatusBadRequest, response.ErrValidation},
		{"invalid answer", quiz.ErrInvalidAnswer, http.StatusBadRequest, response.ErrValidation},
		{"no questions", service.ErrNoQuestions, http.StatusConflict, response.ErrNoQuestions},
		{"session not found", service.ErrSessionNotFound, http.StatusNotFound, response.ErrSessionNotFound},
		{"session completed", service.ErrSessionCompleted, http.StatusConflict, response.ErrSessionCompleted},
		{"session in progress", service.ErrSessionInProgress, http.StatusConflict, response.ErrSessionInProgress},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, response.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestParseIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		parse func(*gin.Context) bool
		value string
		ok    bool
	}{
		{"question id", func(c *gin.Context) bool { _, ok := parseQuestionID(c); return ok }, "12", true},
		{"question id zero", func(c *gin.Context) bool { _, ok := parseQuestionID(c); return ok }, "0", false},
		{"question id text", func(c *gin.Context) bool { _, ok := parseQuestionID(c); return ok }, "abc", false},
		{"session id", func(c *gin.Context) bool { _, ok := parseSessionID(c); return ok }, uuid.NewString(), true},
		{"session id text", func(c *gin.Context) bool { _, ok := parseSessionID(c); return ok }, "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			assert.Equal(t, tt.ok, tt.parse(c))
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
