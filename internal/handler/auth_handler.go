package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/logger"
	"github.com/stemsi/certquiz-backend/internal/model"
	"github.com/stemsi/certquiz-backend/internal/response"
	"github.com/stemsi/certquiz-backend/internal/service"
	"github.com/stemsi/certquiz-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         logger.Component(log, "auth_handler"),
	}
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Exchanges the admin password for a bearer token.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.authService.LoginAdmin(req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.log.Warn().Str("ip", c.ClientIP()).Msg("admin login rejected")
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		failWith(c, h.log, err)
		return
	}

	h.log.Info().Str("ip", c.ClientIP()).Msg("admin logged in")
	response.Success(c, http.StatusOK, token)
}
