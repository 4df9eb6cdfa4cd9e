package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Role is the only claim the admin panel checks.
type Role string

const RoleAdmin Role = "admin"

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// AdminToken is the result of a successful admin login.
type AdminToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService checks the shared admin password and issues admin tokens.
type AuthService struct {
	cfg       *config.Config
	adminHash []byte
	log       zerolog.Logger
}

// NewAuthService creates a new AuthService. When no ADMIN_PASSWORD_HASH is
// configured, the plain ADMIN_PASSWORD is hashed here once.
func NewAuthService(cfg *config.Config, log zerolog.Logger) (*AuthService, error) {
	s := &AuthService{cfg: cfg, log: logger.Component(log, "auth_service")}

	if cfg.AdminPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.AdminPasswordHash)); err != nil {
			return nil, fmt.Errorf("parse admin password hash: %w", err)
		}
		s.adminHash = []byte(cfg.AdminPasswordHash)
		return s, nil
	}

	hash, err := s.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	s.adminHash = []byte(hash)
	s.log.Warn().Msg("ADMIN_PASSWORD_HASH not set, using plain ADMIN_PASSWORD")
	return s, nil
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// LoginAdmin checks password against the admin hash and returns a signed token.
func (s *AuthService) LoginAdmin(password string) (*AdminToken, error) {
	if err := s.CheckPassword(string(s.adminHash), password); err != nil {
		return nil, err
	}
	return s.GenerateAdminToken()
}

// GenerateAdminToken creates an HS256 JWT carrying the admin role.
func (s *AuthService) GenerateAdminToken() (*AdminToken, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWTExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   string(RoleAdmin),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: RoleAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AdminToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
