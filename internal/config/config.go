package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// RedisURL is optional. When empty, quiz results are aggregated in memory.
	RedisURL string

	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	// AdminPasswordHash takes precedence over AdminPassword. The plain
	// password is hashed once at startup so it never sits in a comparison path.
	AdminPassword     string
	AdminPasswordHash string

	// LoginRateLimit is the number of admin login attempts allowed per IP per minute.
	LoginRateLimit int

	SeedQuestions bool

	QuizPoolSize        int
	QuizDuration        time.Duration
	QuizTickInterval    time.Duration
	QuizSessionTTL      time.Duration
	QuizJanitorInterval time.Duration

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "pretty"),
		RedisURL:            getEnv("REDIS_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:           time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 12)) * time.Hour,
		BcryptCost:          getEnvInt("BCRYPT_COST", 10),
		AdminPassword:       getEnv("ADMIN_PASSWORD", "change-this-admin-password"),
		AdminPasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
		LoginRateLimit:      getEnvInt("LOGIN_RATE_LIMIT", 10),
		SeedQuestions:       getEnvBool("SEED_QUESTIONS", true),
		QuizPoolSize:        getEnvInt("QUIZ_POOL_SIZE", 10),
		QuizDuration:        time.Duration(getEnvInt("QUIZ_DURATION_SECONDS", 600)) * time.Second,
		QuizTickInterval:    time.Second,
		QuizSessionTTL:      time.Duration(getEnvInt("QUIZ_SESSION_TTL_MINUTES", 30)) * time.Minute,
		QuizJanitorInterval: time.Minute,
		AllowedOrigins:      parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
