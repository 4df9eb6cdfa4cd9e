package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "REDIS_URL", "QUIZ_POOL_SIZE", "QUIZ_DURATION_SECONDS", "SEED_QUESTIONS", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 10, cfg.QuizPoolSize)
	assert.Equal(t, 600*time.Second, cfg.QuizDuration)
	assert.Equal(t, time.Second, cfg.QuizTickInterval)
	assert.True(t, cfg.SeedQuestions)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUIZ_POOL_SIZE", "5")
	t.Setenv("QUIZ_DURATION_SECONDS", "90")
	t.Setenv("SEED_QUESTIONS", "false")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()

	assert.Equal(t, 5, cfg.QuizPoolSize)
	assert.Equal(t, 90*time.Second, cfg.QuizDuration)
	assert.False(t, cfg.SeedQuestions)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 7},
		{name: "number", value: "3", want: 3},
		{name: "not a number", value: "abc", want: 7},
		{name: "negative", value: "-2", want: 7},
		{name: "zero", value: "0", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CERTQUIZ_TEST_INT", tt.value)
			assert.Equal(t, tt.want, getEnvInt("CERTQUIZ_TEST_INT", 7))
		})
	}
}
