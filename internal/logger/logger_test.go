package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, "debug", "json"), "quiz_service")

	log.Info().Int("score", 7).Msg("Quiz completed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "quiz_service", entry["component"])
	assert.Equal(t, "Quiz completed", entry["message"])
	assert.EqualValues(t, 7, entry["score"])
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	_ = New(&buf, "loud", "json")

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
