package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryResultRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResultRepository()

	require.NoError(t, r.Record(ctx, model.QuizResultEvent{Score: 7, Total: 10, Reason: "submit"}))
	require.NoError(t, r.Record(ctx, model.QuizResultEvent{Score: 2, Total: 3, Reason: "timeout"}))

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Attempts)
	assert.EqualValues(t, 9, stats.TotalScore)
	assert.EqualValues(t, 13, stats.TotalQuestions)
	assert.InDelta(t, 69.23, stats.AveragePercentage, 0.01)
	assert.Equal(t, map[string]int64{"submit": 1, "timeout": 1}, stats.ByReason)

	stats.ByReason["submit"] = 100
	again, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, again.ByReason["submit"], "Stats returns a copy")
}

func TestRedisResultRepositoryQueuesResult(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	r := NewRedisResultRepository(rdb)

	ev := model.QuizResultEvent{
		SessionID:  "abc",
		Score:      2,
		Total:      3,
		Percentage: 67,
		Reason:     "last_question",
		FinishedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, r.Record(ctx, ev))

	items, err := mr.List(config.WorkerKey.PersistResultsQueue)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var got model.QuizResultEvent
	require.NoError(t, json.Unmarshal([]byte(items[0]), &got))
	assert.Equal(t, ev, got)
}

func TestRedisResultRepositoryStats(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	key := config.CacheKey.QuizStatsKey()
	mr.HSet(key, StatsFieldAttempts, "4")
	mr.HSet(key, StatsFieldTotalScore, "20")
	mr.HSet(key, StatsFieldTotalQuestions, "40")
	mr.HSet(key, config.CacheKey.QuizStatsReasonField("timeout"), "1")

	stats, err := NewRedisResultRepository(rdb).Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.Attempts)
	assert.EqualValues(t, 20, stats.TotalScore)
	assert.EqualValues(t, 40, stats.TotalQuestions)
	assert.InDelta(t, 50.0, stats.AveragePercentage, 0.001)
	assert.EqualValues(t, 1, stats.ByReason["timeout"])
}

func TestParseStatsHashRejectsGarbage(t *testing.T) {
	_, err := ParseStatsHash(map[string]string{StatsFieldAttempts: "many"})
	assert.Error(t, err)

	empty, err := ParseStatsHash(nil)
	require.NoError(t, err)
	assert.Zero(t, empty.AveragePercentage)
}
