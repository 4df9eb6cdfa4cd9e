package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/model"
	"github.com/stemsi/certquiz-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func pushResults(t *testing.T, rdb *redis.Client, evs ...model.QuizResultEvent) {
	t.Helper()
	r := repository.NewRedisResultRepository(rdb)
	for _, ev := range evs {
		require.NoError(t, r.Record(context.Background(), ev))
	}
}

func TestResultWorkerDrain(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	pushResults(t, rdb,
		model.QuizResultEvent{Score: 7, Total: 10, Reason: "submit"},
		model.QuizResultEvent{Score: 3, Total: 10, Reason: "timeout"},
		model.QuizResultEvent{Score: 2, Total: 3, Reason: "submit"},
	)
	_, err := mr.Lpush(config.WorkerKey.PersistResultsQueue, "{broken")
	require.NoError(t, err)

	w := NewResultWorker(rdb, zerolog.Nop())
	w.batchSize = 2
	w.Drain(ctx)

	stats, err := repository.NewRedisResultRepository(rdb).Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Attempts)
	assert.EqualValues(t, 12, stats.TotalScore)
	assert.EqualValues(t, 23, stats.TotalQuestions)
	assert.Equal(t, map[string]int64{"submit": 2, "timeout": 1}, stats.ByReason)

	n, err := rdb.LLen(ctx, config.WorkerKey.PersistResultsQueue).Result()
	require.NoError(t, err)
	assert.Zero(t, n, "malformed payloads are dropped")
}

func TestResultWorkerStartFlushesOnShutdown(t *testing.T) {
	_, rdb := newTestRedis(t)
	w := NewResultWorker(rdb, zerolog.Nop())
	w.batchTimeout = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	pushResults(t, rdb, model.QuizResultEvent{Score: 5, Total: 10, Reason: "last_question"})

	require.Eventually(t, func() bool {
		n, err := rdb.LLen(context.Background(), config.WorkerKey.PersistResultsQueue).Result()
		return err == nil && n == 0
	}, 3*time.Second, 10*time.Millisecond, "worker pops the queued result")

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	stats, err := repository.NewRedisResultRepository(rdb).Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Attempts)
	assert.EqualValues(t, 1, stats.ByReason["last_question"])
}

func TestResultWorkerRequeuesOnFailure(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	require.NoError(t, mr.Set(config.CacheKey.QuizStatsKey(), "not a hash"))

	w := NewResultWorker(rdb, zerolog.Nop())
	ev := model.QuizResultEvent{SessionID: "s1", Score: 1, Total: 2, Reason: "submit"}
	w.flushSafe(ctx, []model.QuizResultEvent{ev})

	items, err := rdb.LRange(ctx, config.WorkerKey.PersistResultsQueue, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, items, 1)

	var got model.QuizResultEvent
	require.NoError(t, json.Unmarshal([]byte(items[0]), &got))
	assert.Equal(t, "s1", got.SessionID)
}
