package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/model"
	"github.com/stemsi/certquiz-backend/internal/repository"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker folds queued quiz results into the stats hash.
type ResultWorker struct {
	rdb *redis.Client
	log zerolog.Logger

	batchSize    int
	batchTimeout time.Duration
	pollTimeout  time.Duration
}

func NewResultWorker(rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		rdb:          rdb,
		log:          log.With().Str("component", "result_worker").Logger(),
		batchSize:    ResultBatchSize,
		batchTimeout: ResultBatchTimeout,
		pollTimeout:  ResultPollTimeout,
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start blocks until ctx is cancelled. On shutdown the pending batch and
// anything still queued are flushed.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]model.QuizResultEvent, 0, w.batchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= w.batchSize || time.Since(lastFlush) >= w.batchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining results...")
			w.flushSafe(context.Background(), batch)
			w.Drain(context.Background())
			return

		default:
			item, err := w.rdb.BLPop(ctx, w.pollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			if ev, ok := w.decode(item[1]); ok {
				batch = append(batch, ev)
			}
		}
	}
}

// Drain aggregates everything left on the queue without blocking.
func (w *ResultWorker) Drain(ctx context.Context) {
	batch := make([]model.QuizResultEvent, 0, w.batchSize)
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.PersistResultsQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				w.log.Error().Err(err).Msg("LPop error while draining")
			}
			break
		}
		if ev, ok := w.decode(raw); ok {
			batch = append(batch, ev)
		}
		if len(batch) >= w.batchSize {
			w.flushSafe(ctx, batch)
			batch = batch[:0]
		}
	}
	w.flushSafe(ctx, batch)
}

func (w *ResultWorker) decode(raw string) (model.QuizResultEvent, bool) {
	var ev model.QuizResultEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		return ev, false
	}
	return ev, true
}

// ----------------------------------------------------------------
// Pipelined HINCRBY aggregation
// ----------------------------------------------------------------

func (w *ResultWorker) flushSafe(ctx context.Context, batch []model.QuizResultEvent) {
	if len(batch) == 0 {
		return
	}

	if err := w.aggregate(ctx, batch); err != nil {
		w.log.Error().Err(err).Int("batch", len(batch)).Msg("stats aggregation failed, requeueing")

		pipe := w.rdb.Pipeline()
		for _, ev := range batch {
			raw, _ := json.Marshal(ev)
			pipe.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			w.log.Error().Err(err).Msg("requeue failed, results lost")
		}
		return
	}

	w.log.Debug().Int("batch", len(batch)).Msg("quiz results aggregated")
}

func (w *ResultWorker) aggregate(ctx context.Context, batch []model.QuizResultEvent) error {
	var score, questions int64
	reasons := make(map[string]int64)
	for _, ev := range batch {
		score += int64(ev.Score)
		questions += int64(ev.Total)
		reasons[ev.Reason]++
	}

	key := config.CacheKey.QuizStatsKey()
	_, err := w.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, repository.StatsFieldAttempts, int64(len(batch)))
		pipe.HIncrBy(ctx, key, repository.StatsFieldTotalScore, score)
		pipe.HIncrBy(ctx, key, repository.StatsFieldTotalQuestions, questions)
		for reason, n := range reasons {
			pipe.HIncrBy(ctx, key, config.CacheKey.QuizStatsReasonField(reason), n)
		}
		return nil
	})
	return err
}
