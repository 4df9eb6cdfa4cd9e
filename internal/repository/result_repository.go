package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/model"
)

// MemoryResultRepository aggregates quiz results in process memory.
type MemoryResultRepository struct {
	mu    sync.Mutex
	stats model.QuizStats
}

// NewMemoryResultRepository creates an empty MemoryResultRepository.
func NewMemoryResultRepository() *MemoryResultRepository {
	return &MemoryResultRepository{stats: model.QuizStats{ByReason: map[string]int64{}}}
}

// Record folds ev into the running totals.
func (r *MemoryResultRepository) Record(_ context.Context, ev model.QuizResultEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Add(ev)
	return nil
}

// Stats returns a copy of the running totals.
func (r *MemoryResultRepository) Stats(_ context.Context) (*model.QuizStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.stats
	out.ByReason = maps.Clone(r.stats.ByReason)
	return &out, nil
}

// RedisResultRepository queues results on a Redis list for the result worker
// and reads the aggregate the worker maintains.
type RedisResultRepository struct {
	rdb *redis.Client
}

// NewRedisResultRepository creates a new RedisResultRepository.
func NewRedisResultRepository(rdb *redis.Client) *RedisResultRepository {
	return &RedisResultRepository{rdb: rdb}
}

// Record pushes ev onto the results queue.
func (r *RedisResultRepository) Record(ctx context.Context, ev model.QuizResultEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := r.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw).Err(); err != nil {
		return fmt.Errorf("queue result: %w", err)
	}
	return nil
}

// Stats reads the aggregate hash. Results still waiting in the queue are not counted.
func (r *RedisResultRepository) Stats(ctx context.Context) (*model.QuizStats, error) {
	fields, err := r.rdb.HGetAll(ctx, config.CacheKey.QuizStatsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	return ParseStatsHash(fields)
}

// Stats hash fields.
const (
	StatsFieldAttempts       = "attempts"
	StatsFieldTotalScore     = "total_score"
	StatsFieldTotalQuestions = "total_questions"
)

// ParseStatsHash converts the raw Redis hash into QuizStats.
func ParseStatsHash(fields map[string]string) (*model.QuizStats, error) {
	stats := &model.QuizStats{ByReason: map[string]int64{}}
	reasonPrefix := config.CacheKey.QuizStatsReasonField("")

	for k, v := range fields {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stats field %q: %w", k, err)
		}
		switch {
		case k == StatsFieldAttempts:
			stats.Attempts = n
		case k == StatsFieldTotalScore:
			stats.TotalScore = n
		case k == StatsFieldTotalQuestions:
			stats.TotalQuestions = n
		case strings.HasPrefix(k, reasonPrefix):
			stats.ByReason[strings.TrimPrefix(k, reasonPrefix)] = n
		}
	}
	stats.Refresh()
	return stats, nil
}
