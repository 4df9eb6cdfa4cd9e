package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/response"
	"github.com/stemsi/certquiz-backend/internal/service"
)

const metricsInterval = 5 * time.Second

// SystemHandler reports liveness and streams runtime metrics via SSE.
type SystemHandler struct {
	rdb         *redis.Client // nil when Redis is not configured
	quizService *service.QuizService
	startTime   time.Time
	log         zerolog.Logger
}

func NewSystemHandler(rdb *redis.Client, quizService *service.QuizService, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:         rdb,
		quizService: quizService,
		startTime:   time.Now(),
		log:         log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Reports "degraded" with 503 if Redis is configured but unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	redisStatus := "disabled"
	status, code := "ok", http.StatusOK

	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Redis ping failed")
			redisStatus = "down"
			status, code = "degraded", http.StatusServiceUnavailable
		} else {
			redisStatus = "up"
		}
	}

	response.Success(c, code, gin.H{
		"status": status,
		"redis":  redisStatus,
		"uptime": formatDuration(time.Since(h.startTime)),
	})
}

// ---------- SSE Endpoint ----------

type systemMetrics struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	// Go Application
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapSys    uint64 `json:"heap_sys"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`

	// Quiz
	ActiveSessions int   `json:"active_sessions"`
	QueueResults   int64 `json:"queue_results"`
}

// SystemMetricsSSE godoc
// GET /api/v1/admin/system/metrics
func (h *SystemHandler) SystemMetricsSSE(c *gin.Context) {
	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	h.log.Info().Msg("Admin connected to system metrics SSE")

	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	// Send immediately on connect, then every tick
	h.writeMetrics(c)

	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Msg("Admin disconnected from system metrics SSE")
			return
		case <-ticker.C:
			h.writeMetrics(c)
		}
	}
}

func (h *SystemHandler) writeMetrics(c *gin.Context) {
	data, err := json.Marshal(h.collect(c.Request.Context()))
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}

func (h *SystemHandler) collect(ctx context.Context) systemMetrics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m := systemMetrics{
		Timestamp:      time.Now().Unix(),
		Uptime:         formatDuration(time.Since(h.startTime)),
		Goroutines:     runtime.NumGoroutine(),
		HeapAlloc:      mem.HeapAlloc,
		HeapSys:        mem.HeapSys,
		NumGC:          mem.NumGC,
		GoVersion:      runtime.Version(),
		ActiveSessions: h.quizService.Len(),
	}

	if h.rdb != nil {
		m.QueueResults, _ = h.rdb.LLen(ctx, config.WorkerKey.PersistResultsQueue).Result()
	}
	return m
}

// ---------- Helpers ----------

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
