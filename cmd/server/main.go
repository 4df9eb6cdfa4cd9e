package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/database"
	"github.com/stemsi/certquiz-backend/internal/handler"
	"github.com/stemsi/certquiz-backend/internal/logger"
	"github.com/stemsi/certquiz-backend/internal/middleware"
	"github.com/stemsi/certquiz-backend/internal/repository"
	"github.com/stemsi/certquiz-backend/internal/router"
	"github.com/stemsi/certquiz-backend/internal/service"
	"github.com/stemsi/certquiz-backend/internal/validator"
	"github.com/stemsi/certquiz-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting CertQuiz Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	questionRepo := repository.NewQuestionRepository()
	if cfg.SeedQuestions {
		n, err := repository.Seed(ctx, questionRepo, repository.SeedQuestions())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed questions")
		}
		log.Info().Int("count", n).Msg("Question catalog seeded")
	}

	var recorder service.ResultRecorder
	if rdb != nil {
		recorder = repository.NewRedisResultRepository(rdb)
	} else {
		recorder = repository.NewMemoryResultRepository()
		log.Warn().Msg("REDIS_URL not set, quiz statistics are kept in memory")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService, err := service.NewAuthService(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth service")
	}
	questionService := service.NewQuestionService(questionRepo, log)
	quizService := service.NewQuizService(questionRepo, recorder, cfg, log)

	loginLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRateLimit, time.Minute)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, log),
		Admin:    handler.NewAdminHandler(quizService, log),
		Question: handler.NewQuestionHandler(questionService, log),
		Quiz:     handler.NewQuizHandler(quizService, log),
		WS:       handler.NewWSHandler(quizService, log, cfg.AllowedOrigins),
		System:   handler.NewSystemHandler(rdb, quizService, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	if rdb != nil {
		resultWorker := worker.NewResultWorker(rdb, log)
		workers.Add(1)
		go func() {
			defer workers.Done()
			resultWorker.Start(workerCtx)
		}()
	}

	workers.Add(1)
	go func() {
		defer workers.Done()
		quizService.RunJanitor(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, loginLimiter, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop countdowns and close open streams.
	quizService.Close()

	// 3. Stop background workers and wait for the result queue to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
