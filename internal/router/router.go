package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/certquiz-backend/internal/config"
	"github.com/stemsi/certquiz-backend/internal/handler"
	"github.com/stemsi/certquiz-backend/internal/middleware"
	"github.com/stemsi/certquiz-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Admin    *handler.AdminHandler
	Question *handler.QuestionHandler
	Quiz     *handler.QuizHandler
	WS       *handler.WSHandler
	System   *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	auth middleware.TokenValidator,
	loginLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", handlers.System.Health)

	// ─── 0. Public Catalog (No Auth) ───────────────────────────────────
	publicAPI := router.Group("/api/v1")
	{
		publicAPI.GET("/questions", handlers.Question.ListQuestions)
		publicAPI.GET("/questions/:id", handlers.Question.GetQuestion)
		publicAPI.GET("/questions/search/:term", handlers.Question.SearchQuestions)
		publicAPI.GET("/questions/category/:category", handlers.Question.ListByCategory)
		publicAPI.GET("/categories", middleware.Revalidate(), handlers.Question.ListCategories)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authAPI := router.Group("/api/v1/auth")
	authAPI.Use(loginLimiter.Middleware())
	{
		authAPI.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// ─── 2. Quiz Sessions (No Auth) ────────────────────────────────────
	quizAPI := router.Group("/api/v1/quiz/sessions")
	quizAPI.Use(middleware.NoStore())
	{
		quizAPI.POST("", handlers.Quiz.StartSession)
		quizAPI.GET("/:id", handlers.Quiz.GetSession)
		quizAPI.POST("/:id/select", handlers.Quiz.SelectAnswer)
		quizAPI.POST("/:id/next", handlers.Quiz.NextQuestion)
		quizAPI.POST("/:id/previous", handlers.Quiz.PreviousQuestion)
		quizAPI.POST("/:id/submit", handlers.Quiz.SubmitSession)
		quizAPI.GET("/:id/result", handlers.Quiz.GetResult)
		quizAPI.DELETE("/:id", handlers.Quiz.DiscardSession)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/quiz/sessions/:id/stream", handlers.WS.QuizSessionStream)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(auth))
	{
		adminAPI.POST("/questions", handlers.Question.CreateQuestion)
		adminAPI.PUT("/questions/:id", handlers.Question.UpdateQuestion)
		adminAPI.DELETE("/questions/:id", handlers.Question.DeleteQuestion)

		adminAPI.GET("/stats", handlers.Admin.QuizStats)

		// System Monitoring
		adminAPI.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	return router
}
