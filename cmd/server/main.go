package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/karthikc1125/GroqTales/internal/auth"
	"github.com/karthikc1125/GroqTales/internal/cache"
	"github.com/karthikc1125/GroqTales/internal/config"
	"github.com/karthikc1125/GroqTales/internal/database"
	"github.com/karthikc1125/GroqTales/internal/feed"
	"github.com/karthikc1125/GroqTales/internal/handlers"
	"github.com/karthikc1125/GroqTales/internal/interactions"
	"github.com/karthikc1125/GroqTales/internal/logger"
	"github.com/karthikc1125/GroqTales/internal/middleware"
	"github.com/karthikc1125/GroqTales/internal/repository"
	"github.com/karthikc1125/GroqTales/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		// .env is optional; system environment wins
		_ = err
	}

	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("=== GroqTales feed server starting ===",
		zap.String("environment", cfg.Environment))

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis backs the write-path rate limiter; the server runs without it
	redisClient, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
	}

	// Optional distributed tracing
	tp, err := telemetry.InitTracer(telemetry.Config{
		ServiceName:  "groqtales-feed",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Enabled:      cfg.TracingEnabled,
		SamplingRate: cfg.TraceSampleRate,
	})
	if err != nil {
		logger.Log.Warn("Failed to initialize tracing", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}

	// Wire the core: repositories into the feed orchestrator and the
	// interaction recorder
	storyRepo := repository.NewStoryRepository(database.DB)
	interactionRepo := repository.NewInteractionRepository(database.DB)
	feedService := feed.NewService(storyRepo, interactionRepo, cfg.TrendingTimeout)
	recorder := interactions.NewRecorder(interactionRepo)

	h := handlers.NewHandlers(feedService, recorder)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret))

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware("groqtales-feed"))
	}

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "groqtales-feed",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api/v1")
	{
		feedGroup := api.Group("/feed")
		{
			// The feed personalizes when it can; anonymous callers get
			// trending
			feedGroup.GET("", authMiddleware.OptionalAuth(), h.GetFeed)
			feedGroup.GET("/trending", h.GetTrendingFeed)
		}

		interactionsGroup := api.Group("/interactions")
		{
			interactionsGroup.Use(authMiddleware.RequireAuth())
			interactionsGroup.Use(middleware.RedisRateLimitMiddleware(cfg.RateLimitMax, cfg.RateLimitWindow))
			interactionsGroup.POST("", h.RecordInteraction)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info("GroqTales feed backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
