package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gx-services-backend/config"
	_ "gx-services-backend/docs" // Important for Swagger
	"gx-services-backend/internal/delivery/http/middleware"
	v1 "gx-services-backend/internal/delivery/http/v1"
	"gx-services-backend/internal/usecase"
	"gx-services-backend/pkg/email"
	"gx-services-backend/pkg/logger"
	"gx-services-backend/pkg/redis"
	"gx-services-backend/pkg/security"
	"gx-services-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           GX Services Backend API
// @version         1.0
// @description     Contact form relay for the GX Integrated Services website.
// @host            localhost:3001
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.Environment)
	secLog := security.NewSecurityLogger("gx-services-backend", cfg.Environment)
	defer func() { _ = secLog.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.SMTPInsecureSkipVerify {
		logger.Log.Warn("SMTP certificate verification is disabled", "smtp_host", cfg.SMTPHost)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Rate Limit Store
	var rateLimitStore middleware.RateLimitStore
	redisClient, err := redis.Connect(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case err == nil:
		defer func() { _ = redisClient.Close() }()
		rateLimitStore = middleware.NewRedisStore(redisClient)
		logger.Log.Info("Rate limiting backed by Redis")
	case errors.Is(err, redis.ErrNotConfigured):
		memStore := middleware.NewMemoryStore()
		memStore.StartCleanup(ctx, time.Minute)
		rateLimitStore = memStore
	default:
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory counters", "error", err)
		memStore := middleware.NewMemoryStore()
		memStore.StartCleanup(ctx, time.Minute)
		rateLimitStore = memStore
	}

	// 4. Setup Email Pipeline
	dispatcher := email.NewDispatcherFromConfig(cfg)
	renderer := email.NewRenderer()

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(validation.New(), renderer, dispatcher, logger.Log)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		Config:         cfg,
		Logger:         logger.Log,
		SecurityLogger: secLog,
		RateLimitStore: rateLimitStore,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running",
			"port", cfg.Port,
			"smtp_host", cfg.SMTPHost,
			"environment", cfg.Environment,
			"recipients", strings.Join(cfg.EmailTo, ", "),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
