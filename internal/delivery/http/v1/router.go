package v1

import (
	"log/slog"

	"gx-services-backend/config"
	"gx-services-backend/internal/delivery/http/middleware"
	"gx-services-backend/internal/domain"
	"gx-services-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	Config         *config.Config
	Logger         *slog.Logger
	SecurityLogger *security.SecurityLogger
	// Shared rate limit counters; nil means in-memory
	RateLimitStore middleware.RateLimitStore
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	exposeDetails := cfg.IsDevelopment()

	r := gin.New()
	// Client identity for rate limiting is the socket peer unless proxies are trusted explicitly.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		deps.Logger.Warn("Invalid TRUSTED_PROXIES, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	rateLimit := middleware.SendEmailRateLimitConfig(cfg.RateLimitMaxRequests, cfg.RateLimitWindow)
	rateLimit.Store = deps.RateLimitStore
	rateLimit.Security = deps.SecurityLogger
	rateLimit.Logger = deps.Logger

	// Global Middlewares. ErrorHandler sits before CORS so it can render CORS rejections.
	// The /send-email limiter runs ahead of CORS so rejected origins and preflights count too.
	r.Use(middleware.Recovery(deps.Logger, exposeDetails))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.ErrorHandler(deps.Logger, exposeDetails))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ForPath("/send-email", middleware.RateLimitMiddleware(rateLimit)))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, deps.SecurityLogger))

	NewHealthHandler(r, cfg.Environment)
	NewContactHandler(r, deps.ContactUC, deps.SecurityLogger, middleware.BodyLimit(cfg.BodyLimitBytes))

	// Swagger UI is only served outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(middleware.NotFoundHandler())

	return r
}
