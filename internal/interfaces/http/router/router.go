// Package router assembles the gin engine: global middleware, the
// versioned API group and every handler's routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sopas/backend/internal/infrastructure/auth"
	"github.com/sopas/backend/internal/infrastructure/config"
	"github.com/sopas/backend/internal/infrastructure/logger"
	"github.com/sopas/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a handler's routes on the API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Options carries everything the router needs beyond the handlers
type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
}

// New builds the gin engine with global middleware and registers all
// handler routes under /api/v1. Auth routes and health checks bypass
// JWT authentication.
func New(opts Options, registrars ...RouteRegistrar) *gin.Engine {
	if opts.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(opts.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(opts.Config.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	if opts.Config.Telemetry.Enabled {
		engine.Use(middleware.Tracing(opts.Config.App.Name))
		engine.Use(middleware.TracingAttributes())
	}
	engine.Use(logger.GinMiddleware(opts.Logger))
	engine.Use(logger.Recovery(opts.Logger))
	engine.Use(middleware.CORSWithConfig(corsConfig(opts.Config)))
	engine.Use(middleware.BodyLimit(opts.Config.Upload.MaxFileSize))

	engine.GET("/health", healthCheck)

	api := engine.Group("/api/v1")
	api.GET("/health", healthCheck)
	api.Use(middleware.JWTAuthMiddleware(opts.JWTService))

	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}

	return engine
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
