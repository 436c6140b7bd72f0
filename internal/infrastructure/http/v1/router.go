// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"numera/internal/core/sequence"
	"numera/internal/domain/auth"
	"numera/internal/domain/rules"
	"numera/internal/infrastructure/http/v1/handlers"
	"numera/internal/infrastructure/http/v1/middleware"
	"numera/internal/infrastructure/storage/postgres"
	"numera/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection (for health checks).
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// TokenValidator for access token validation.
	TokenValidator middleware.TokenValidator

	// AuthService issues operator tokens.
	AuthService *auth.Service

	// Generator issues document numbers.
	Generator sequence.Generator

	// RulesService administers numbering rules.
	RulesService *rules.Service

	// Journal exposes issued-number history. Optional.
	Journal *postgres.JournalService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(cfg.AuthService)
		v1.POST("/auth/token", authHandler.Token)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.TokenValidator))

		registerSequenceRoutes(protected, cfg)
		registerRuleRoutes(protected, cfg)
		registerJournalRoutes(protected, cfg)
	}

	return router
}

func registerSequenceRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := handlers.NewSequenceHandler(cfg.Generator)

	sequences := rg.Group("/sequences")
	sequences.Use(middleware.RequireRole("generator", "admin"))
	{
		sequences.POST("/:code/generate", h.Generate)
		sequences.GET("/:code/preview", h.Preview)
	}
}

func registerRuleRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := handlers.NewRulesHandler(cfg.RulesService)

	ruleGroup := rg.Group("/rules")
	ruleGroup.Use(middleware.RequireRole("admin"))
	{
		ruleGroup.POST("", h.Create)
		ruleGroup.GET("", h.List)
		ruleGroup.GET("/:code", h.Get)
		ruleGroup.PUT("/:code", h.Update)
		ruleGroup.DELETE("/:code", h.Delete)
		ruleGroup.POST("/:code/activate", h.Activate)
		ruleGroup.POST("/:code/deactivate", h.Deactivate)
		ruleGroup.PUT("/:code/sequence", h.SetSequence)
	}
}

func registerJournalRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Journal == nil {
		return
	}

	h := handlers.NewJournalHandler(cfg.Journal)

	journal := rg.Group("/journal")
	journal.Use(middleware.RequireRole("admin"))
	{
		journal.GET("", h.List)
	}
}
