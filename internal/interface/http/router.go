package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/shopbot/internal/domain/auth"
	"github.com/yanqian/shopbot/internal/infra/config"
	"github.com/yanqian/shopbot/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, admin *AdminHandler, authSvc auth.Service, m *metrics.Metrics) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger, m),
		corsMiddleware(cfg.HTTP.CORSOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.POST("/webhook", handler.Webhook)
		api.POST("/replies", handler.Reply)
		api.POST("/lex", handler.Lex)
	}

	adminGroup := api.Group("/admin", authMiddleware(authSvc))
	{
		adminGroup.GET("/faq/cache", admin.CacheStatus)
		adminGroup.POST("/faq/cache/warm", admin.WarmCache)
		adminGroup.GET("/faq/entries", admin.Entries)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
