package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/liaison-server/internal/config"
	"github.com/vovakirdan/liaison-server/internal/service/notebook"
)

// NewServer builds the HTTP server with the notebook routes.
func NewServer(svc *notebook.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(svc, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter registers routes and middleware on a gin engine.
func NewRouter(svc *notebook.Service, cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	router := gin.New()
	// Forwarded headers are only honored from configured proxies.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Warn().Err(err).Strs("trusted_proxies", cfg.TrustedProxies).Msg("ignoring invalid trusted proxies")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(RequestIDMiddleware(), LoggerMiddleware(logger), gin.Recovery(), CORSMiddleware(cfg.CORSAllowedOrigins))

	var metrics *Metrics
	if cfg.MetricsEnabled {
		metrics = NewMetrics()
		router.Use(metrics.Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	}

	router.GET("/monitor", monitorHandler)

	handlers := NewMessageHandlers(svc, metrics, logger)
	limiter := newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	api := router.Group("/api", RateLimitMiddleware(limiter), ClaimMiddleware(logger))
	{
		api.GET("/messages", handlers.ListMessages)
		api.GET("/messages/:id", handlers.GetMessage)
		api.POST("/messages", handlers.CreateMessage)
		api.PUT("/messages/:id", handlers.ReplaceMessage)
		api.POST("/messages/:id/acknowledge", handlers.AcknowledgeMessage)
	}

	return router
}

// monitorHandler is the liveness probe.
func monitorHandler(c *gin.Context) {
	c.Data(stdhttp.StatusOK, "text/html", []byte("UP"))
}
