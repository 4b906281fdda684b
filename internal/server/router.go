package server

import (
	"context"
	"time"

	"db-fill/internal/provision"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Provisioner runs one provisioning request.
type Provisioner interface {
	Provision(ctx context.Context, req provision.Request) (provision.Result, error)
}

// Pinger reports database reachability (*sql.DB satisfies it).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter wires the HTTP surface. registry may be nil to omit /metrics.
func NewRouter(p Provisioner, db Pinger, registry *prometheus.Registry, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.POST("/generate", GenerateHandler(p, logger))
	r.GET("/healthz", HealthHandler())
	r.GET("/readyz", ReadyHandler(db))
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
