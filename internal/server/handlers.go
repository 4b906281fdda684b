package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"db-fill/internal/provision"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// POST /generate
func GenerateHandler(p Provisioner, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := provision.NewRequest()
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid request body: " + err.Error()})
			return
		}

		res, err := p.Provision(c.Request.Context(), req)
		if err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				logger.Error("Provisioning failed", zap.String("table", req.TableName), zap.Error(err))
			}
			c.JSON(status, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// A schema conflict is reported as a server error, matching how the
// service has always answered it.
func statusFor(err error) int {
	var conflict *provision.SchemaConflictError
	switch {
	case provision.IsInvalid(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflict):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GET /healthz
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// GET /readyz
func ReadyHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
