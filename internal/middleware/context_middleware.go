package middleware

import (
	"time"

	"go-vacation/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger menempelkan logger per-request ke context dan mencatat hasil request.
// Dipasang setelah RequestID dan AuthMiddleware.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	base := logger.Named("http")
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		reqLogger := base.With(contextutil.ExtractMetadata(ctx).Fields()...)
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case c.Writer.Status() >= 500:
			reqLogger.Error("request failed", fields...)
		case c.Writer.Status() >= 400:
			reqLogger.Warn("request rejected", fields...)
		default:
			reqLogger.Debug("request handled", fields...)
		}
	}
}
