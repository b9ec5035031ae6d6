package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/user-auth-service/pkg/logger"
)

// LoggingMiddleware provides request logging functionality
type LoggingMiddleware struct {
	config *MiddlewareConfig
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(config *MiddlewareConfig) *LoggingMiddleware {
	if config == nil {
		config = DefaultMiddlewareConfig()
	}
	return &LoggingMiddleware{
		config: config,
	}
}

// RequestLogger logs one line per completed request. It must run after
// CorrelationIDMiddleware so the line carries the correlation id.
func (l *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.config.LoggingEnabled {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log := l.requestLogger(c)
		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
		}
		if l.config.LogResponseTime {
			fields = append(fields, zap.Duration("duration", duration))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("Request completed", fields...)
		default:
			log.Info("Request completed", fields...)
		}

		if l.config.SlowRequest > 0 && duration > l.config.SlowRequest {
			log.Warn("Slow request detected", zap.Duration("duration", duration))
		}
	}
}

// requestLogger scopes the context logger to the request
func (l *LoggingMiddleware) requestLogger(c *gin.Context) *zap.Logger {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}

	if l.config.LogIPAddress {
		fields = append(fields, zap.String("ip", getClientIP(c)))
	}

	if l.config.LogUserAgent {
		fields = append(fields, zap.String("userAgent", c.GetHeader("User-Agent")))
	}

	if claims, ok := GetClaims(c); ok {
		fields = append(fields, zap.Int64("userId", claims.SubjectID))
	}

	return logger.FromContext(c.Request.Context()).With(fields...)
}

// SecurityLogger records every request that ended with 401.
func (l *LoggingMiddleware) SecurityLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() == http.StatusUnauthorized {
			logger.FromContext(c.Request.Context()).Warn("Authentication failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", getClientIP(c)),
				zap.String("userAgent", c.GetHeader("User-Agent")))
		}
	}
}
