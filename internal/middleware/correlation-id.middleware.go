package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duccv/user-auth-service/internal/constant"
	"github.com/duccv/user-auth-service/pkg/logger"
)

// CorrelationIDMiddleware reuses the caller's X-Correlation-ID or mints one,
// echoes it back and scopes the request logger to it.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(constant.CorrelationHeader)
		if cid == "" {
			cid = uuid.New().String()
		}
		ctx := context.WithValue(c.Request.Context(), constant.CorrelationIDKey, cid)
		ctx = logger.WithContext(ctx, logger.WithCorrelationID(zap.L(), cid))
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(constant.CorrelationHeader, cid)
		c.Next()
	}
}

func CorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(constant.CorrelationIDKey).(string)
	return cid
}
