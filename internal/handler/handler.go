package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/user-auth-service/internal/apperror"
	"github.com/duccv/user-auth-service/internal/constant"
	"github.com/duccv/user-auth-service/internal/model/response"
	"github.com/duccv/user-auth-service/pkg/logger"
	"github.com/duccv/user-auth-service/util"
)

// renderError writes err as an envelope with the status of its kind.
// System errors are logged with their cause and answered generically.
func renderError(c *gin.Context, err error) {
	appErr := apperror.As(err)
	log := logger.FromContext(c.Request.Context())

	if appErr.Kind == apperror.KindSystem {
		log.Error(appErr.Message,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr.Cause))
		c.AbortWithStatusJSON(http.StatusInternalServerError, constant.INTERNAL_SERVER_ERROR)
		return
	}

	log.Debug("Request failed", zap.Stringer("kind", appErr.Kind), zap.String("message", appErr.Message))
	c.AbortWithStatusJSON(appErr.Status(), response.Error(appErr.Message))
}

// renderCached writes a 200 envelope with an ETag, or 304 when the client
// already holds the same representation.
func renderCached(c *gin.Context, message string, data any) {
	body := response.Success(message, data)
	etag := util.GenerateETag(body)
	c.Header("ETag", etag)

	if util.ETagMatches(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, body)
}
