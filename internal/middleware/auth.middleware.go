package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/user-auth-service/internal/apperror"
	"github.com/duccv/user-auth-service/internal/constant"
	"github.com/duccv/user-auth-service/internal/model/response"
	"github.com/duccv/user-auth-service/pkg/logger"
	"github.com/duccv/user-auth-service/pkg/token"
)

// Reject reasons passed to a reject hook.
const (
	ReasonMissingToken     = "missing_token"
	ReasonMalformed        = "malformed"
	ReasonSignatureInvalid = "signature_invalid"
	ReasonExpired          = "expired"
)

// rejection is the terminal outcome of a stage.
type rejection struct {
	err    *apperror.Error
	reason string
}

// authState flows through the stages of the gate.
type authState struct {
	raw    string
	claims token.Claims
}

type stage func(c *gin.Context, st *authState) *rejection

type authGate struct {
	validator token.Validator
	onReject  func(reason string)
}

type AuthOption func(*authGate)

// WithRejectHook is called with the reason of every rejected request.
func WithRejectHook(fn func(reason string)) AuthOption {
	return func(g *authGate) {
		g.onReject = fn
	}
}

// AuthGate admits a request only when it carries a valid bearer token.
// Admitted requests expose their claims through GetClaims and ClaimsFromContext.
func AuthGate(validator token.Validator, opts ...AuthOption) gin.HandlerFunc {
	g := &authGate{validator: validator}
	for _, opt := range opts {
		opt(g)
	}
	stages := []stage{bearerStage, g.verifyStage}

	return func(c *gin.Context) {
		var st authState
		for _, run := range stages {
			if rej := run(c, &st); rej != nil {
				if g.onReject != nil {
					g.onReject(rej.reason)
				}
				c.AbortWithStatusJSON(rej.err.Status(), response.Error(rej.err.Message))
				return
			}
		}

		c.Set(constant.ClaimsKey, st.claims)
		ctx := context.WithValue(c.Request.Context(), constant.ClaimsCtxKey, st.claims)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerStage(c *gin.Context, st *authState) *rejection {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, constant.BearerPrefix)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		logger.FromContext(c.Request.Context()).Debug("Bearer token not found",
			zap.String("path", c.Request.URL.Path))
		return &rejection{apperror.Auth(constant.MsgTokenNotFound), ReasonMissingToken}
	}
	st.raw = raw
	return nil
}

func (g *authGate) verifyStage(c *gin.Context, st *authState) *rejection {
	claims, err := g.validator.Validate(st.raw)
	if err != nil {
		reason := rejectReason(err)
		logger.FromContext(c.Request.Context()).Warn("Token rejected",
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", getClientIP(c)),
			zap.Error(err))
		return &rejection{apperror.Auth(constant.MsgInvalidToken), reason}
	}
	st.claims = claims
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return ReasonExpired
	case errors.Is(err, token.ErrSignatureInvalid):
		return ReasonSignatureInvalid
	default:
		return ReasonMalformed
	}
}

// GetClaims returns the claims the gate attached to c.
func GetClaims(c *gin.Context) (token.Claims, bool) {
	v, ok := c.Get(constant.ClaimsKey)
	if !ok {
		return token.Claims{}, false
	}
	claims, ok := v.(token.Claims)
	return claims, ok
}

// ClaimsFromContext returns the claims the gate attached to the request context.
func ClaimsFromContext(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(constant.ClaimsCtxKey).(token.Claims)
	return claims, ok
}
