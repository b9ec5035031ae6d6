package constant

// Constant package provides constants used throughout the application.

type ctxKey string

const (
	CorrelationIDKey ctxKey = "CorrelationID"
	ClaimsCtxKey     ctxKey = "Claims"
)

// gin.Context keys
const (
	ClaimsKey          = "claims"
	ValidatedBodyKey   = "validatedBody"
	ValidatedParamsKey = "validatedParams"
)

const (
	BearerPrefix      = "Bearer "
	CorrelationHeader = "X-Correlation-ID"
)
