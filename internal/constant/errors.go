package constant

import (
	"github.com/duccv/user-auth-service/internal/model/response"
)

const (
	MsgValidationFailed = "validation failed"
	MsgTokenNotFound    = "token not found"
	MsgInvalidToken     = "invalid token"
)

var INVALID_REQUEST = response.Error("invalid request payload")

var INTERNAL_SERVER_ERROR = response.Error("internal server error")
