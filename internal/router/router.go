package router

import (
	"github.com/gin-gonic/gin"

	"github.com/duccv/user-auth-service/internal/handler"
	"github.com/duccv/user-auth-service/internal/middleware"
	"github.com/duccv/user-auth-service/internal/model"
	"github.com/duccv/user-auth-service/internal/validation"
	"github.com/duccv/user-auth-service/pkg/token"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	Users *handler.UserHandler
}

// Register mounts the API under /api. Everything below /api/users requires
// a bearer token.
func Register(r gin.IRouter, h Handlers, tokens token.Validator, authOpts ...middleware.AuthOption) {
	api := r.Group("/api")

	api.POST("/register", validation.ValidateBody(validation.RegisterSchema), h.Auth.Register)
	api.POST("/login", validation.ValidateBody(validation.LoginSchema), h.Auth.Login)

	users := api.Group("/users", middleware.AuthGate(tokens, authOpts...))
	{
		byID := validation.ValidateParams[model.UserIDParam]()

		users.GET("", h.Users.List)
		users.POST("", validation.ValidateBody(validation.UserStoreSchema), h.Users.Create)
		users.GET("/:id", byID, h.Users.Get)
		users.PUT("/:id", byID, validation.ValidateBody(validation.UserUpdateSchema), h.Users.Update)
		users.DELETE("/:id", byID, h.Users.Delete)
	}
}
