package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duccv/user-auth-service/internal/model"
	"github.com/duccv/user-auth-service/internal/model/response"
	"github.com/duccv/user-auth-service/internal/service"
	"github.com/duccv/user-auth-service/internal/validation"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
//
//	@Summary		Register
//	@Description	Creates an account
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		model.RegisterRequest	true	"Account"
//	@Success		201		{object}	response.ApiResponse{data=model.User}
//	@Failure		400		{object}	response.ApiResponse
//	@Failure		409		{object}	response.ApiResponse
//	@Failure		422		{object}	response.ApiResponse
//	@Router			/api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	req := validation.Body[model.RegisterRequest](c)

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("user registered", user))
}

// Login godoc
//
//	@Summary		Login
//	@Description	Exchanges credentials for a bearer token valid for 24 hours
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		model.LoginRequest	true	"Credentials"
//	@Success		200		{object}	response.ApiResponse{data=model.LoginResponse}
//	@Failure		401		{object}	response.ApiResponse
//	@Failure		422		{object}	response.ApiResponse
//	@Router			/api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req := validation.Body[model.LoginRequest](c)

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("login successful", res))
}
