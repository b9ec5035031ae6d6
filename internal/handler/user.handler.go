package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duccv/user-auth-service/internal/model"
	"github.com/duccv/user-auth-service/internal/model/response"
	"github.com/duccv/user-auth-service/internal/service"
	"github.com/duccv/user-auth-service/internal/validation"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List godoc
//
//	@Summary		List users
//	@Description	Newest first
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.ApiResponse{data=[]model.User}
//	@Success		304
//	@Failure		401	{object}	response.ApiResponse
//	@Router			/api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	renderCached(c, "users retrieved", users)
}

// Create godoc
//
//	@Summary		Create user
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		model.UserStoreRequest	true	"User"
//	@Success		201		{object}	response.ApiResponse{data=model.User}
//	@Failure		401		{object}	response.ApiResponse
//	@Failure		409		{object}	response.ApiResponse
//	@Failure		422		{object}	response.ApiResponse
//	@Router			/api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	req := validation.Body[model.UserStoreRequest](c)

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("user created", user))
}

// Get godoc
//
//	@Summary		Get user
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"User ID"
//	@Success		200	{object}	response.ApiResponse{data=model.User}
//	@Success		304
//	@Failure		400	{object}	response.ApiResponse
//	@Failure		401	{object}	response.ApiResponse
//	@Failure		404	{object}	response.ApiResponse
//	@Router			/api/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	params := validation.Params[model.UserIDParam](c)

	user, err := h.users.Get(c.Request.Context(), params.ID)
	if err != nil {
		renderError(c, err)
		return
	}
	renderCached(c, "user retrieved", user)
}

// Update godoc
//
//	@Summary		Update user
//	@Description	The password is left unchanged when omitted or empty
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int						true	"User ID"
//	@Param			body	body		model.UserUpdateRequest	true	"User"
//	@Success		200		{object}	response.ApiResponse{data=model.User}
//	@Failure		400		{object}	response.ApiResponse
//	@Failure		401		{object}	response.ApiResponse
//	@Failure		404		{object}	response.ApiResponse
//	@Failure		409		{object}	response.ApiResponse
//	@Failure		422		{object}	response.ApiResponse
//	@Router			/api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	params := validation.Params[model.UserIDParam](c)
	req := validation.Body[model.UserUpdateRequest](c)

	user, err := h.users.Update(c.Request.Context(), params.ID, req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("user updated", user))
}

// Delete godoc
//
//	@Summary		Delete user
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"User ID"
//	@Success		200	{object}	response.ApiResponse
//	@Failure		400	{object}	response.ApiResponse
//	@Failure		401	{object}	response.ApiResponse
//	@Failure		404	{object}	response.ApiResponse
//	@Router			/api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	params := validation.Params[model.UserIDParam](c)

	if err := h.users.Delete(c.Request.Context(), params.ID); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("user deleted", response.Null))
}
