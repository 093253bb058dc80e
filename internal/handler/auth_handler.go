package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// AuthHandler serves registration, token issuing and the account endpoints.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Register handles POST /users/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "User registered", user)
}

// Login handles POST /token/
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Login successful", pair)
}

// Refresh handles POST /token/refresh/
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Token refreshed", pair)
}

// Me handles GET /users/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "User retrieved", user)
}

// UpdateMe handles PATCH /users/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req service.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateMe(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "User updated", user)
}

// DeleteMe handles DELETE /users/me
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	if err := h.userService.DeleteMe(c.Request.Context(), middleware.GetPrincipal(c)); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "User deleted", nil)
}

// ListUsers handles GET /users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	params := listParams(c)
	page, err := h.userService.List(c.Request.Context(), middleware.GetPrincipal(c), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Users retrieved", page, params)
}
