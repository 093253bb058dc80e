package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// CartHandler handles the principal's cart.
type CartHandler struct {
	svc *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// List handles GET /cart-items
func (h *CartHandler) List(c *gin.Context) {
	params := listParams(c)
	page, err := h.svc.List(c.Request.Context(), middleware.GetPrincipal(c), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Cart items retrieved", page, params)
}

// Get handles GET /cart-items/:id
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	line, err := h.svc.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Cart item retrieved", line)
}

// Create handles POST /cart-items
func (h *CartHandler) Create(c *gin.Context) {
	var req service.CartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := h.svc.Create(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Cart item created", line)
}

// Update handles PUT /cart-items/:id. Only the amount is mutable.
func (h *CartHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := h.svc.UpdateAmount(c.Request.Context(), middleware.GetPrincipal(c), id, req.Amount)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Cart item updated", line)
}

// Delete handles DELETE /cart-items/:id
func (h *CartHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Cart item deleted", nil)
}
