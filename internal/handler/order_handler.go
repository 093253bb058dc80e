package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// OrderHandler handles checkout, orders and order items.
type OrderHandler struct {
	svc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Place handles POST /orders/create
func (h *OrderHandler) Place(c *gin.Context) {
	var req service.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Place(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Order created", order)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	params := listParams(c)
	page, err := h.svc.List(c.Request.Context(), middleware.GetPrincipal(c), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Orders retrieved", page, params)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.svc.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order retrieved", order)
}

// Update handles PUT /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.UpdateRecipient(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order updated", order)
}

// UpdateStatus handles PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.UpdateStatus(c.Request.Context(), middleware.GetPrincipal(c), id, req.Status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order status updated", order)
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order deleted", nil)
}

// ListItems handles GET /order-items?order=
func (h *OrderHandler) ListItems(c *gin.Context) {
	orderID, ok := queryID(c, "order")
	if !ok {
		return
	}
	params := listParams(c)
	page, err := h.svc.ListItems(c.Request.Context(), middleware.GetPrincipal(c), orderID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Order items retrieved", page, params)
}

// GetItem handles GET /order-items/:id
func (h *OrderHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.svc.GetItem(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order item retrieved", item)
}
