package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// ProductHandler handles product endpoints.
type ProductHandler struct {
	svc *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List handles GET /products
// Query: brand, category, gallery, search, ordering, page, limit
func (h *ProductHandler) List(c *gin.Context) {
	q := repository.ProductQuery{ListParams: listParams(c), Ordering: c.Query("ordering")}
	var ok bool
	if q.BrandID, ok = queryID(c, "brand"); !ok {
		return
	}
	if q.CategoryID, ok = queryID(c, "category"); !ok {
		return
	}
	if q.GalleryID, ok = queryID(c, "gallery"); !ok {
		return
	}

	page, err := h.svc.List(c.Request.Context(), middleware.GetPrincipal(c), q)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Products retrieved", page, q.ListParams)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.svc.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product retrieved", view)
}

// Filter handles POST /products/filter/
func (h *ProductHandler) Filter(c *gin.Context) {
	params := map[string]interface{}{}
	if c.Request.ContentLength != 0 && !bindJSON(c, &params) {
		return
	}
	views, err := h.svc.Filter(c.Request.Context(), middleware.GetPrincipal(c), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Products retrieved", views)
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.svc.Create(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Product created", view)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.svc.Update(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product updated", view)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product deleted", nil)
}

// SetDiscount handles PUT /products/:id/discount
func (h *ProductHandler) SetDiscount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.DiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.svc.SetDiscount(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Discount updated", view)
}
