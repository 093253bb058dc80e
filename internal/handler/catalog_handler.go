package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// CatalogHandler handles CRUD for brands, categories and galleries.
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// --- Brands ---

func (h *CatalogHandler) ListBrands(c *gin.Context) {
	params := listParams(c)
	page, err := h.svc.ListBrands(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Brands retrieved", page, params)
}

func (h *CatalogHandler) GetBrand(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.svc.GetBrand(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Brand retrieved", b)
}

func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req service.BrandRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.svc.CreateBrand(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Brand created", b)
}

func (h *CatalogHandler) UpdateBrand(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.BrandRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.svc.UpdateBrand(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Brand updated", b)
}

func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteBrand(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Brand deleted", nil)
}

// --- Categories ---

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	params := listParams(c)
	page, err := h.svc.ListCategories(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Categories retrieved", page, params)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Category retrieved", cat)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Category created", cat)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Category updated", cat)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Category deleted", nil)
}

// --- Galleries ---

func (h *CatalogHandler) ListGalleries(c *gin.Context) {
	params := listParams(c)
	page, err := h.svc.ListGalleries(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Galleries retrieved", page, params)
}

func (h *CatalogHandler) GetGallery(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	g, err := h.svc.GetGallery(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Gallery retrieved", g)
}

func (h *CatalogHandler) CreateGallery(c *gin.Context) {
	var req service.GalleryRequest
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.svc.CreateGallery(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Gallery created", g)
}

func (h *CatalogHandler) UpdateGallery(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.GalleryRequest
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.svc.UpdateGallery(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Gallery updated", g)
}

func (h *CatalogHandler) DeleteGallery(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteGallery(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Gallery deleted", nil)
}
