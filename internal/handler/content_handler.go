package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// ContentHandler serves product images, property types and properties.
type ContentHandler struct {
	images     *service.ImageService
	properties *service.PropertyService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(images *service.ImageService, properties *service.PropertyService) *ContentHandler {
	return &ContentHandler{images: images, properties: properties}
}

// ListImages handles GET /images?product=
func (h *ContentHandler) ListImages(c *gin.Context) {
	productID, ok := queryID(c, "product")
	if !ok {
		return
	}
	params := listParams(c)
	page, err := h.images.List(c.Request.Context(), middleware.GetPrincipal(c), productID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Images retrieved", page, params)
}

func (h *ContentHandler) GetImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	img, err := h.images.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Image retrieved", img)
}

func (h *ContentHandler) CreateImage(c *gin.Context) {
	var req service.ImageRequest
	if !bindJSON(c, &req) {
		return
	}
	img, err := h.images.Create(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Image created", img)
}

func (h *ContentHandler) UpdateImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ImageRequest
	if !bindJSON(c, &req) {
		return
	}
	img, err := h.images.Update(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Image updated", img)
}

func (h *ContentHandler) DeleteImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.images.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Image deleted", nil)
}

// ListPropertyTypes handles GET /property-types?product=
func (h *ContentHandler) ListPropertyTypes(c *gin.Context) {
	productID, ok := queryID(c, "product")
	if !ok {
		return
	}
	params := listParams(c)
	page, err := h.properties.ListTypes(c.Request.Context(), middleware.GetPrincipal(c), productID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Property types retrieved", page, params)
}

func (h *ContentHandler) GetPropertyType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pt, err := h.properties.GetType(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Property type retrieved", pt)
}

func (h *ContentHandler) CreatePropertyType(c *gin.Context) {
	var req service.PropertyTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	pt, err := h.properties.CreateType(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Property type created", pt)
}

func (h *ContentHandler) UpdatePropertyType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.PropertyTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	pt, err := h.properties.UpdateType(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Property type updated", pt)
}

func (h *ContentHandler) DeletePropertyType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.properties.DeleteType(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Property type deleted", nil)
}

// ListProperties handles GET /properties?product=
func (h *ContentHandler) ListProperties(c *gin.Context) {
	productID, ok := queryID(c, "product")
	if !ok {
		return
	}
	params := listParams(c)
	page, err := h.properties.ListProperties(c.Request.Context(), middleware.GetPrincipal(c), productID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Properties retrieved", page, params)
}

func (h *ContentHandler) GetProperty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	prop, err := h.properties.GetProperty(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Property retrieved", prop)
}

func (h *ContentHandler) CreateProperty(c *gin.Context) {
	var req service.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	prop, err := h.properties.CreateProperty(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Property created", prop)
}

func (h *ContentHandler) UpdateProperty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	prop, err := h.properties.UpdateProperty(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Property updated", prop)
}

func (h *ContentHandler) DeleteProperty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.properties.DeleteProperty(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Property deleted", nil)
}
