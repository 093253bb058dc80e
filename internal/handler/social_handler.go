package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// SocialHandler serves the liked list and the comparison list.
type SocialHandler struct {
	svc *service.SocialService
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(svc *service.SocialService) *SocialHandler {
	return &SocialHandler{svc: svc}
}

func addStatus(outcome service.AddOutcome) (int, string) {
	if outcome == service.Created {
		return http.StatusCreated, "Item added"
	}
	return http.StatusOK, "Item already exists"
}

// AddLiked handles POST /liked-items/add/
func (h *SocialHandler) AddLiked(c *gin.Context) {
	var req service.AddRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.AddLiked(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	code, msg := addStatus(res.Outcome)
	utils.Success(c, code, msg, res.Record)
}

// ListLiked handles GET /liked-items
func (h *SocialHandler) ListLiked(c *gin.Context) {
	params := listParams(c)
	page, err := h.svc.ListLiked(c.Request.Context(), middleware.GetPrincipal(c), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Liked items retrieved", page, params)
}

// GetLiked handles GET /liked-items/:id
func (h *SocialHandler) GetLiked(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.svc.GetLiked(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Liked item retrieved", item)
}

// DeleteLiked handles DELETE /liked-items/:id
func (h *SocialHandler) DeleteLiked(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteLiked(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Liked item deleted", nil)
}

// AddVersus handles POST /versus-items/add/
func (h *SocialHandler) AddVersus(c *gin.Context) {
	var req service.AddRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.AddVersus(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	code, msg := addStatus(res.Outcome)
	utils.Success(c, code, msg, res.Record)
}

// ListVersus handles GET /versus-items. Items come grouped by category name.
func (h *SocialHandler) ListVersus(c *gin.Context) {
	groups, err := h.svc.ListVersus(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Versus items retrieved", groups)
}

// GetVersus handles GET /versus-items/:id
func (h *SocialHandler) GetVersus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.svc.GetVersus(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Versus item retrieved", item)
}

// DeleteVersus handles DELETE /versus-items/:id
func (h *SocialHandler) DeleteVersus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteVersus(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Versus item deleted", nil)
}
