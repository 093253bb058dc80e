package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// MessageHandler handles support messages and presigned uploads.
type MessageHandler struct {
	messages *service.MessageService
	uploads  *service.UploadService
}

// NewMessageHandler creates a new MessageHandler. uploads may be nil when
// object storage is not configured.
func NewMessageHandler(messages *service.MessageService, uploads *service.UploadService) *MessageHandler {
	return &MessageHandler{messages: messages, uploads: uploads}
}

func (h *MessageHandler) List(c *gin.Context) {
	params := listParams(c)
	page, err := h.messages.List(c.Request.Context(), middleware.GetPrincipal(c), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	respondPage(c, "Messages retrieved", page, params)
}

func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	msg, err := h.messages.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Message retrieved", msg)
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req service.MessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.messages.Create(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Message created", msg)
}

func (h *MessageHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.MessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.messages.Update(c.Request.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Message updated", msg)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.messages.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Message deleted", nil)
}

// Presign handles POST /uploads/presign
func (h *MessageHandler) Presign(c *gin.Context) {
	if h.uploads == nil {
		utils.Error(c, http.StatusServiceUnavailable, "UPLOADS_DISABLED", "Uploads are not configured")
		return
	}
	var req service.PresignRequest
	if !bindJSON(c, &req) {
		return
	}
	up, err := h.uploads.Presign(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Upload presigned", up)
}
