package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fixrx_backend/internal/middleware"
	"fixrx_backend/internal/services"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/internal/validator"
)

type MessageHandler struct {
	*BaseHandler
	messageService services.MessageService
}

func NewMessageHandler(v *validator.Validator, messageService services.MessageService) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    NewBaseHandler(v),
		messageService: messageService,
	}
}

func (h *MessageHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	messages := r.Group("/messages", authMW)
	{
		messages.POST("", h.SendMessage)
		messages.GET("/conversations", h.ListConversations)
		messages.GET("/conversations/:userId", h.GetConversation)
		messages.GET("/unread-count", h.GetUnreadCount)
		messages.DELETE("/:id", h.DeleteMessage)
	}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.messageService.SendMessage(h.GetDB(c), middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondCreated(c, resp)
}

// GetConversation returns the thread with another user. Fetching it
// marks the incoming messages as read.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.messageService.GetConversation(h.GetDB(c), middleware.GetUserID(c), c.Param("userId"), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

func (h *MessageHandler) ListConversations(c *gin.Context) {
	resp, err := h.messageService.ListConversations(h.GetDB(c), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.messageService.GetUnreadCount(h.GetDB(c), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, gin.H{"unread_count": count})
}

// DeleteMessage soft-deletes a message the caller sent.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	if err := h.messageService.DeleteMessage(h.GetDB(c), c.Param("id"), middleware.GetUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, gin.H{"deleted": true})
}
