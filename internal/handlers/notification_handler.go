package handlers

import (
	"github.com/gin-gonic/gin"

	"fixrx_backend/internal/middleware"
	"fixrx_backend/internal/services"
	"fixrx_backend/internal/validator"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(v *validator.Validator, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(v),
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	notifications := r.Group("/notifications", authMW)
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.PUT("/:id/read", h.MarkAsRead)
		notifications.PUT("/read-all", h.MarkAllAsRead)
	}
}

// ListNotifications returns the caller's notifications, optionally
// only the unread ones (?unread_only=true).
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	unreadOnly := c.Query("unread_only") == "true"

	resp, err := h.notificationService.GetUserNotifications(h.GetDB(c), middleware.GetUserID(c), unreadOnly, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.notificationService.GetUnreadCount(h.GetDB(c), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAsRead(h.GetDB(c), middleware.GetUserID(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, gin.H{"read": true})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.notificationService.MarkAllAsRead(h.GetDB(c), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, gin.H{"marked": updated})
}
