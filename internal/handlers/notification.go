package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/middleware"
	"github.com/bytehub/bytehub/internal/services"
	"github.com/bytehub/bytehub/pkg/response"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		notificationService: services.NewNotificationService(db),
	}
}

// List returns one page of the current user's notifications
// GET /api/notifications?page=1&page_size=20
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req struct {
		Page     int `form:"page" binding:"min=0"`
		PageSize int `form:"page_size" binding:"min=0,max=100"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	notifications, total, err := h.notificationService.GetAll(userID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	unread, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"notifications": notifications,
		"total":         total,
		"unread_count":  unread,
	})
}

// Unread returns the current user's unread notifications
// GET /api/notifications/unread
func (h *NotificationHandler) Unread(c *gin.Context) {
	notifications, err := h.notificationService.GetUnread(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, notifications)
}

// UnreadCount returns how many notifications are unread
// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"count": count})
}

// MarkAsRead stamps one notification as read
// POST /api/notifications/mark-read/:id
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "invalid id")
		return
	}

	notification, err := h.notificationService.MarkAsRead(middleware.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, notification)
}

// MarkAllAsRead stamps every unread notification as read
// POST /api/notifications/mark-all-read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.notificationService.MarkAllAsRead(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"updated": updated})
}

// Delete removes one notification
// DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "invalid id")
		return
	}

	if err := h.notificationService.Delete(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "notification deleted"})
}

// DeleteAll removes every notification of the current user
// DELETE /api/notifications
func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	deleted, err := h.notificationService.DeleteAll(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}
