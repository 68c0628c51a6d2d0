package handler

import (
	"net/http"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler implements notification API endpoints
type NotificationHandler struct {
	service *service.NotificationService
	logger  *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
	}
}

// ListNotifications lists the authenticated user's notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	notifications, err := h.service.ListNotifications(c.Request.Context(), actorFrom(c).ID, c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), actorFrom(c).ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead marks every unread notification as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), actorFrom(c).ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
