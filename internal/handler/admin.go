package handler

import (
	"net/http"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler implements user directory and admin API endpoints
type AdminHandler struct {
	service *service.AdminService
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service *service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

// ListUsers returns the user directory, optionally filtered by role
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var role *model.Role
	if v := c.Query("role"); v != "" {
		r := model.Role(v)
		role = &r
	}

	users, err := h.service.ListUsers(c.Request.Context(), actorFrom(c), role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser returns one account from the directory
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListExperts returns every professional account
func (h *AdminHandler) ListExperts(c *gin.Context) {
	experts, err := h.service.ListExperts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, experts)
}

type createUserRequest struct {
	Name  string     `json:"name" binding:"required"`
	Email string     `json:"email" binding:"required,email"`
	Role  model.Role `json:"role" binding:"required"`
}

// CreateUser creates an account with any role
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), actorFrom(c), service.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type setStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetUserStatus activates or deactivates an account
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	if err := h.service.SetUserStatus(c.Request.Context(), actorFrom(c), c.Param("id"), *req.IsActive); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User status updated"})
}

// DeleteUser removes an account
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// GetSystemStats returns the aggregate counters for the admin dashboard
func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.service.GetSystemStats(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
