package handler

import (
	"net/http"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorkoutPlanHandler implements workout plan API endpoints
type WorkoutPlanHandler struct {
	service *service.WorkoutPlanService
	logger  *zap.Logger
}

// NewWorkoutPlanHandler creates a new WorkoutPlanHandler
func NewWorkoutPlanHandler(service *service.WorkoutPlanService, logger *zap.Logger) *WorkoutPlanHandler {
	return &WorkoutPlanHandler{
		service: service,
		logger:  logger,
	}
}

type createWorkoutPlanRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description *string          `json:"description"`
	Exercises   []model.Exercise `json:"exercises"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Duration    *float64         `json:"duration"`
}

// CreatePlan creates a workout plan authored by the acting trainer
func (h *WorkoutPlanHandler) CreatePlan(c *gin.Context) {
	var req createWorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), actorFrom(c), service.CreateWorkoutPlanInput{
		Title:       req.Title,
		Description: req.Description,
		Exercises:   req.Exercises,
		Difficulty:  req.Difficulty,
		Duration:    req.Duration,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// ListPlans lists workout plans within the caller's scope
func (h *WorkoutPlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// GetPlan returns one workout plan
func (h *WorkoutPlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.service.GetPlan(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

type updateWorkoutPlanRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Exercises   []model.Exercise  `json:"exercises"`
	Difficulty  *model.Difficulty `json:"difficulty"`
	Duration    *float64          `json:"duration"`
	IsActive    *bool             `json:"is_active"`
}

// UpdatePlan edits a workout plan
func (h *WorkoutPlanHandler) UpdatePlan(c *gin.Context) {
	var req updateWorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	plan, err := h.service.UpdatePlan(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdateWorkoutPlanInput{
		Title:       req.Title,
		Description: req.Description,
		Exercises:   req.Exercises,
		Difficulty:  req.Difficulty,
		Duration:    req.Duration,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

type assignUsersRequest struct {
	UserIDs []string `json:"user_ids" binding:"required"`
}

// AssignUsers assigns users to a workout plan
func (h *WorkoutPlanHandler) AssignUsers(c *gin.Context) {
	var req assignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	plan, err := h.service.AssignUsers(c.Request.Context(), actorFrom(c), c.Param("id"), req.UserIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// UnassignUser removes a user from a workout plan
func (h *WorkoutPlanHandler) UnassignUser(c *gin.Context) {
	plan, err := h.service.UnassignUser(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a workout plan
func (h *WorkoutPlanHandler) DeletePlan(c *gin.Context) {
	if err := h.service.DeletePlan(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workout plan deleted"})
}

// TeamActivities summarizes the recent activity of every assigned user
func (h *WorkoutPlanHandler) TeamActivities(c *gin.Context) {
	summaries, err := h.service.TeamActivities(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// UserActivitySummary summarizes one user's recent activity for a
// professional viewer
func (h *WorkoutPlanHandler) UserActivitySummary(c *gin.Context) {
	summary, err := h.service.UserActivitySummary(c.Request.Context(), actorFrom(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
