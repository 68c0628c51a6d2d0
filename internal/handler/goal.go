package handler

import (
	"net/http"
	"time"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GoalHandler implements goal API endpoints
type GoalHandler struct {
	service *service.GoalService
	logger  *zap.Logger
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(service *service.GoalService, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{
		service: service,
		logger:  logger,
	}
}

// goalResponse is a goal plus its derived read-time fields
type goalResponse struct {
	model.Goal
	service.GoalDerived
}

func toGoalResponse(goal model.Goal, now time.Time) goalResponse {
	return goalResponse{
		Goal:        goal,
		GoalDerived: service.ComputeDerived(goal, now),
	}
}

type createGoalRequest struct {
	GoalType     model.GoalType     `json:"goal_type" binding:"required"`
	TargetValue  float64            `json:"target_value" binding:"required"`
	CurrentValue float64            `json:"current_value"`
	Period       model.GoalPeriod   `json:"period"`
	Priority     model.GoalPriority `json:"priority"`
	Deadline     *time.Time         `json:"deadline"`
	Description  *string            `json:"description"`
	Unit         *string            `json:"unit"`
}

// CreateGoal creates a goal for the authenticated user
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	actor := actorFrom(c)
	goal, err := h.service.CreateGoal(c.Request.Context(), actor.ID, service.CreateGoalInput{
		GoalType:     req.GoalType,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Period:       req.Period,
		Priority:     req.Priority,
		Deadline:     req.Deadline,
		Description:  req.Description,
		Unit:         req.Unit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toGoalResponse(*goal, time.Now()))
}

// ListGoals lists the authenticated user's active goals
func (h *GoalHandler) ListGoals(c *gin.Context) {
	actor := actorFrom(c)

	goals, err := h.service.ActiveGoals(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	response := make([]goalResponse, 0, len(goals))
	for _, goal := range goals {
		response = append(response, toGoalResponse(goal, now))
	}

	c.JSON(http.StatusOK, response)
}

// ListAchievedGoals lists the authenticated user's achieved goals
func (h *GoalHandler) ListAchievedGoals(c *gin.Context) {
	actor := actorFrom(c)

	goals, err := h.service.AchievedGoals(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	response := make([]goalResponse, 0, len(goals))
	for _, goal := range goals {
		response = append(response, toGoalResponse(goal, now))
	}

	c.JSON(http.StatusOK, response)
}

type updateGoalRequest struct {
	TargetValue *float64            `json:"target_value"`
	Period      *model.GoalPeriod   `json:"period"`
	Priority    *model.GoalPriority `json:"priority"`
	Deadline    *time.Time          `json:"deadline"`
	Description *string             `json:"description"`
	Unit        *string             `json:"unit"`
}

// UpdateGoal edits a goal's target and metadata
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	goal, err := h.service.UpdateGoal(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdateGoalInput{
		TargetValue: req.TargetValue,
		Period:      req.Period,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		Description: req.Description,
		Unit:        req.Unit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toGoalResponse(*goal, time.Now()))
}

type progressRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

// UpdateProgress sets a goal's stored progress value
func (h *GoalHandler) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	goal, err := h.service.UpdateProgress(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toGoalResponse(*goal, time.Now()))
}

type incrementRequest struct {
	Delta *float64 `json:"delta" binding:"required"`
}

// IncrementProgress adds a delta to a goal's stored progress value
func (h *GoalHandler) IncrementProgress(c *gin.Context) {
	var req incrementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	goal, err := h.service.IncrementProgress(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toGoalResponse(*goal, time.Now()))
}

// DeleteGoal retires a goal
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	if err := h.service.RetireGoal(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}
