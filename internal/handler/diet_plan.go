package handler

import (
	"net/http"
	"time"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DietPlanHandler implements diet plan API endpoints
type DietPlanHandler struct {
	service *service.DietPlanService
	logger  *zap.Logger
}

// NewDietPlanHandler creates a new DietPlanHandler
func NewDietPlanHandler(service *service.DietPlanService, logger *zap.Logger) *DietPlanHandler {
	return &DietPlanHandler{
		service: service,
		logger:  logger,
	}
}

type createDietPlanRequest struct {
	UserID          string              `json:"user_id" binding:"required"`
	Title           string              `json:"title" binding:"required"`
	Description     *string             `json:"description"`
	CalorieTarget   float64             `json:"calorie_target"`
	ProteinTarget   float64             `json:"protein_target"`
	CarbsTarget     float64             `json:"carbs_target"`
	FatTarget       float64             `json:"fat_target"`
	Meals           model.DietPlanMeals `json:"meals"`
	Recommendations []string            `json:"recommendations"`
	Restrictions    []string            `json:"restrictions"`
	StartDate       *time.Time          `json:"start_date"`
	EndDate         *time.Time          `json:"end_date"`
}

// CreatePlan creates a diet plan for a subject user
func (h *DietPlanHandler) CreatePlan(c *gin.Context) {
	var req createDietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	input := service.CreateDietPlanInput{
		UserID:          req.UserID,
		Title:           req.Title,
		Description:     req.Description,
		CalorieTarget:   req.CalorieTarget,
		ProteinTarget:   req.ProteinTarget,
		CarbsTarget:     req.CarbsTarget,
		FatTarget:       req.FatTarget,
		Meals:           req.Meals,
		Recommendations: req.Recommendations,
		Restrictions:    req.Restrictions,
		EndDate:         req.EndDate,
	}
	if req.StartDate != nil {
		input.StartDate = *req.StartDate
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// ListPlans lists diet plans within the caller's scope
func (h *DietPlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context(), actorFrom(c), c.Query("user_id"), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// GetPlan returns one diet plan
func (h *DietPlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.service.GetPlan(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

type updateDietPlanRequest struct {
	Title           *string              `json:"title"`
	Description     *string              `json:"description"`
	CalorieTarget   *float64             `json:"calorie_target"`
	ProteinTarget   *float64             `json:"protein_target"`
	CarbsTarget     *float64             `json:"carbs_target"`
	FatTarget       *float64             `json:"fat_target"`
	Meals           *model.DietPlanMeals `json:"meals"`
	Recommendations []string             `json:"recommendations"`
	Restrictions    []string             `json:"restrictions"`
	EndDate         *time.Time           `json:"end_date"`
	IsActive        *bool                `json:"is_active"`
}

// UpdatePlan edits a diet plan
func (h *DietPlanHandler) UpdatePlan(c *gin.Context) {
	var req updateDietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	plan, err := h.service.UpdatePlan(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdateDietPlanInput{
		Title:           req.Title,
		Description:     req.Description,
		CalorieTarget:   req.CalorieTarget,
		ProteinTarget:   req.ProteinTarget,
		CarbsTarget:     req.CarbsTarget,
		FatTarget:       req.FatTarget,
		Meals:           req.Meals,
		Recommendations: req.Recommendations,
		Restrictions:    req.Restrictions,
		EndDate:         req.EndDate,
		IsActive:        req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a diet plan
func (h *DietPlanHandler) DeletePlan(c *gin.Context) {
	if err := h.service.DeletePlan(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Diet plan deleted"})
}
