package handler

import (
	"net/http"
	"time"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MealHandler implements meal API endpoints
type MealHandler struct {
	service *service.MealService
	logger  *zap.Logger
}

// NewMealHandler creates a new MealHandler
func NewMealHandler(service *service.MealService, logger *zap.Logger) *MealHandler {
	return &MealHandler{
		service: service,
		logger:  logger,
	}
}

type createMealRequest struct {
	Name     string         `json:"name" binding:"required"`
	MealType model.MealType `json:"meal_type" binding:"required"`
	Calories float64        `json:"calories"`
	Protein  float64        `json:"protein"`
	Carbs    float64        `json:"carbs"`
	Fats     float64        `json:"fats"`
	Date     *time.Time     `json:"date"`
	Notes    *string        `json:"notes"`
}

// LogMeal records a meal for the authenticated user
func (h *MealHandler) LogMeal(c *gin.Context) {
	var req createMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	input := service.CreateMealInput{
		Name:     req.Name,
		MealType: req.MealType,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Notes:    req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	meal, err := h.service.LogMeal(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, meal)
}

// ListMeals lists meal entries, filtered by slot and date range
func (h *MealHandler) ListMeals(c *gin.Context) {
	var mealType *model.MealType
	if v := c.Query("meal_type"); v != "" {
		t := model.MealType(v)
		mealType = &t
	}

	from, err := parseDateParam(c.Query("start_date"))
	if err != nil {
		respondBindError(c, err)
		return
	}
	to, err := parseDateParam(c.Query("end_date"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	meals, err := h.service.ListMeals(c.Request.Context(), actorFrom(c), c.Query("user_id"), mealType, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, meals)
}

type updateMealRequest struct {
	Name     *string         `json:"name"`
	MealType *model.MealType `json:"meal_type"`
	Calories *float64        `json:"calories"`
	Protein  *float64        `json:"protein"`
	Carbs    *float64        `json:"carbs"`
	Fats     *float64        `json:"fats"`
	Date     *time.Time      `json:"date"`
	Notes    *string         `json:"notes"`
}

// UpdateMeal edits one of the authenticated user's meal entries
func (h *MealHandler) UpdateMeal(c *gin.Context) {
	var req updateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	meal, err := h.service.UpdateMeal(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdateMealInput{
		Name:     req.Name,
		MealType: req.MealType,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Date:     req.Date,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, meal)
}

// DeleteMeal removes a meal entry
func (h *MealHandler) DeleteMeal(c *gin.Context) {
	if err := h.service.DeleteMeal(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal deleted"})
}
