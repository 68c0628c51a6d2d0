package handler

import (
	"net/http"
	"time"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WeightHandler implements weight log API endpoints
type WeightHandler struct {
	service *service.WeightService
	logger  *zap.Logger
}

// NewWeightHandler creates a new WeightHandler
func NewWeightHandler(service *service.WeightService, logger *zap.Logger) *WeightHandler {
	return &WeightHandler{
		service: service,
		logger:  logger,
	}
}

type logWeightRequest struct {
	Weight float64    `json:"weight" binding:"required"`
	Date   *time.Time `json:"date"`
}

// LogWeight records a weight measurement for the authenticated user
func (h *WeightHandler) LogWeight(c *gin.Context) {
	var req logWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	log, err := h.service.LogWeight(c.Request.Context(), actorFrom(c), req.Weight, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// ListWeights lists weight measurements, filtered by date range
func (h *WeightHandler) ListWeights(c *gin.Context) {
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

	logs, err := h.service.ListWeights(c.Request.Context(), actorFrom(c), c.Query("user_id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// DeleteWeight removes a weight measurement
func (h *WeightHandler) DeleteWeight(c *gin.Context) {
	if err := h.service.DeleteWeight(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Weight log deleted"})
}
