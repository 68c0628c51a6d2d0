package handler

import (
	"net/http"
	"time"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActivityHandler implements activity API endpoints
type ActivityHandler struct {
	service *service.ActivityService
	stats   *service.StatsService
	logger  *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(service *service.ActivityService, stats *service.StatsService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		stats:   stats,
		logger:  logger,
	}
}

type createActivityRequest struct {
	ActivityType   model.ActivityType `json:"activity_type" binding:"required"`
	Date           *time.Time         `json:"date"`
	Steps          *int               `json:"steps"`
	Distance       *float64           `json:"distance"`
	Duration       *float64           `json:"duration"`
	CaloriesBurned *int               `json:"calories_burned"`
	WorkoutType    *string            `json:"workout_type"`
	Intensity      *string            `json:"intensity"`
	SleepQuality   *string            `json:"sleep_quality"`
	HeartRateAvg   *int               `json:"heart_rate_avg"`
	HeartRateMax   *int               `json:"heart_rate_max"`
	Notes          *string            `json:"notes"`
}

// LogActivity records an activity for the authenticated user
func (h *ActivityHandler) LogActivity(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	input := service.CreateActivityInput{
		ActivityType:   req.ActivityType,
		Steps:          req.Steps,
		Distance:       req.Distance,
		Duration:       req.Duration,
		CaloriesBurned: req.CaloriesBurned,
		WorkoutType:    req.WorkoutType,
		Intensity:      req.Intensity,
		SleepQuality:   req.SleepQuality,
		HeartRateAvg:   req.HeartRateAvg,
		HeartRateMax:   req.HeartRateMax,
		Notes:          req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	activity, err := h.service.LogActivity(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// ListActivities lists activity records, filtered by type and date range
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	var activityType *model.ActivityType
	if v := c.Query("type"); v != "" {
		t := model.ActivityType(v)
		activityType = &t
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

	activities, err := h.service.ListActivities(c.Request.Context(), actorFrom(c), c.Query("user_id"), activityType, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

// GetStats returns period statistics and goal progress
func (h *ActivityHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.GetActivityStats(
		c.Request.Context(),
		actorFrom(c),
		c.Query("user_id"),
		service.StatsPeriod(c.Query("period")),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteActivity removes an activity record
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	if err := h.service.DeleteActivity(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted"})
}
