package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fitlife-app/backend/internal/policy"
	"github.com/fitlife-app/backend/pkg/model"
	"go.uber.org/zap"
)

// StatsPeriod selects the aggregation window for period statistics
type StatsPeriod string

const (
	StatsPeriodWeek  StatsPeriod = "week"
	StatsPeriodMonth StatsPeriod = "month"
	StatsPeriodYear  StatsPeriod = "year"
)

// caloriesPerMinute holds the estimation coefficients per activity type.
// The steps coefficient is per step, not per minute.
var caloriesPerMinute = map[model.ActivityType]float64{
	model.ActivityTypeSteps:    0.04,
	model.ActivityTypeWorkout:  8,
	model.ActivityTypeRunning:  10,
	model.ActivityTypeCycling:  7,
	model.ActivityTypeSwimming: 11,
	model.ActivityTypeYoga:     3,
	model.ActivityTypeSleep:    0,
	model.ActivityTypeOther:    5,
}

// EstimateCalories returns the recorded calories when present, otherwise a
// deterministic estimate from the activity type and volume. It is applied
// once, at write time, to fill a missing value; reads never re-derive it.
func EstimateCalories(a model.Activity) int {
	if a.CaloriesBurned != nil {
		return *a.CaloriesBurned
	}

	if a.ActivityType == model.ActivityTypeSteps && a.Steps != nil {
		return int(math.Round(float64(*a.Steps) * caloriesPerMinute[model.ActivityTypeSteps]))
	}

	if a.Duration != nil {
		coefficient, ok := caloriesPerMinute[a.ActivityType]
		if !ok {
			coefficient = 5
		}
		return int(math.Round(*a.Duration * coefficient))
	}

	return 0
}

// isWorkout reports whether the activity counts toward the workout total
func isWorkout(t model.ActivityType) bool {
	switch t {
	case model.ActivityTypeWorkout, model.ActivityTypeRunning, model.ActivityTypeCycling, model.ActivityTypeSwimming:
		return true
	}
	return false
}

// PeriodWindowStart returns the start of the aggregation window for a
// period, normalized to start of day
func PeriodWindowStart(period StatsPeriod, now time.Time) time.Time {
	var start time.Time
	switch period {
	case StatsPeriodMonth:
		start = now.AddDate(0, -1, 0)
	case StatsPeriodYear:
		start = now.AddDate(-1, 0, 0)
	default:
		start = now.AddDate(0, 0, -7)
	}
	return startOfDay(start)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// PeriodStats aggregates a window of activity records
type PeriodStats struct {
	Period           StatsPeriod      `json:"period"`
	TotalSteps       int              `json:"total_steps"`
	TotalCalories    int              `json:"total_calories"`
	WorkoutCount     int              `json:"total_workouts"`
	AvgStepsPerDay   int              `json:"avg_steps_per_day"`
	RecentActivities []model.Activity `json:"recent_activities"`
}

// ComputePeriodStats folds a pre-filtered, pre-authorized window of
// activities into period statistics. The caller is responsible for
// restricting activities to [window start, now] for one user.
//
// The steps average is always computed over 7 days regardless of the
// selected period; the dashboard relies on that behavior.
func ComputePeriodStats(activities []model.Activity, period StatsPeriod) PeriodStats {
	stats := PeriodStats{Period: period}

	for _, a := range activities {
		if a.Steps != nil {
			stats.TotalSteps += *a.Steps
		}
		if a.CaloriesBurned != nil {
			stats.TotalCalories += *a.CaloriesBurned
		}
		if isWorkout(a.ActivityType) {
			stats.WorkoutCount++
		}
	}

	if len(activities) > 0 {
		stats.AvgStepsPerDay = int(math.Round(float64(stats.TotalSteps) / 7))
	}

	recent := make([]model.Activity, len(activities))
	copy(recent, activities)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}
	stats.RecentActivities = recent

	return stats
}

// ProjectGoalCurrent returns the goal's current value as seen by the stats
// view. For daily_steps the value is today's step total; for weekly_workouts
// it is the workout count of the window. Every other type reads the stored
// current value. The projection is ephemeral and never written back.
func ProjectGoalCurrent(goal model.Goal, activities []model.Activity, workoutCount int, now time.Time) float64 {
	switch goal.GoalType {
	case model.GoalTypeDailySteps:
		today := startOfDay(now)
		steps := 0
		for _, a := range activities {
			if !a.Date.Before(today) && a.Steps != nil {
				steps += *a.Steps
			}
		}
		return float64(steps)
	case model.GoalTypeWeeklyWorkouts:
		return float64(workoutCount)
	default:
		return goal.CurrentValue
	}
}

// GoalProgress is one goal's row in the stats view
type GoalProgress struct {
	ID         string           `json:"id"`
	GoalType   model.GoalType   `json:"goal_type"`
	Period     model.GoalPeriod `json:"period"`
	Target     float64          `json:"target"`
	Current    float64          `json:"current"`
	Percentage int              `json:"percentage"`
}

// ActivityStats is the full stats payload: period aggregates plus the
// progress of every active goal
type ActivityStats struct {
	PeriodStats
	GoalProgress []GoalProgress `json:"goal_progress"`
}

// StatsService projects raw activity logs into period statistics and goal
// progress views
type StatsService struct {
	activities ActivityRepository
	goals      GoalRepository
	logger     *zap.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(activities ActivityRepository, goals GoalRepository, logger *zap.Logger) *StatsService {
	return &StatsService{
		activities: activities,
		goals:      goals,
		logger:     logger,
	}
}

// GetActivityStats computes period statistics and goal progress for the
// actor, or for a requested subject when the actor's role allows it
func (s *StatsService) GetActivityStats(ctx context.Context, actor policy.Actor, requestedOwner string, period StatsPeriod) (*ActivityStats, error) {
	switch period {
	case StatsPeriodWeek, StatsPeriodMonth, StatsPeriodYear:
	case "":
		period = StatsPeriodWeek
	default:
		return nil, fmt.Errorf("%w: unknown stats period %q", ErrInvalidInput, period)
	}

	scope := policy.Resolve(actor, policy.ResourceActivity, requestedOwner)
	userID := actor.ID
	if scope.Kind == policy.ScopeSpecific {
		userID = scope.OwnerID
	}

	now := time.Now()
	windowStart := PeriodWindowStart(period, now)

	activities, err := s.activities.FindByUser(ctx, ActivityFilter{
		UserID: userID,
		From:   &windowStart,
		To:     &now,
	})
	if err != nil {
		s.logger.Error("failed to load activities for stats",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("period", string(period)),
		)
		return nil, fmt.Errorf("failed to load activities for stats: %w", err)
	}

	stats := ComputePeriodStats(activities, period)

	goals, err := s.goals.FindActiveByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load goals for stats", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to load goals for stats: %w", err)
	}

	progress := make([]GoalProgress, 0, len(goals))
	for _, goal := range goals {
		current := ProjectGoalCurrent(goal, activities, stats.WorkoutCount, now)
		progress = append(progress, GoalProgress{
			ID:         goal.ID,
			GoalType:   goal.GoalType,
			Period:     goal.Period,
			Target:     goal.TargetValue,
			Current:    current,
			Percentage: ProgressPercentage(current, goal.TargetValue),
		})
	}

	s.logger.Info("activity stats computed",
		zap.String("user_id", userID),
		zap.String("period", string(period)),
		zap.Int("activity_count", len(activities)),
		zap.Int("goal_count", len(progress)),
	)

	return &ActivityStats{PeriodStats: stats, GoalProgress: progress}, nil
}
