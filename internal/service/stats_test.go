package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitlife-app/backend/internal/policy"
	"github.com/fitlife-app/backend/pkg/model"
)

func TestEstimateCalories(t *testing.T) {
	testCases := []struct {
		name     string
		activity model.Activity
		expected int
	}{
		{
			name:     "steps use the per step coefficient",
			activity: model.Activity{ActivityType: model.ActivityTypeSteps, Steps: intPtr(10000)},
			expected: 400,
		},
		{
			name:     "running uses the per minute coefficient",
			activity: model.Activity{ActivityType: model.ActivityTypeRunning, Duration: floatPtr(30)},
			expected: 300,
		},
		{
			name:     "yoga burns less",
			activity: model.Activity{ActivityType: model.ActivityTypeYoga, Duration: floatPtr(60)},
			expected: 180,
		},
		{
			name:     "sleep burns nothing",
			activity: model.Activity{ActivityType: model.ActivityTypeSleep, Duration: floatPtr(480)},
			expected: 0,
		},
		{
			name: "a recorded value wins",
			activity: model.Activity{
				ActivityType:   model.ActivityTypeRunning,
				Duration:       floatPtr(30),
				CaloriesBurned: intPtr(275),
			},
			expected: 275,
		},
		{
			name:     "unknown type falls back to the default coefficient",
			activity: model.Activity{ActivityType: model.ActivityType("hiking"), Duration: floatPtr(20)},
			expected: 100,
		},
		{
			name:     "no volume data at all",
			activity: model.Activity{ActivityType: model.ActivityTypeWorkout},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, EstimateCalories(tc.activity))
		})
	}
}

func TestComputePeriodStats(t *testing.T) {
	now := time.Now()

	activities := []model.Activity{
		{
			ActivityType:   model.ActivityTypeSteps,
			Date:           now.AddDate(0, 0, -1),
			Steps:          intPtr(3000),
			CaloriesBurned: intPtr(120),
		},
		{
			ActivityType:   model.ActivityTypeRunning,
			Date:           now.AddDate(0, 0, -2),
			Duration:       floatPtr(30),
			CaloriesBurned: intPtr(300),
		},
		{
			ActivityType:   model.ActivityTypeCycling,
			Date:           now.AddDate(0, 0, -3),
			Duration:       floatPtr(20),
			CaloriesBurned: intPtr(150),
		},
		{
			ActivityType:   model.ActivityTypeSteps,
			Date:           now,
			Steps:          intPtr(4000),
			CaloriesBurned: intPtr(160),
		},
	}

	stats := ComputePeriodStats(activities, StatsPeriodWeek)

	assert.Equal(t, StatsPeriodWeek, stats.Period)
	assert.Equal(t, 7000, stats.TotalSteps)
	assert.Equal(t, 730, stats.TotalCalories)
	assert.Equal(t, 2, stats.WorkoutCount, "running and cycling count as workouts, step records do not")
	assert.Equal(t, 1000, stats.AvgStepsPerDay, "the average is always over 7 days")

	require.Len(t, stats.RecentActivities, 4)
	assert.Equal(t, now, stats.RecentActivities[0].Date, "recent activities are sorted newest first")
}

func TestComputePeriodStats_Empty(t *testing.T) {
	stats := ComputePeriodStats(nil, StatsPeriodMonth)

	assert.Equal(t, 0, stats.TotalSteps)
	assert.Equal(t, 0, stats.AvgStepsPerDay, "no activities means no average, not a division by zero")
	assert.Empty(t, stats.RecentActivities)
}

func TestComputePeriodStats_RecentTruncation(t *testing.T) {
	now := time.Now()

	activities := make([]model.Activity, 0, 14)
	for i := 0; i < 14; i++ {
		activities = append(activities, model.Activity{
			ID:           fmt.Sprintf("activity-%d", i),
			ActivityType: model.ActivityTypeSteps,
			Date:         now.Add(-time.Duration(i) * time.Hour),
			Steps:        intPtr(100),
		})
	}

	stats := ComputePeriodStats(activities, StatsPeriodWeek)

	require.Len(t, stats.RecentActivities, 10)
	assert.Equal(t, "activity-0", stats.RecentActivities[0].ID)
	assert.Equal(t, "activity-9", stats.RecentActivities[9].ID)
}

func TestProjectGoalCurrent(t *testing.T) {
	now := time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC)

	activities := []model.Activity{
		{ActivityType: model.ActivityTypeSteps, Date: now.Add(-2 * time.Hour), Steps: intPtr(4500)},
		{ActivityType: model.ActivityTypeSteps, Date: now.AddDate(0, 0, -1), Steps: intPtr(9000)},
	}

	t.Run("daily steps read today only", func(t *testing.T) {
		goal := model.Goal{GoalType: model.GoalTypeDailySteps, CurrentValue: 123}
		assert.Equal(t, float64(4500), ProjectGoalCurrent(goal, activities, 0, now))
	})

	t.Run("weekly workouts read the window count", func(t *testing.T) {
		goal := model.Goal{GoalType: model.GoalTypeWeeklyWorkouts, CurrentValue: 1}
		assert.Equal(t, float64(3), ProjectGoalCurrent(goal, activities, 3, now))
	})

	t.Run("other types read the stored value", func(t *testing.T) {
		goal := model.Goal{GoalType: model.GoalTypeWeightLoss, CurrentValue: 2.5}
		assert.Equal(t, 2.5, ProjectGoalCurrent(goal, activities, 3, now))
	})
}

func TestPeriodWindowStart(t *testing.T) {
	now := time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC), PeriodWindowStart(StatsPeriodWeek, now))
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), PeriodWindowStart(StatsPeriodMonth, now))
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), PeriodWindowStart(StatsPeriodYear, now))
}

func TestStatsService_GetActivityStats(t *testing.T) {
	// Arrange
	mockActivities := new(MockActivityRepository)
	mockGoals := new(MockGoalRepository)
	service := NewStatsService(mockActivities, mockGoals, zap.NewNop())

	ctx := context.Background()
	actor := policy.Actor{ID: "user-1", Role: model.RoleUser}

	mockActivities.On("FindByUser", ctx, mock.MatchedBy(func(f ActivityFilter) bool {
		return f.UserID == "user-1" && f.From != nil && f.To != nil
	})).Return([]model.Activity{
		{ActivityType: model.ActivityTypeSteps, Date: time.Now(), Steps: intPtr(3000), CaloriesBurned: intPtr(120)},
		{ActivityType: model.ActivityTypeRunning, Date: time.Now(), Duration: floatPtr(30), CaloriesBurned: intPtr(300)},
	}, nil)

	mockGoals.On("FindActiveByUser", ctx, "user-1").Return([]model.Goal{
		{ID: "goal-1", GoalType: model.GoalTypeDailySteps, TargetValue: 6000, Period: model.GoalPeriodDaily},
	}, nil)

	// Act: an empty period defaults to a week
	stats, err := service.GetActivityStats(ctx, actor, "", "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatsPeriodWeek, stats.Period)
	assert.Equal(t, 3000, stats.TotalSteps)
	assert.Equal(t, 420, stats.TotalCalories)
	assert.Equal(t, 1, stats.WorkoutCount)

	require.Len(t, stats.GoalProgress, 1)
	assert.Equal(t, float64(3000), stats.GoalProgress[0].Current)
	assert.Equal(t, 50, stats.GoalProgress[0].Percentage)

	mockActivities.AssertExpectations(t)
	mockGoals.AssertExpectations(t)
}

func TestStatsService_GetActivityStats_UnknownPeriod(t *testing.T) {
	service := NewStatsService(new(MockActivityRepository), new(MockGoalRepository), zap.NewNop())

	_, err := service.GetActivityStats(context.Background(), policy.Actor{ID: "user-1", Role: model.RoleUser}, "", "decade")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStatsService_GetActivityStats_ProfessionalReadsClient(t *testing.T) {
	// Arrange
	mockActivities := new(MockActivityRepository)
	mockGoals := new(MockGoalRepository)
	service := NewStatsService(mockActivities, mockGoals, zap.NewNop())

	ctx := context.Background()
	trainer := policy.Actor{ID: "trainer-1", Role: model.RoleTrainer}

	mockActivities.On("FindByUser", ctx, mock.MatchedBy(func(f ActivityFilter) bool {
		return f.UserID == "client-1"
	})).Return([]model.Activity{}, nil)
	mockGoals.On("FindActiveByUser", ctx, "client-1").Return([]model.Goal{}, nil)

	// Act
	stats, err := service.GetActivityStats(ctx, trainer, "client-1", StatsPeriodMonth)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatsPeriodMonth, stats.Period)
	mockActivities.AssertExpectations(t)
	mockGoals.AssertExpectations(t)
}
