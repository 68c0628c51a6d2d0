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

// MockGoalRepository is a mock implementation of GoalRepository
type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) FindByID(ctx context.Context, goalID string) (*model.Goal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goal), args.Error(1)
}

func (m *MockGoalRepository) FindActiveByUser(ctx context.Context, userID string) ([]model.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Goal), args.Error(1)
}

func (m *MockGoalRepository) FindAchievedByUser(ctx context.Context, userID string) ([]model.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Goal), args.Error(1)
}

func (m *MockGoalRepository) SaveProgress(ctx context.Context, goal *model.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) IncrementProgress(ctx context.Context, goalID string, delta float64, now time.Time) (*model.Goal, error) {
	args := m.Called(ctx, goalID, delta, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goal), args.Error(1)
}

func (m *MockGoalRepository) Retire(ctx context.Context, goalID string) error {
	args := m.Called(ctx, goalID)
	return args.Error(0)
}

func (m *MockGoalRepository) Update(ctx context.Context, goal *model.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func ownerActor(id string) policy.Actor {
	return policy.Actor{ID: id, Role: model.RoleUser}
}

func TestGoalService_CreateGoal_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Goal")).Return(nil)

	// Act
	goal, err := service.CreateGoal(ctx, "user-1", CreateGoalInput{
		GoalType:    model.GoalTypeDailySteps,
		TargetValue: 10000,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, goal)
	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, "user-1", goal.UserID)
	assert.True(t, goal.IsActive)
	assert.False(t, goal.IsAchieved)
	assert.Nil(t, goal.AchievedAt)
	assert.Equal(t, model.GoalPeriodOneTime, goal.Period, "period defaults to one-time")
	assert.Equal(t, model.GoalPriorityMedium, goal.Priority, "priority defaults to medium")

	mockRepo.AssertExpectations(t)
}

func TestGoalService_CreateGoal_Validation(t *testing.T) {
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())
	ctx := context.Background()

	testCases := []struct {
		name   string
		userID string
		input  CreateGoalInput
	}{
		{
			name:   "missing user",
			userID: "",
			input:  CreateGoalInput{GoalType: model.GoalTypeDailySteps, TargetValue: 10},
		},
		{
			name:   "unknown goal type",
			userID: "user-1",
			input:  CreateGoalInput{GoalType: "marathon", TargetValue: 10},
		},
		{
			name:   "target below one",
			userID: "user-1",
			input:  CreateGoalInput{GoalType: model.GoalTypeDailySteps, TargetValue: 0},
		},
		{
			name:   "negative starting value",
			userID: "user-1",
			input:  CreateGoalInput{GoalType: model.GoalTypeDailySteps, TargetValue: 10, CurrentValue: -1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateGoal(ctx, tc.userID, tc.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	mockRepo.AssertNotCalled(t, "Create")
}

func TestGoalService_CreateGoal_AlreadyMetTarget(t *testing.T) {
	// Arrange
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Goal")).Return(nil)

	// Act
	goal, err := service.CreateGoal(ctx, "user-1", CreateGoalInput{
		GoalType:     model.GoalTypeCalories,
		TargetValue:  500,
		CurrentValue: 600,
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, goal.IsAchieved, "a starting value at or above target creates the goal achieved")
	require.NotNil(t, goal.AchievedAt)

	mockRepo.AssertExpectations(t)
}

func TestGoalService_UpdateProgress_AchievementIsOneWay(t *testing.T) {
	// Arrange
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())

	ctx := context.Background()
	actor := ownerActor("user-1")

	goal := &model.Goal{
		ID:          "goal-1",
		UserID:      "user-1",
		GoalType:    model.GoalTypeDailySteps,
		TargetValue: 100,
		IsActive:    true,
	}

	mockRepo.On("FindByID", ctx, "goal-1").Return(goal, nil)
	mockRepo.On("SaveProgress", ctx, mock.AnythingOfType("*model.Goal")).Return(nil)

	// Act: cross the target
	updated, err := service.UpdateProgress(ctx, actor, "goal-1", 150)

	// Assert
	require.NoError(t, err)
	assert.True(t, updated.IsAchieved)
	require.NotNil(t, updated.AchievedAt)
	firstAchievedAt := *updated.AchievedAt

	// Act: drop below the target again
	updated, err = service.UpdateProgress(ctx, actor, "goal-1", 50)

	// Assert: achievement and its timestamp survive
	require.NoError(t, err)
	assert.Equal(t, float64(50), updated.CurrentValue)
	assert.True(t, updated.IsAchieved, "achievement is never revoked")
	require.NotNil(t, updated.AchievedAt)
	assert.Equal(t, firstAchievedAt, *updated.AchievedAt)

	mockRepo.AssertExpectations(t)
}

func TestGoalService_UpdateProgress_NegativeValue(t *testing.T) {
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())

	_, err := service.UpdateProgress(context.Background(), ownerActor("user-1"), "goal-1", -5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockRepo.AssertNotCalled(t, "SaveProgress")
}

func TestGoalService_UpdateProgress_Ownership(t *testing.T) {
	// Arrange
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())

	ctx := context.Background()
	goal := &model.Goal{
		ID:          "goal-1",
		UserID:      "user-1",
		GoalType:    model.GoalTypeDailySteps,
		TargetValue: 100,
		IsActive:    true,
	}
	mockRepo.On("FindByID", ctx, "goal-1").Return(goal, nil)

	// A different user is rejected
	_, err := service.UpdateProgress(ctx, ownerActor("user-2"), "goal-1", 10)
	assert.ErrorIs(t, err, ErrForbidden)

	// An admin may mutate any goal
	mockRepo.On("SaveProgress", ctx, mock.AnythingOfType("*model.Goal")).Return(nil)
	admin := policy.Actor{ID: "admin-1", Role: model.RoleAdmin}
	updated, err := service.UpdateProgress(ctx, admin, "goal-1", 10)
	require.NoError(t, err)
	assert.Equal(t, float64(10), updated.CurrentValue)

	mockRepo.AssertExpectations(t)
}

func TestGoalService_IncrementProgress(t *testing.T) {
	// Arrange
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())

	ctx := context.Background()
	actor := ownerActor("user-1")

	goal := &model.Goal{
		ID:           "goal-1",
		UserID:       "user-1",
		GoalType:     model.GoalTypeCalories,
		TargetValue:  500,
		CurrentValue: 100,
		IsActive:     true,
	}
	incremented := &model.Goal{
		ID:           "goal-1",
		UserID:       "user-1",
		GoalType:     model.GoalTypeCalories,
		TargetValue:  500,
		CurrentValue: 350,
		IsActive:     true,
	}

	mockRepo.On("FindByID", ctx, "goal-1").Return(goal, nil)
	mockRepo.On("IncrementProgress", ctx, "goal-1", float64(250), mock.AnythingOfType("time.Time")).
		Return(incremented, nil)

	// Act
	updated, err := service.IncrementProgress(ctx, actor, "goal-1", 250)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, float64(350), updated.CurrentValue)

	// A delta that would push the value negative is rejected before the
	// storage layer sees it
	_, err = service.IncrementProgress(ctx, actor, "goal-1", -200)
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockRepo.AssertExpectations(t)
}

func TestGoalService_IncrementProgress_StorageRejectsStaleDecrement(t *testing.T) {
	// Arrange: the fetched value would allow the decrement, but a racing
	// decrement lands first and the storage layer rejects the delta
	// against the row's value at execution time
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())

	ctx := context.Background()
	goal := &model.Goal{
		ID:           "goal-1",
		UserID:       "user-1",
		GoalType:     model.GoalTypeCalories,
		TargetValue:  500,
		CurrentValue: 10,
		IsActive:     true,
	}
	mockRepo.On("FindByID", ctx, "goal-1").Return(goal, nil)
	mockRepo.On("IncrementProgress", ctx, "goal-1", float64(-8), mock.AnythingOfType("time.Time")).
		Return(nil, fmt.Errorf("%w: progress value cannot be negative", ErrInvalidInput))

	// Act
	_, err := service.IncrementProgress(ctx, ownerActor("user-1"), "goal-1", -8)

	// Assert: the rejection surfaces as invalid input, not a storage failure
	assert.ErrorIs(t, err, ErrInvalidInput)
	mockRepo.AssertExpectations(t)
}

func TestGoalService_IncrementProgress_NotFound(t *testing.T) {
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("FindByID", ctx, "missing").Return(nil, nil)

	_, err := service.IncrementProgress(ctx, ownerActor("user-1"), "missing", 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoalService_RetireGoal_Idempotent(t *testing.T) {
	// Arrange
	mockRepo := new(MockGoalRepository)
	service := NewGoalService(mockRepo, zap.NewNop())

	ctx := context.Background()
	retired := &model.Goal{
		ID:       "goal-1",
		UserID:   "user-1",
		IsActive: false,
	}
	mockRepo.On("FindByID", ctx, "goal-1").Return(retired, nil)

	// Act: retiring an already retired goal is a no-op
	err := service.RetireGoal(ctx, ownerActor("user-1"), "goal-1")

	// Assert
	require.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Retire")
}

func TestComputeDerived(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	t.Run("percentage and remaining", func(t *testing.T) {
		d := ComputeDerived(model.Goal{TargetValue: 200, CurrentValue: 50}, now)
		assert.Equal(t, 25, d.ProgressPercentage)
		assert.Equal(t, float64(150), d.RemainingValue)
		assert.False(t, d.IsOverdue)
		assert.False(t, d.IsDeadlineApproaching)
	})

	t.Run("overshoot clamps", func(t *testing.T) {
		d := ComputeDerived(model.Goal{TargetValue: 100, CurrentValue: 250}, now)
		assert.Equal(t, 100, d.ProgressPercentage)
		assert.Equal(t, float64(0), d.RemainingValue)
	})

	t.Run("approaching deadline", func(t *testing.T) {
		deadline := now.AddDate(0, 0, 3)
		d := ComputeDerived(model.Goal{TargetValue: 100, Deadline: &deadline}, now)
		assert.True(t, d.IsDeadlineApproaching)
		assert.False(t, d.IsOverdue)
	})

	t.Run("overdue unless achieved", func(t *testing.T) {
		deadline := now.AddDate(0, 0, -1)
		d := ComputeDerived(model.Goal{TargetValue: 100, Deadline: &deadline}, now)
		assert.True(t, d.IsOverdue)

		d = ComputeDerived(model.Goal{TargetValue: 100, CurrentValue: 100, IsAchieved: true, Deadline: &deadline}, now)
		assert.False(t, d.IsOverdue, "an achieved goal is never overdue")
	})

	t.Run("zero target", func(t *testing.T) {
		d := ComputeDerived(model.Goal{TargetValue: 0, CurrentValue: 10}, now)
		assert.Equal(t, 0, d.ProgressPercentage)
	})
}
