package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitlife-app/backend/internal/policy"
	"github.com/fitlife-app/backend/pkg/model"
)

// MockWorkoutPlanRepository is a mock implementation of WorkoutPlanRepository
type MockWorkoutPlanRepository struct {
	mock.Mock
}

func (m *MockWorkoutPlanRepository) Create(ctx context.Context, plan *model.WorkoutPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockWorkoutPlanRepository) FindByID(ctx context.Context, planID string) (*model.WorkoutPlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkoutPlan), args.Error(1)
}

func (m *MockWorkoutPlanRepository) FindByTrainer(ctx context.Context, trainerID string) ([]model.WorkoutPlan, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkoutPlan), args.Error(1)
}

func (m *MockWorkoutPlanRepository) FindAssignedTo(ctx context.Context, userID string) ([]model.WorkoutPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkoutPlan), args.Error(1)
}

func (m *MockWorkoutPlanRepository) FindAll(ctx context.Context) ([]model.WorkoutPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkoutPlan), args.Error(1)
}

func (m *MockWorkoutPlanRepository) Update(ctx context.Context, plan *model.WorkoutPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockWorkoutPlanRepository) Delete(ctx context.Context, planID string) error {
	args := m.Called(ctx, planID)
	return args.Error(0)
}

func newWorkoutPlanService(repo WorkoutPlanRepository) *WorkoutPlanService {
	return NewWorkoutPlanService(repo, nil, nil, nil, zap.NewNop())
}

func TestWorkoutPlanService_GetPlan_Visibility(t *testing.T) {
	ctx := context.Background()
	plan := &model.WorkoutPlan{
		ID:            "plan-1",
		TrainerID:     "trainer-1",
		Title:         "Strength block",
		Difficulty:    model.DifficultyIntermediate,
		AssignedUsers: []string{"user-1"},
		IsActive:      true,
	}

	testCases := []struct {
		name    string
		actor   policy.Actor
		wantErr error
	}{
		{name: "authoring trainer", actor: policy.Actor{ID: "trainer-1", Role: model.RoleTrainer}},
		{name: "assigned user", actor: policy.Actor{ID: "user-1", Role: model.RoleUser}},
		{name: "admin", actor: policy.Actor{ID: "admin-1", Role: model.RoleAdmin}},
		{
			name:    "unassigned user",
			actor:   policy.Actor{ID: "user-2", Role: model.RoleUser},
			wantErr: ErrForbidden,
		},
		{
			name:    "another trainer",
			actor:   policy.Actor{ID: "trainer-2", Role: model.RoleTrainer},
			wantErr: ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockWorkoutPlanRepository)
			service := newWorkoutPlanService(mockRepo)
			mockRepo.On("FindByID", ctx, "plan-1").Return(plan, nil)

			got, err := service.GetPlan(ctx, tc.actor, "plan-1")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "plan-1", got.ID)
		})
	}
}

func TestWorkoutPlanService_GetPlan_NotFound(t *testing.T) {
	mockRepo := new(MockWorkoutPlanRepository)
	service := newWorkoutPlanService(mockRepo)

	ctx := context.Background()
	mockRepo.On("FindByID", ctx, "missing").Return(nil, nil)

	_, err := service.GetPlan(ctx, policy.Actor{ID: "trainer-1", Role: model.RoleTrainer}, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkoutPlanService_UpdatePlan(t *testing.T) {
	// Arrange
	mockRepo := new(MockWorkoutPlanRepository)
	service := newWorkoutPlanService(mockRepo)

	ctx := context.Background()
	trainer := policy.Actor{ID: "trainer-1", Role: model.RoleTrainer}

	plan := &model.WorkoutPlan{
		ID:            "plan-1",
		TrainerID:     "trainer-1",
		Title:         "Strength block",
		Difficulty:    model.DifficultyBeginner,
		AssignedUsers: []string{"user-1"},
		IsActive:      true,
	}
	mockRepo.On("FindByID", ctx, "plan-1").Return(plan, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*model.WorkoutPlan")).Return(nil)

	newTitle := "Hypertrophy block"
	difficulty := model.DifficultyAdvanced
	reps := "5"

	// Act
	updated, err := service.UpdatePlan(ctx, trainer, "plan-1", UpdateWorkoutPlanInput{
		Title:      &newTitle,
		Difficulty: &difficulty,
		Exercises: []model.Exercise{
			{Name: "Squat", Sets: intPtr(5), Reps: &reps},
		},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Hypertrophy block", updated.Title)
	assert.Equal(t, model.DifficultyAdvanced, updated.Difficulty)
	require.Len(t, updated.Exercises, 1)
	assert.Equal(t, []string{"user-1"}, updated.AssignedUsers, "edits never touch the assignment list")

	mockRepo.AssertExpectations(t)
}

func TestWorkoutPlanService_UpdatePlan_Validation(t *testing.T) {
	mockRepo := new(MockWorkoutPlanRepository)
	service := newWorkoutPlanService(mockRepo)

	ctx := context.Background()
	trainer := policy.Actor{ID: "trainer-1", Role: model.RoleTrainer}

	empty := ""
	_, err := service.UpdatePlan(ctx, trainer, "plan-1", UpdateWorkoutPlanInput{Title: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	bogus := model.Difficulty("impossible")
	_, err = service.UpdatePlan(ctx, trainer, "plan-1", UpdateWorkoutPlanInput{Difficulty: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockRepo.AssertNotCalled(t, "Update")
}

func TestWorkoutPlanService_UpdatePlan_OnlyAuthorOrAdmin(t *testing.T) {
	// Arrange
	mockRepo := new(MockWorkoutPlanRepository)
	service := newWorkoutPlanService(mockRepo)

	ctx := context.Background()
	plan := &model.WorkoutPlan{ID: "plan-1", TrainerID: "trainer-1", Title: "Strength block"}
	mockRepo.On("FindByID", ctx, "plan-1").Return(plan, nil)

	newTitle := "Renamed"
	other := policy.Actor{ID: "trainer-2", Role: model.RoleTrainer}

	// Act
	_, err := service.UpdatePlan(ctx, other, "plan-1", UpdateWorkoutPlanInput{Title: &newTitle})

	// Assert
	assert.ErrorIs(t, err, ErrForbidden)
	mockRepo.AssertNotCalled(t, "Update")
}
