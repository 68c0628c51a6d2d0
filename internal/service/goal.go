package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fitlife-app/backend/internal/policy"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GoalRepository defines the persistence operations the goal engine needs
type GoalRepository interface {
	// Create inserts the goal and retires any active goal of the same
	// (user, type) in the same transaction.
	Create(ctx context.Context, goal *model.Goal) error
	// FindByID returns (nil, nil) when the goal does not exist.
	FindByID(ctx context.Context, goalID string) (*model.Goal, error)
	FindActiveByUser(ctx context.Context, userID string) ([]model.Goal, error)
	FindAchievedByUser(ctx context.Context, userID string) ([]model.Goal, error)
	// SaveProgress persists current value and achievement state.
	SaveProgress(ctx context.Context, goal *model.Goal) error
	// IncrementProgress atomically adds delta to the stored current value
	// and applies the achievement transition in the same statement. A
	// delta that would drive the stored value negative is rejected with an
	// error wrapping ErrInvalidInput, evaluated against the row's value at
	// execution time. It returns (nil, nil) when the goal does not exist.
	IncrementProgress(ctx context.Context, goalID string, delta float64, now time.Time) (*model.Goal, error)
	Retire(ctx context.Context, goalID string) error
	Update(ctx context.Context, goal *model.Goal) error
}

// GoalService owns the goal lifecycle: creation with uniqueness enforcement,
// progress mutation, achievement detection, and retirement
type GoalService struct {
	repo   GoalRepository
	logger *zap.Logger
}

// NewGoalService creates a new GoalService
func NewGoalService(repo GoalRepository, logger *zap.Logger) *GoalService {
	return &GoalService{
		repo:   repo,
		logger: logger,
	}
}

// CreateGoalInput carries the caller-supplied fields for a new goal
type CreateGoalInput struct {
	GoalType     model.GoalType
	TargetValue  float64
	CurrentValue float64
	Period       model.GoalPeriod
	Priority     model.GoalPriority
	Deadline     *time.Time
	Description  *string
	Unit         *string
}

// CreateGoal creates a goal for userID. Any active goal of the same type is
// retired first; the repository performs both steps in one transaction so
// at most one goal per (user, type) is ever active. A goal whose starting
// value already meets the target is created achieved.
func (s *GoalService) CreateGoal(ctx context.Context, userID string, input CreateGoalInput) (*model.Goal, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}
	if !model.ValidGoalTypes[input.GoalType] {
		return nil, fmt.Errorf("%w: unknown goal type %q", ErrInvalidInput, input.GoalType)
	}
	if input.TargetValue < 1 {
		return nil, fmt.Errorf("%w: target value must be at least 1", ErrInvalidInput)
	}
	if input.CurrentValue < 0 {
		return nil, fmt.Errorf("%w: current value cannot be negative", ErrInvalidInput)
	}

	if input.Period == "" {
		input.Period = model.GoalPeriodOneTime
	}
	if input.Priority == "" {
		input.Priority = model.GoalPriorityMedium
	}

	now := time.Now()
	goal := &model.Goal{
		ID:           uuid.New().String(),
		UserID:       userID,
		GoalType:     input.GoalType,
		TargetValue:  input.TargetValue,
		CurrentValue: input.CurrentValue,
		Period:       input.Period,
		Priority:     input.Priority,
		Deadline:     input.Deadline,
		Description:  input.Description,
		Unit:         input.Unit,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if goal.CurrentValue >= goal.TargetValue {
		goal.IsAchieved = true
		achievedAt := now
		goal.AchievedAt = &achievedAt
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		s.logger.Error("failed to create goal",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("goal_type", string(input.GoalType)),
		)
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.logger.Info("goal created",
		zap.String("goal_id", goal.ID),
		zap.String("user_id", userID),
		zap.String("goal_type", string(goal.GoalType)),
		zap.Bool("is_achieved", goal.IsAchieved),
	)

	return goal, nil
}

// ActiveGoals lists the user's active goals, newest first
func (s *GoalService) ActiveGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}

	goals, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list active goals", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list active goals: %w", err)
	}
	return goals, nil
}

// AchievedGoals lists the user's achieved goals, most recently achieved first
func (s *GoalService) AchievedGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}

	goals, err := s.repo.FindAchievedByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list achieved goals", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list achieved goals: %w", err)
	}
	return goals, nil
}

// UpdateProgress sets the goal's stored current value. Crossing the target
// marks the goal achieved exactly once; a later drop below the target never
// revokes the achievement.
func (s *GoalService) UpdateProgress(ctx context.Context, actor policy.Actor, goalID string, value float64) (*model.Goal, error) {
	if value < 0 {
		return nil, fmt.Errorf("%w: progress value cannot be negative", ErrInvalidInput)
	}

	goal, err := s.fetchOwned(ctx, actor, goalID)
	if err != nil {
		return nil, err
	}

	applyProgress(goal, value, time.Now())

	if err := s.repo.SaveProgress(ctx, goal); err != nil {
		s.logger.Error("failed to save goal progress", zap.Error(err), zap.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to save goal progress: %w", err)
	}

	s.logger.Info("goal progress updated",
		zap.String("goal_id", goal.ID),
		zap.Float64("current_value", goal.CurrentValue),
		zap.Bool("is_achieved", goal.IsAchieved),
	)

	return goal, nil
}

// IncrementProgress adds delta to the stored current value. The add, the
// achievement transition and the negativity floor are all applied in a
// single statement at the storage layer, so concurrent increments on the
// same goal cannot lose an update or drive the value below zero. The check
// against the fetched value here is only an early rejection; the statement
// re-checks against the row's value at execution time.
func (s *GoalService) IncrementProgress(ctx context.Context, actor policy.Actor, goalID string, delta float64) (*model.Goal, error) {
	goal, err := s.fetchOwned(ctx, actor, goalID)
	if err != nil {
		return nil, err
	}
	if goal.CurrentValue+delta < 0 {
		return nil, fmt.Errorf("%w: progress value cannot be negative", ErrInvalidInput)
	}

	updated, err := s.repo.IncrementProgress(ctx, goalID, delta, time.Now())
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		s.logger.Error("failed to increment goal progress", zap.Error(err), zap.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to increment goal progress: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}

	s.logger.Info("goal progress incremented",
		zap.String("goal_id", updated.ID),
		zap.Float64("delta", delta),
		zap.Float64("current_value", updated.CurrentValue),
	)

	return updated, nil
}

// UpdateGoalInput carries the editable goal fields. Nil pointers leave the
// stored value untouched.
type UpdateGoalInput struct {
	TargetValue *float64
	Period      *model.GoalPeriod
	Priority    *model.GoalPriority
	Deadline    *time.Time
	Description *string
	Unit        *string
}

// UpdateGoal applies generic field edits. It never touches the stored
// current value or the achievement state; those move only through the
// progress operations.
func (s *GoalService) UpdateGoal(ctx context.Context, actor policy.Actor, goalID string, input UpdateGoalInput) (*model.Goal, error) {
	if input.TargetValue != nil && *input.TargetValue < 1 {
		return nil, fmt.Errorf("%w: target value must be at least 1", ErrInvalidInput)
	}

	goal, err := s.fetchOwned(ctx, actor, goalID)
	if err != nil {
		return nil, err
	}

	if input.TargetValue != nil {
		goal.TargetValue = *input.TargetValue
	}
	if input.Period != nil {
		goal.Period = *input.Period
	}
	if input.Priority != nil {
		goal.Priority = *input.Priority
	}
	if input.Deadline != nil {
		goal.Deadline = input.Deadline
	}
	if input.Description != nil {
		goal.Description = input.Description
	}
	if input.Unit != nil {
		goal.Unit = input.Unit
	}
	goal.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, goal); err != nil {
		s.logger.Error("failed to update goal", zap.Error(err), zap.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return goal, nil
}

// RetireGoal deactivates the goal (soft delete). Retiring an already
// retired goal is a no-op; achievement state is never altered.
func (s *GoalService) RetireGoal(ctx context.Context, actor policy.Actor, goalID string) error {
	goal, err := s.fetchOwned(ctx, actor, goalID)
	if err != nil {
		return err
	}

	if !goal.IsActive {
		return nil
	}

	if err := s.repo.Retire(ctx, goalID); err != nil {
		s.logger.Error("failed to retire goal", zap.Error(err), zap.String("goal_id", goalID))
		return fmt.Errorf("failed to retire goal: %w", err)
	}

	s.logger.Info("goal retired", zap.String("goal_id", goalID), zap.String("user_id", goal.UserID))
	return nil
}

// fetchOwned loads a goal and enforces the ownership check for mutations
func (s *GoalService) fetchOwned(ctx context.Context, actor policy.Actor, goalID string) (*model.Goal, error) {
	goal, err := s.repo.FindByID(ctx, goalID)
	if err != nil {
		s.logger.Error("failed to load goal", zap.Error(err), zap.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	if goal == nil {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	if !policy.CanMutate(actor, goal.UserID) {
		return nil, fmt.Errorf("%w: goal %s is not owned by actor", ErrForbidden, goalID)
	}
	return goal, nil
}

// applyProgress sets the stored current value and applies the one-way
// achievement transition. AchievedAt is written exactly once.
func applyProgress(goal *model.Goal, value float64, now time.Time) {
	goal.CurrentValue = value
	goal.UpdatedAt = now

	if value >= goal.TargetValue && !goal.IsAchieved {
		goal.IsAchieved = true
		achievedAt := now
		goal.AchievedAt = &achievedAt
	}
}

// GoalDerived is the pure projection computed from a goal on demand; none
// of these fields are stored
type GoalDerived struct {
	ProgressPercentage    int     `json:"progress_percentage"`
	RemainingValue        float64 `json:"remaining_value"`
	IsDeadlineApproaching bool    `json:"is_deadline_approaching"`
	IsOverdue             bool    `json:"is_overdue"`
}

// ComputeDerived projects the derived goal fields at the given instant
func ComputeDerived(goal model.Goal, now time.Time) GoalDerived {
	d := GoalDerived{
		ProgressPercentage: ProgressPercentage(goal.CurrentValue, goal.TargetValue),
		RemainingValue:     math.Max(goal.TargetValue-goal.CurrentValue, 0),
	}

	if goal.Deadline != nil {
		daysUntil := int(math.Ceil(goal.Deadline.Sub(now).Hours() / 24))
		d.IsDeadlineApproaching = daysUntil > 0 && daysUntil <= 7
		d.IsOverdue = goal.Deadline.Before(now) && !goal.IsAchieved
	}

	return d
}

// ProgressPercentage is the clamped percentage of target reached. A zero
// target yields 0.
func ProgressPercentage(current, target float64) int {
	if target == 0 {
		return 0
	}
	pct := int(math.Round(current / target * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
