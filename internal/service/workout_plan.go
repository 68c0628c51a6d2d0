package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fitlife-app/backend/internal/notify"
	"github.com/fitlife-app/backend/internal/policy"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkoutPlanRepository defines the persistence operations for workout plans
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *model.WorkoutPlan) error
	// FindByID returns (nil, nil) when the plan does not exist.
	FindByID(ctx context.Context, planID string) (*model.WorkoutPlan, error)
	FindByTrainer(ctx context.Context, trainerID string) ([]model.WorkoutPlan, error)
	FindAssignedTo(ctx context.Context, userID string) ([]model.WorkoutPlan, error)
	FindAll(ctx context.Context) ([]model.WorkoutPlan, error)
	Update(ctx context.Context, plan *model.WorkoutPlan) error
	Delete(ctx context.Context, planID string) error
}

// WorkoutPlanService owns training plans: authoring, assignment, and the
// trainer's view over assigned users' activity
type WorkoutPlanService struct {
	repo       WorkoutPlanRepository
	users      UserRepository
	activities ActivityRepository
	notifier   *notify.Notifier
	logger     *zap.Logger
}

// NewWorkoutPlanService creates a new WorkoutPlanService
func NewWorkoutPlanService(repo WorkoutPlanRepository, users UserRepository, activities ActivityRepository, notifier *notify.Notifier, logger *zap.Logger) *WorkoutPlanService {
	return &WorkoutPlanService{
		repo:       repo,
		users:      users,
		activities: activities,
		notifier:   notifier,
		logger:     logger,
	}
}

// CreateWorkoutPlanInput carries the caller-supplied fields for a new
// workout plan
type CreateWorkoutPlanInput struct {
	Title       string
	Description *string
	Exercises   []model.Exercise
	Difficulty  model.Difficulty
	Duration    *float64
}

func validDifficulty(d model.Difficulty) bool {
	switch d {
	case model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced:
		return true
	}
	return false
}

// CreatePlan creates a workout plan authored by the acting trainer
func (s *WorkoutPlanService) CreatePlan(ctx context.Context, actor policy.Actor, input CreateWorkoutPlanInput) (*model.WorkoutPlan, error) {
	if actor.Role != model.RoleTrainer && actor.Role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: only trainers may create workout plans", ErrForbidden)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Difficulty == "" {
		input.Difficulty = model.DifficultyBeginner
	}
	if !validDifficulty(input.Difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, input.Difficulty)
	}

	now := time.Now()
	plan := &model.WorkoutPlan{
		ID:          uuid.New().String(),
		TrainerID:   actor.ID,
		Title:       input.Title,
		Description: input.Description,
		Exercises:   input.Exercises,
		Difficulty:  input.Difficulty,
		Duration:    input.Duration,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		s.logger.Error("failed to create workout plan", zap.Error(err), zap.String("trainer_id", actor.ID))
		return nil, fmt.Errorf("failed to create workout plan: %w", err)
	}

	s.logger.Info("workout plan created",
		zap.String("plan_id", plan.ID),
		zap.String("trainer_id", actor.ID),
	)

	return plan, nil
}

// ListPlans returns workout plans within the actor's resolved scope: plans
// assigned to a user, plans authored by a trainer, every plan for an admin
func (s *WorkoutPlanService) ListPlans(ctx context.Context, actor policy.Actor) ([]model.WorkoutPlan, error) {
	scope := policy.Resolve(actor, policy.ResourceWorkoutPlan, "")
	switch scope.Kind {
	case policy.ScopeAll:
		plans, err := s.repo.FindAll(ctx)
		if err != nil {
			s.logger.Error("failed to list workout plans", zap.Error(err))
			return nil, fmt.Errorf("failed to list workout plans: %w", err)
		}
		return plans, nil
	case policy.ScopeSelf:
		var (
			plans []model.WorkoutPlan
			err   error
		)
		if actor.Role == model.RoleTrainer {
			plans, err = s.repo.FindByTrainer(ctx, actor.ID)
		} else {
			plans, err = s.repo.FindAssignedTo(ctx, actor.ID)
		}
		if err != nil {
			s.logger.Error("failed to list workout plans", zap.Error(err), zap.String("user_id", actor.ID))
			return nil, fmt.Errorf("failed to list workout plans: %w", err)
		}
		return plans, nil
	default:
		return nil, fmt.Errorf("%w: workout plan access denied", ErrForbidden)
	}
}

// GetPlan returns one workout plan. The authoring trainer, an assigned
// user, or an admin may view it.
func (s *WorkoutPlanService) GetPlan(ctx context.Context, actor policy.Actor, planID string) (*model.WorkoutPlan, error) {
	plan, err := s.repo.FindByID(ctx, planID)
	if err != nil {
		s.logger.Error("failed to load workout plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to load workout plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: workout plan %s", ErrNotFound, planID)
	}

	if !policy.CanMutate(actor, plan.TrainerID) && !assignedTo(plan, actor.ID) {
		return nil, fmt.Errorf("%w: workout plan %s is not visible to actor", ErrForbidden, planID)
	}
	return plan, nil
}

func assignedTo(plan *model.WorkoutPlan, userID string) bool {
	for _, id := range plan.AssignedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// UpdateWorkoutPlanInput carries the editable workout plan fields. Nil
// pointers leave the stored value untouched.
type UpdateWorkoutPlanInput struct {
	Title       *string
	Description *string
	Exercises   []model.Exercise
	Difficulty  *model.Difficulty
	Duration    *float64
	IsActive    *bool
}

// UpdatePlan applies field edits. Only the authoring trainer or an admin
// may edit; the assignment list moves only through AssignUsers and
// UnassignUser.
func (s *WorkoutPlanService) UpdatePlan(ctx context.Context, actor policy.Actor, planID string, input UpdateWorkoutPlanInput) (*model.WorkoutPlan, error) {
	if input.Title != nil && *input.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if input.Difficulty != nil && !validDifficulty(*input.Difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, *input.Difficulty)
	}

	plan, err := s.fetchAuthoredPlan(ctx, actor, planID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		plan.Title = *input.Title
	}
	if input.Description != nil {
		plan.Description = input.Description
	}
	if input.Exercises != nil {
		plan.Exercises = input.Exercises
	}
	if input.Difficulty != nil {
		plan.Difficulty = *input.Difficulty
	}
	if input.Duration != nil {
		plan.Duration = input.Duration
	}
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}
	plan.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, plan); err != nil {
		s.logger.Error("failed to update workout plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to update workout plan: %w", err)
	}

	return plan, nil
}

// AssignUsers adds users to a plan's assignment list. Targets must be
// accounts with the user role; duplicates are skipped; each newly assigned
// user is notified.
func (s *WorkoutPlanService) AssignUsers(ctx context.Context, actor policy.Actor, planID string, userIDs []string) (*model.WorkoutPlan, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one user ID is required", ErrInvalidInput)
	}

	plan, err := s.fetchAuthoredPlan(ctx, actor, planID)
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]bool, len(plan.AssignedUsers))
	for _, id := range plan.AssignedUsers {
		assigned[id] = true
	}

	var added []string
	for _, userID := range userIDs {
		if assigned[userID] {
			continue
		}
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			s.logger.Error("failed to load assignment target", zap.Error(err), zap.String("user_id", userID))
			return nil, fmt.Errorf("failed to load assignment target: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		if user.Role != model.RoleUser {
			return nil, fmt.Errorf("%w: only accounts with the user role can be assigned", ErrInvalidInput)
		}
		plan.AssignedUsers = append(plan.AssignedUsers, userID)
		assigned[userID] = true
		added = append(added, userID)
	}

	if len(added) == 0 {
		return plan, nil
	}

	plan.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, plan); err != nil {
		s.logger.Error("failed to assign users to workout plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to assign users to workout plan: %w", err)
	}

	s.notifier.SendMany(ctx, added,
		fmt.Sprintf("You were assigned the workout plan %q", plan.Title),
		model.NotificationTypeInfo)

	s.logger.Info("users assigned to workout plan",
		zap.String("plan_id", planID),
		zap.Int("assigned_count", len(added)),
	)

	return plan, nil
}

// UnassignUser removes a user from a plan's assignment list. Removing a user
// who is not assigned is a no-op.
func (s *WorkoutPlanService) UnassignUser(ctx context.Context, actor policy.Actor, planID, userID string) (*model.WorkoutPlan, error) {
	plan, err := s.fetchAuthoredPlan(ctx, actor, planID)
	if err != nil {
		return nil, err
	}

	remaining := plan.AssignedUsers[:0]
	removed := false
	for _, id := range plan.AssignedUsers {
		if id == userID {
			removed = true
			continue
		}
		remaining = append(remaining, id)
	}
	if !removed {
		return plan, nil
	}
	plan.AssignedUsers = remaining
	plan.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, plan); err != nil {
		s.logger.Error("failed to unassign user from workout plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to unassign user from workout plan: %w", err)
	}

	return plan, nil
}

// DeletePlan removes a workout plan. Only the authoring trainer or an admin
// may delete.
func (s *WorkoutPlanService) DeletePlan(ctx context.Context, actor policy.Actor, planID string) error {
	plan, err := s.fetchAuthoredPlan(ctx, actor, planID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, plan.ID); err != nil {
		s.logger.Error("failed to delete workout plan", zap.Error(err), zap.String("plan_id", planID))
		return fmt.Errorf("failed to delete workout plan: %w", err)
	}

	s.logger.Info("workout plan deleted", zap.String("plan_id", planID), zap.String("trainer_id", plan.TrainerID))
	return nil
}

// TeamActivities returns the recent activity of every user assigned to any
// of the trainer's plans, one summary per user
func (s *WorkoutPlanService) TeamActivities(ctx context.Context, actor policy.Actor) ([]UserActivitySummary, error) {
	if actor.Role != model.RoleTrainer && actor.Role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: team activity access denied", ErrForbidden)
	}

	plans, err := s.repo.FindByTrainer(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to list workout plans", zap.Error(err), zap.String("trainer_id", actor.ID))
		return nil, fmt.Errorf("failed to list workout plans: %w", err)
	}

	seen := make(map[string]bool)
	var summaries []UserActivitySummary
	for _, plan := range plans {
		for _, userID := range plan.AssignedUsers {
			if seen[userID] {
				continue
			}
			seen[userID] = true

			summary, err := s.UserActivitySummary(ctx, actor, userID)
			if err != nil {
				return nil, err
			}
			summaries = append(summaries, *summary)
		}
	}

	return summaries, nil
}

// UserActivitySummary is a trainer's compact view of one user's last week
type UserActivitySummary struct {
	UserID       string           `json:"user_id"`
	TotalSteps   int              `json:"total_steps"`
	WorkoutCount int              `json:"total_workouts"`
	Recent       []model.Activity `json:"recent_activities"`
}

// UserActivitySummary summarizes one user's activity over the last week for
// a professional viewer
func (s *WorkoutPlanService) UserActivitySummary(ctx context.Context, actor policy.Actor, userID string) (*UserActivitySummary, error) {
	scope := policy.Resolve(actor, policy.ResourceActivity, userID)
	if scope.Kind != policy.ScopeSpecific {
		return nil, fmt.Errorf("%w: activity access denied", ErrForbidden)
	}

	now := time.Now()
	from := PeriodWindowStart(StatsPeriodWeek, now)
	activities, err := s.activities.FindByUser(ctx, ActivityFilter{
		UserID: scope.OwnerID,
		From:   &from,
		To:     &now,
	})
	if err != nil {
		s.logger.Error("failed to load user activity", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to load user activity: %w", err)
	}

	stats := ComputePeriodStats(activities, StatsPeriodWeek)
	return &UserActivitySummary{
		UserID:       scope.OwnerID,
		TotalSteps:   stats.TotalSteps,
		WorkoutCount: stats.WorkoutCount,
		Recent:       stats.RecentActivities,
	}, nil
}

func (s *WorkoutPlanService) fetchAuthoredPlan(ctx context.Context, actor policy.Actor, planID string) (*model.WorkoutPlan, error) {
	plan, err := s.repo.FindByID(ctx, planID)
	if err != nil {
		s.logger.Error("failed to load workout plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to load workout plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: workout plan %s", ErrNotFound, planID)
	}
	if !policy.CanMutate(actor, plan.TrainerID) {
		return nil, fmt.Errorf("%w: workout plan %s is not authored by actor", ErrForbidden, planID)
	}
	return plan, nil
}
