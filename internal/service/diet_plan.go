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

// DietPlanFilter narrows a diet plan query. UserID is empty for an
// unrestricted scope.
type DietPlanFilter struct {
	UserID     string
	ActiveOnly bool
}

// DietPlanRepository defines the persistence operations for diet plans
type DietPlanRepository interface {
	Create(ctx context.Context, plan *model.DietPlan) error
	// FindByID returns (nil, nil) when the plan does not exist.
	FindByID(ctx context.Context, planID string) (*model.DietPlan, error)
	Find(ctx context.Context, filter DietPlanFilter) ([]model.DietPlan, error)
	Update(ctx context.Context, plan *model.DietPlan) error
	Delete(ctx context.Context, planID string) error
}

// DietPlanService owns nutrition plans authored by dietitians and doctors
type DietPlanService struct {
	repo     DietPlanRepository
	notifier *notify.Notifier
	logger   *zap.Logger
}

// NewDietPlanService creates a new DietPlanService
func NewDietPlanService(repo DietPlanRepository, notifier *notify.Notifier, logger *zap.Logger) *DietPlanService {
	return &DietPlanService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateDietPlanInput carries the caller-supplied fields for a new diet plan
type CreateDietPlanInput struct {
	UserID          string
	Title           string
	Description     *string
	CalorieTarget   float64
	ProteinTarget   float64
	CarbsTarget     float64
	FatTarget       float64
	Meals           model.DietPlanMeals
	Recommendations []string
	Restrictions    []string
	StartDate       time.Time
	EndDate         *time.Time
}

// CreatePlan creates a diet plan for a subject and notifies them. Only
// dietitians and doctors may author plans.
func (s *DietPlanService) CreatePlan(ctx context.Context, actor policy.Actor, input CreateDietPlanInput) (*model.DietPlan, error) {
	if actor.Role != model.RoleDietitian && actor.Role != model.RoleDoctor {
		return nil, fmt.Errorf("%w: only dietitians and doctors may create diet plans", ErrForbidden)
	}
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: subject user ID is required", ErrInvalidInput)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.CalorieTarget < 0 || input.ProteinTarget < 0 || input.CarbsTarget < 0 || input.FatTarget < 0 {
		return nil, fmt.Errorf("%w: nutrition targets cannot be negative", ErrInvalidInput)
	}

	now := time.Now()
	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = now
	}

	plan := &model.DietPlan{
		ID:              uuid.New().String(),
		UserID:          input.UserID,
		DietitianID:     actor.ID,
		Title:           input.Title,
		Description:     input.Description,
		CalorieTarget:   input.CalorieTarget,
		ProteinTarget:   input.ProteinTarget,
		CarbsTarget:     input.CarbsTarget,
		FatTarget:       input.FatTarget,
		Meals:           input.Meals,
		Recommendations: input.Recommendations,
		Restrictions:    input.Restrictions,
		StartDate:       startDate,
		EndDate:         input.EndDate,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		s.logger.Error("failed to create diet plan", zap.Error(err), zap.String("user_id", input.UserID))
		return nil, fmt.Errorf("failed to create diet plan: %w", err)
	}

	s.notifier.Send(ctx, plan.UserID,
		fmt.Sprintf("A new diet plan %q was created for you", plan.Title),
		model.NotificationTypeInfo)

	s.logger.Info("diet plan created",
		zap.String("plan_id", plan.ID),
		zap.String("user_id", plan.UserID),
		zap.String("dietitian_id", actor.ID),
	)

	return plan, nil
}

// ListPlans returns diet plans within the actor's resolved scope
func (s *DietPlanService) ListPlans(ctx context.Context, actor policy.Actor, requestedOwner string, activeOnly bool) ([]model.DietPlan, error) {
	scope := policy.Resolve(actor, policy.ResourceDietPlan, requestedOwner)
	filter := DietPlanFilter{ActiveOnly: activeOnly}
	switch scope.Kind {
	case policy.ScopeSelf:
		filter.UserID = actor.ID
	case policy.ScopeSpecific:
		filter.UserID = scope.OwnerID
	case policy.ScopeAll:
	default:
		return nil, fmt.Errorf("%w: diet plan access denied", ErrForbidden)
	}

	plans, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list diet plans", zap.Error(err), zap.String("user_id", filter.UserID))
		return nil, fmt.Errorf("failed to list diet plans: %w", err)
	}
	return plans, nil
}

// GetPlan returns one diet plan. The authoring professional, the subject
// user, or an admin may view it.
func (s *DietPlanService) GetPlan(ctx context.Context, actor policy.Actor, planID string) (*model.DietPlan, error) {
	plan, err := s.repo.FindByID(ctx, planID)
	if err != nil {
		s.logger.Error("failed to load diet plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to load diet plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: diet plan %s", ErrNotFound, planID)
	}

	if actor.ID != plan.UserID && !policy.CanMutate(actor, plan.DietitianID) {
		return nil, fmt.Errorf("%w: diet plan %s is not visible to actor", ErrForbidden, planID)
	}
	return plan, nil
}

// UpdateDietPlanInput carries the editable diet plan fields. Nil pointers
// leave the stored value untouched.
type UpdateDietPlanInput struct {
	Title           *string
	Description     *string
	CalorieTarget   *float64
	ProteinTarget   *float64
	CarbsTarget     *float64
	FatTarget       *float64
	Meals           *model.DietPlanMeals
	Recommendations []string
	Restrictions    []string
	EndDate         *time.Time
	IsActive        *bool
}

// UpdatePlan applies field edits. Only the authoring professional or an
// admin may edit a plan.
func (s *DietPlanService) UpdatePlan(ctx context.Context, actor policy.Actor, planID string, input UpdateDietPlanInput) (*model.DietPlan, error) {
	plan, err := s.fetchAuthored(ctx, actor, planID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		plan.Title = *input.Title
	}
	if input.Description != nil {
		plan.Description = input.Description
	}
	if input.CalorieTarget != nil {
		plan.CalorieTarget = *input.CalorieTarget
	}
	if input.ProteinTarget != nil {
		plan.ProteinTarget = *input.ProteinTarget
	}
	if input.CarbsTarget != nil {
		plan.CarbsTarget = *input.CarbsTarget
	}
	if input.FatTarget != nil {
		plan.FatTarget = *input.FatTarget
	}
	if input.Meals != nil {
		plan.Meals = *input.Meals
	}
	if input.Recommendations != nil {
		plan.Recommendations = input.Recommendations
	}
	if input.Restrictions != nil {
		plan.Restrictions = input.Restrictions
	}
	if input.EndDate != nil {
		plan.EndDate = input.EndDate
	}
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}
	plan.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, plan); err != nil {
		s.logger.Error("failed to update diet plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to update diet plan: %w", err)
	}

	return plan, nil
}

// DeletePlan removes a diet plan. Only the authoring professional or an
// admin may delete.
func (s *DietPlanService) DeletePlan(ctx context.Context, actor policy.Actor, planID string) error {
	plan, err := s.fetchAuthored(ctx, actor, planID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, plan.ID); err != nil {
		s.logger.Error("failed to delete diet plan", zap.Error(err), zap.String("plan_id", planID))
		return fmt.Errorf("failed to delete diet plan: %w", err)
	}

	s.logger.Info("diet plan deleted", zap.String("plan_id", planID), zap.String("user_id", plan.UserID))
	return nil
}

func (s *DietPlanService) fetchAuthored(ctx context.Context, actor policy.Actor, planID string) (*model.DietPlan, error) {
	plan, err := s.repo.FindByID(ctx, planID)
	if err != nil {
		s.logger.Error("failed to load diet plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to load diet plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: diet plan %s", ErrNotFound, planID)
	}
	if !policy.CanMutate(actor, plan.DietitianID) {
		return nil, fmt.Errorf("%w: diet plan %s is not authored by actor", ErrForbidden, planID)
	}
	return plan, nil
}
