package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fitlife-app/backend/internal/policy"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MealFilter narrows a meal query. UserID is empty for an unrestricted scope.
type MealFilter struct {
	UserID   string
	MealType *model.MealType
	From     *time.Time
	To       *time.Time
}

// MealRepository defines the persistence operations for meal logs
type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) error
	// FindByID returns (nil, nil) when the meal does not exist.
	FindByID(ctx context.Context, mealID string) (*model.Meal, error)
	Find(ctx context.Context, filter MealFilter) ([]model.Meal, error)
	Update(ctx context.Context, meal *model.Meal) error
	Delete(ctx context.Context, mealID string) error
}

// MealService owns the nutrition log
type MealService struct {
	repo   MealRepository
	logger *zap.Logger
}

// NewMealService creates a new MealService
func NewMealService(repo MealRepository, logger *zap.Logger) *MealService {
	return &MealService{
		repo:   repo,
		logger: logger,
	}
}

// CreateMealInput carries the caller-supplied fields for a new meal entry
type CreateMealInput struct {
	Name     string
	MealType model.MealType
	Calories float64
	Protein  float64
	Carbs    float64
	Fats     float64
	Date     time.Time
	Notes    *string
}

func validMealType(t model.MealType) bool {
	switch t {
	case model.MealTypeBreakfast, model.MealTypeLunch, model.MealTypeDinner, model.MealTypeSnack:
		return true
	}
	return false
}

// LogMeal appends one meal entry for the actor
func (s *MealService) LogMeal(ctx context.Context, actor policy.Actor, input CreateMealInput) (*model.Meal, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: meal name is required", ErrInvalidInput)
	}
	if !validMealType(input.MealType) {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrInvalidInput, input.MealType)
	}
	if input.Calories < 0 || input.Protein < 0 || input.Carbs < 0 || input.Fats < 0 {
		return nil, fmt.Errorf("%w: nutrition values cannot be negative", ErrInvalidInput)
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	meal := &model.Meal{
		ID:        uuid.New().String(),
		UserID:    actor.ID,
		Name:      input.Name,
		MealType:  input.MealType,
		Calories:  input.Calories,
		Protein:   input.Protein,
		Carbs:     input.Carbs,
		Fats:      input.Fats,
		Date:      date,
		Notes:     input.Notes,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, meal); err != nil {
		s.logger.Error("failed to log meal", zap.Error(err), zap.String("user_id", actor.ID))
		return nil, fmt.Errorf("failed to log meal: %w", err)
	}

	s.logger.Info("meal logged",
		zap.String("meal_id", meal.ID),
		zap.String("user_id", actor.ID),
		zap.String("meal_type", string(meal.MealType)),
	)

	return meal, nil
}

// ListMeals returns meal entries within the actor's resolved scope,
// optionally filtered by slot and date range
func (s *MealService) ListMeals(ctx context.Context, actor policy.Actor, requestedOwner string, mealType *model.MealType, from, to *time.Time) ([]model.Meal, error) {
	if mealType != nil && !validMealType(*mealType) {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrInvalidInput, *mealType)
	}

	scope := policy.Resolve(actor, policy.ResourceMeal, requestedOwner)
	filter := MealFilter{
		MealType: mealType,
		From:     from,
		To:       to,
	}
	switch scope.Kind {
	case policy.ScopeSelf:
		filter.UserID = actor.ID
	case policy.ScopeSpecific:
		filter.UserID = scope.OwnerID
	case policy.ScopeAll:
	default:
		return nil, fmt.Errorf("%w: meal access denied", ErrForbidden)
	}

	meals, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list meals", zap.Error(err), zap.String("user_id", filter.UserID))
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

// UpdateMealInput carries the editable meal fields. Nil pointers leave the
// stored value untouched.
type UpdateMealInput struct {
	Name     *string
	MealType *model.MealType
	Calories *float64
	Protein  *float64
	Carbs    *float64
	Fats     *float64
	Date     *time.Time
	Notes    *string
}

// UpdateMeal applies field edits to one of the actor's meal entries
func (s *MealService) UpdateMeal(ctx context.Context, actor policy.Actor, mealID string, input UpdateMealInput) (*model.Meal, error) {
	if input.MealType != nil && !validMealType(*input.MealType) {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrInvalidInput, *input.MealType)
	}

	meal, err := s.fetchOwnedMeal(ctx, actor, mealID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		meal.Name = *input.Name
	}
	if input.MealType != nil {
		meal.MealType = *input.MealType
	}
	if input.Calories != nil {
		meal.Calories = *input.Calories
	}
	if input.Protein != nil {
		meal.Protein = *input.Protein
	}
	if input.Carbs != nil {
		meal.Carbs = *input.Carbs
	}
	if input.Fats != nil {
		meal.Fats = *input.Fats
	}
	if input.Date != nil {
		meal.Date = *input.Date
	}
	if input.Notes != nil {
		meal.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, meal); err != nil {
		s.logger.Error("failed to update meal", zap.Error(err), zap.String("meal_id", mealID))
		return nil, fmt.Errorf("failed to update meal: %w", err)
	}

	return meal, nil
}

// DeleteMeal removes one of the actor's meal entries
func (s *MealService) DeleteMeal(ctx context.Context, actor policy.Actor, mealID string) error {
	meal, err := s.fetchOwnedMeal(ctx, actor, mealID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, meal.ID); err != nil {
		s.logger.Error("failed to delete meal", zap.Error(err), zap.String("meal_id", mealID))
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	s.logger.Info("meal deleted", zap.String("meal_id", mealID), zap.String("user_id", meal.UserID))
	return nil
}

func (s *MealService) fetchOwnedMeal(ctx context.Context, actor policy.Actor, mealID string) (*model.Meal, error) {
	meal, err := s.repo.FindByID(ctx, mealID)
	if err != nil {
		s.logger.Error("failed to load meal", zap.Error(err), zap.String("meal_id", mealID))
		return nil, fmt.Errorf("failed to load meal: %w", err)
	}
	if meal == nil {
		return nil, fmt.Errorf("%w: meal %s", ErrNotFound, mealID)
	}
	if !policy.CanMutate(actor, meal.UserID) {
		return nil, fmt.Errorf("%w: meal %s is not owned by actor", ErrForbidden, mealID)
	}
	return meal, nil
}
