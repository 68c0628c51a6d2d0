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

// ActivityFilter narrows an activity query. UserID is empty for an
// unrestricted scope.
type ActivityFilter struct {
	UserID       string
	ActivityType *model.ActivityType
	From         *time.Time
	To           *time.Time
	Limit        int
}

// ActivityRepository defines the persistence operations for activity logs
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	// FindByID returns (nil, nil) when the activity does not exist.
	FindByID(ctx context.Context, activityID string) (*model.Activity, error)
	FindByUser(ctx context.Context, filter ActivityFilter) ([]model.Activity, error)
	Delete(ctx context.Context, activityID string) error
}

// ActivityService owns the append-only activity log. Records are immutable
// once written; corrections are delete-and-recreate.
type ActivityService struct {
	repo   ActivityRepository
	logger *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		repo:   repo,
		logger: logger,
	}
}

// CreateActivityInput carries the caller-supplied fields for a new activity
// record
type CreateActivityInput struct {
	ActivityType   model.ActivityType
	Date           time.Time
	Steps          *int
	Distance       *float64
	Duration       *float64
	CaloriesBurned *int
	WorkoutType    *string
	Intensity      *string
	SleepQuality   *string
	HeartRateAvg   *int
	HeartRateMax   *int
	Notes          *string
}

// LogActivity appends one activity record for the actor. Missing calories
// are filled from the type-specific estimate before the record is persisted,
// so the stored row is always complete.
func (s *ActivityService) LogActivity(ctx context.Context, actor policy.Actor, input CreateActivityInput) (*model.Activity, error) {
	if !model.ValidActivityTypes[input.ActivityType] {
		return nil, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, input.ActivityType)
	}
	if input.Steps != nil && *input.Steps < 0 {
		return nil, fmt.Errorf("%w: steps cannot be negative", ErrInvalidInput)
	}
	if input.Duration != nil && *input.Duration < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	}
	if input.Distance != nil && *input.Distance < 0 {
		return nil, fmt.Errorf("%w: distance cannot be negative", ErrInvalidInput)
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	activity := &model.Activity{
		ID:             uuid.New().String(),
		UserID:         actor.ID,
		ActivityType:   input.ActivityType,
		Date:           date,
		Steps:          input.Steps,
		Distance:       input.Distance,
		Duration:       input.Duration,
		CaloriesBurned: input.CaloriesBurned,
		WorkoutType:    input.WorkoutType,
		Intensity:      input.Intensity,
		SleepQuality:   input.SleepQuality,
		HeartRateAvg:   input.HeartRateAvg,
		HeartRateMax:   input.HeartRateMax,
		Notes:          input.Notes,
		CreatedAt:      now,
	}

	if activity.CaloriesBurned == nil {
		calories := EstimateCalories(*activity)
		activity.CaloriesBurned = &calories
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		s.logger.Error("failed to log activity",
			zap.Error(err),
			zap.String("user_id", actor.ID),
			zap.String("activity_type", string(input.ActivityType)),
		)
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}

	s.logger.Info("activity logged",
		zap.String("activity_id", activity.ID),
		zap.String("user_id", actor.ID),
		zap.String("activity_type", string(activity.ActivityType)),
		zap.Int("calories_burned", *activity.CaloriesBurned),
	)

	return activity, nil
}

// ListActivities returns activity records within the actor's resolved scope,
// optionally filtered by type and date range
func (s *ActivityService) ListActivities(ctx context.Context, actor policy.Actor, requestedOwner string, activityType *model.ActivityType, from, to *time.Time) ([]model.Activity, error) {
	if activityType != nil && !model.ValidActivityTypes[*activityType] {
		return nil, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, *activityType)
	}

	scope := policy.Resolve(actor, policy.ResourceActivity, requestedOwner)
	filter := ActivityFilter{
		ActivityType: activityType,
		From:         from,
		To:           to,
	}
	switch scope.Kind {
	case policy.ScopeSelf:
		filter.UserID = actor.ID
	case policy.ScopeSpecific:
		filter.UserID = scope.OwnerID
	case policy.ScopeAll:
	default:
		return nil, fmt.Errorf("%w: activity access denied", ErrForbidden)
	}

	activities, err := s.repo.FindByUser(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list activities", zap.Error(err), zap.String("user_id", filter.UserID))
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// DeleteActivity removes one record. Only the owner or an admin may delete.
func (s *ActivityService) DeleteActivity(ctx context.Context, actor policy.Actor, activityID string) error {
	activity, err := s.repo.FindByID(ctx, activityID)
	if err != nil {
		s.logger.Error("failed to load activity", zap.Error(err), zap.String("activity_id", activityID))
		return fmt.Errorf("failed to load activity: %w", err)
	}
	if activity == nil {
		return fmt.Errorf("%w: activity %s", ErrNotFound, activityID)
	}
	if !policy.CanMutate(actor, activity.UserID) {
		return fmt.Errorf("%w: activity %s is not owned by actor", ErrForbidden, activityID)
	}

	if err := s.repo.Delete(ctx, activityID); err != nil {
		s.logger.Error("failed to delete activity", zap.Error(err), zap.String("activity_id", activityID))
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	s.logger.Info("activity deleted", zap.String("activity_id", activityID), zap.String("user_id", activity.UserID))
	return nil
}
