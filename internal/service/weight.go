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

// WeightLogRepository defines the persistence operations for weight logs
type WeightLogRepository interface {
	Create(ctx context.Context, log *model.WeightLog) error
	// FindByID returns (nil, nil) when the log does not exist.
	FindByID(ctx context.Context, logID string) (*model.WeightLog, error)
	FindByUser(ctx context.Context, userID string, from, to *time.Time) ([]model.WeightLog, error)
	Delete(ctx context.Context, logID string) error
}

// ProfileRepository defines the persistence operations for user profiles
type ProfileRepository interface {
	// FindByUser returns (nil, nil) when no profile exists yet.
	FindByUser(ctx context.Context, userID string) (*model.Profile, error)
	Upsert(ctx context.Context, profile *model.Profile) error
}

// WeightService owns the weight measurement log. Each new measurement is
// mirrored into the profile's current weight.
type WeightService struct {
	repo     WeightLogRepository
	profiles ProfileRepository
	logger   *zap.Logger
}

// NewWeightService creates a new WeightService
func NewWeightService(repo WeightLogRepository, profiles ProfileRepository, logger *zap.Logger) *WeightService {
	return &WeightService{
		repo:     repo,
		profiles: profiles,
		logger:   logger,
	}
}

// LogWeight appends a weight measurement for the actor and mirrors it into
// the profile. A profile write failure does not fail the measurement.
func (s *WeightService) LogWeight(ctx context.Context, actor policy.Actor, weight float64, date time.Time) (*model.WeightLog, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}

	now := time.Now()
	if date.IsZero() {
		date = now
	}

	log := &model.WeightLog{
		ID:        uuid.New().String(),
		UserID:    actor.ID,
		Weight:    weight,
		Date:      date,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error("failed to log weight", zap.Error(err), zap.String("user_id", actor.ID))
		return nil, fmt.Errorf("failed to log weight: %w", err)
	}

	s.mirrorToProfile(ctx, actor.ID, weight, now)

	s.logger.Info("weight logged",
		zap.String("log_id", log.ID),
		zap.String("user_id", actor.ID),
		zap.Float64("weight", weight),
	)

	return log, nil
}

// ListWeights returns weight measurements within the actor's resolved scope,
// newest first
func (s *WeightService) ListWeights(ctx context.Context, actor policy.Actor, requestedOwner string, from, to *time.Time) ([]model.WeightLog, error) {
	scope := policy.Resolve(actor, policy.ResourceWeightLog, requestedOwner)
	userID := actor.ID
	switch scope.Kind {
	case policy.ScopeSelf:
	case policy.ScopeSpecific:
		userID = scope.OwnerID
	default:
		return nil, fmt.Errorf("%w: weight log access denied", ErrForbidden)
	}

	logs, err := s.repo.FindByUser(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("failed to list weight logs", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list weight logs: %w", err)
	}
	return logs, nil
}

// DeleteWeight removes one measurement. Only the owner or an admin may
// delete. The profile mirror is left as-is.
func (s *WeightService) DeleteWeight(ctx context.Context, actor policy.Actor, logID string) error {
	log, err := s.repo.FindByID(ctx, logID)
	if err != nil {
		s.logger.Error("failed to load weight log", zap.Error(err), zap.String("log_id", logID))
		return fmt.Errorf("failed to load weight log: %w", err)
	}
	if log == nil {
		return fmt.Errorf("%w: weight log %s", ErrNotFound, logID)
	}
	if !policy.CanMutate(actor, log.UserID) {
		return fmt.Errorf("%w: weight log %s is not owned by actor", ErrForbidden, logID)
	}

	if err := s.repo.Delete(ctx, logID); err != nil {
		s.logger.Error("failed to delete weight log", zap.Error(err), zap.String("log_id", logID))
		return fmt.Errorf("failed to delete weight log: %w", err)
	}

	return nil
}

// mirrorToProfile copies the latest measurement into the profile's weight
// field, best effort
func (s *WeightService) mirrorToProfile(ctx context.Context, userID string, weight float64, now time.Time) {
	profile, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load profile for weight mirror", zap.Error(err), zap.String("user_id", userID))
		return
	}
	if profile == nil {
		profile = &model.Profile{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: now,
		}
	}
	profile.Weight = &weight
	profile.UpdatedAt = now

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.logger.Warn("failed to mirror weight into profile", zap.Error(err), zap.String("user_id", userID))
	}
}
