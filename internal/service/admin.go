package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fitlife-app/backend/internal/audit"
	"github.com/fitlife-app/backend/internal/policy"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserRepository defines the persistence operations for user accounts
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// FindByID returns (nil, nil) when the user does not exist.
	FindByID(ctx context.Context, userID string) (*model.User, error)
	// FindByEmail returns (nil, nil) when no account has the email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Find lists users, optionally restricted to one role.
	Find(ctx context.Context, role *model.Role) ([]model.User, error)
	SetActive(ctx context.Context, userID string, active bool) error
	Delete(ctx context.Context, userID string) error
}

// SystemStats are the aggregate counters shown on the admin dashboard
type SystemStats struct {
	TotalUsers      int64            `json:"total_users"`
	ActiveUsers     int64            `json:"active_users"`
	UsersByRole     map[string]int64 `json:"users_by_role"`
	TotalActivities int64            `json:"total_activities"`
	TotalGoals      int64            `json:"total_goals"`
	AchievedGoals   int64            `json:"achieved_goals"`
}

// StatsCounter exposes the aggregate counts the admin dashboard reads
type StatsCounter interface {
	SystemStats(ctx context.Context) (*SystemStats, error)
}

// AdminService owns the user directory and system-wide statistics. Every
// operation requires the admin role.
type AdminService struct {
	users   UserRepository
	counter StatsCounter
	auditor *audit.Logger
	logger  *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(users UserRepository, counter StatsCounter, auditor *audit.Logger, logger *zap.Logger) *AdminService {
	return &AdminService{
		users:   users,
		counter: counter,
		auditor: auditor,
		logger:  logger,
	}
}

func (s *AdminService) requireAdmin(actor policy.Actor) error {
	scope := policy.Resolve(actor, policy.ResourceUserDirectory, "")
	if scope.Kind != policy.ScopeAll {
		return fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	return nil
}

// ListUsers returns the user directory, optionally filtered by role
func (s *AdminService) ListUsers(ctx context.Context, actor policy.Actor, role *model.Role) ([]model.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.users.Find(ctx, role)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns one account from the directory
func (s *AdminService) GetUser(ctx context.Context, actor policy.Actor, userID string) (*model.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return user, nil
}

// ListExperts returns every professional account (trainer, doctor,
// dietitian). Any authenticated actor may browse the expert directory.
func (s *AdminService) ListExperts(ctx context.Context) ([]model.User, error) {
	var experts []model.User
	for _, role := range []model.Role{model.RoleTrainer, model.RoleDoctor, model.RoleDietitian} {
		r := role
		users, err := s.users.Find(ctx, &r)
		if err != nil {
			s.logger.Error("failed to list experts", zap.Error(err), zap.String("role", string(role)))
			return nil, fmt.Errorf("failed to list experts: %w", err)
		}
		experts = append(experts, users...)
	}
	return experts, nil
}

// CreateUserInput carries the fields for an admin-created account
type CreateUserInput struct {
	Name  string
	Email string
	Role  model.Role
}

func validRole(r model.Role) bool {
	switch r {
	case model.RoleUser, model.RoleTrainer, model.RoleDoctor, model.RoleDietitian, model.RoleAdmin:
		return true
	}
	return false
}

// CreateUser creates an account with any role. Duplicate emails are
// rejected.
func (s *AdminService) CreateUser(ctx context.Context, actor policy.Actor, input CreateUserInput) (*model.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if input.Name == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if !validRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}

	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("failed to check email uniqueness", zap.Error(err))
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already in use", ErrInvalidInput)
	}

	now := time.Now()
	user := &model.User{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err), zap.String("email", input.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_ = s.auditor.LogCreate(ctx, actor.ID, audit.ResourceUser, user.ID)

	s.logger.Info("user created",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("created_by", actor.ID),
	)

	return user, nil
}

// SetUserStatus activates or deactivates an account. Admins cannot change
// their own status.
func (s *AdminService) SetUserStatus(ctx context.Context, actor policy.Actor, userID string, active bool) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.ID {
		return fmt.Errorf("%w: cannot change own account status", ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if err := s.users.SetActive(ctx, userID, active); err != nil {
		s.logger.Error("failed to set user status", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to set user status: %w", err)
	}

	_ = s.auditor.Log(ctx, audit.AuditLog{
		UserID:        actor.ID,
		OperationType: audit.OperationUpdate,
		ResourceType:  audit.ResourceUser,
		ResourceID:    userID,
		AdditionalData: map[string]interface{}{
			"is_active": active,
		},
	})

	s.logger.Info("user status changed",
		zap.String("user_id", userID),
		zap.Bool("active", active),
		zap.String("changed_by", actor.ID),
	)
	return nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actor policy.Actor, userID string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.ID {
		return fmt.Errorf("%w: cannot delete own account", ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		s.logger.Error("failed to delete user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	_ = s.auditor.LogDelete(ctx, actor.ID, audit.ResourceUser, userID)

	s.logger.Info("user deleted", zap.String("user_id", userID), zap.String("deleted_by", actor.ID))
	return nil
}

// GetSystemStats returns the aggregate counters for the admin dashboard
func (s *AdminService) GetSystemStats(ctx context.Context, actor policy.Actor) (*SystemStats, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	stats, err := s.counter.SystemStats(ctx)
	if err != nil {
		s.logger.Error("failed to compute system stats", zap.Error(err))
		return nil, fmt.Errorf("failed to compute system stats: %w", err)
	}
	return stats, nil
}
