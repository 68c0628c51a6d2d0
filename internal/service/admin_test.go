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

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Find(ctx context.Context, role *model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, userID string, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestAdminService_GetUser(t *testing.T) {
	// Arrange
	mockUsers := new(MockUserRepository)
	service := NewAdminService(mockUsers, nil, nil, zap.NewNop())

	ctx := context.Background()
	admin := policy.Actor{ID: "admin-1", Role: model.RoleAdmin}

	user := &model.User{
		ID:       "user-1",
		Name:     "Anna",
		Email:    "anna@example.com",
		Role:     model.RoleUser,
		IsActive: true,
	}
	mockUsers.On("FindByID", ctx, "user-1").Return(user, nil)

	// Act
	got, err := service.GetUser(ctx, admin, "user-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, model.RoleUser, got.Role)
	mockUsers.AssertExpectations(t)
}

func TestAdminService_GetUser_RequiresAdmin(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := NewAdminService(mockUsers, nil, nil, zap.NewNop())

	ctx := context.Background()
	for _, role := range []model.Role{model.RoleUser, model.RoleTrainer, model.RoleDoctor, model.RoleDietitian} {
		actor := policy.Actor{ID: "actor-1", Role: role}
		_, err := service.GetUser(ctx, actor, "user-1")
		assert.ErrorIs(t, err, ErrForbidden, "role %s must not read the directory", role)
	}

	mockUsers.AssertNotCalled(t, "FindByID")
}

func TestAdminService_GetUser_NotFound(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := NewAdminService(mockUsers, nil, nil, zap.NewNop())

	ctx := context.Background()
	admin := policy.Actor{ID: "admin-1", Role: model.RoleAdmin}
	mockUsers.On("FindByID", ctx, "missing").Return(nil, nil)

	_, err := service.GetUser(ctx, admin, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
