package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// UserRepository manages user account persistence
type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, name, email, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a user account
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert user", zap.Error(err), zap.String("user_id", user.ID))
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by ID, returning (nil, nil) when absent
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by email, returning (nil, nil) when absent
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// Find retrieves users, optionally restricted to one role, newest first
func (r *UserRepository) Find(ctx context.Context, role *model.Role) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any

	if role != nil {
		args = append(args, *role)
		query += ` WHERE role = $1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("failed to scan user", zap.Error(err))
			continue
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating users", zap.Error(err))
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// SetActive flips a user's active flag
func (r *UserRepository) SetActive(ctx context.Context, userID string, active bool) error {
	query := `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, userID, active)
	if err != nil {
		r.logger.Error("failed to set user status", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to set user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}

	return nil
}

// Delete removes a user account
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}

	return nil
}

// SystemStats computes the aggregate counters for the admin dashboard
func (r *UserRepository) SystemStats(ctx context.Context) (*service.SystemStats, error) {
	stats := &service.SystemStats{
		UsersByRole: make(map[string]int64),
	}

	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM users GROUP BY role`)
	if err != nil {
		r.logger.Error("failed to count users", zap.Error(err))
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var total, active int64
		if err := rows.Scan(&role, &total, &active); err != nil {
			r.logger.Error("failed to scan user counts", zap.Error(err))
			continue
		}
		stats.UsersByRole[role] = total
		stats.TotalUsers += total
		stats.ActiveUsers += active
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating user counts", zap.Error(err))
		return nil, fmt.Errorf("error iterating user counts: %w", err)
	}

	counts := `
		SELECT
			(SELECT COUNT(*) FROM activities),
			(SELECT COUNT(*) FROM goals),
			(SELECT COUNT(*) FROM goals WHERE is_achieved = TRUE)
	`
	err = r.db.QueryRow(ctx, counts).Scan(&stats.TotalActivities, &stats.TotalGoals, &stats.AchievedGoals)
	if err != nil {
		r.logger.Error("failed to count records", zap.Error(err))
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	return stats, nil
}
