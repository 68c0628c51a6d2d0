package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// GoalRepository manages goal persistence
type GoalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *pgxpool.Pool, logger *zap.Logger) *GoalRepository {
	return &GoalRepository{
		db:     db,
		logger: logger,
	}
}

const goalColumns = `
	id, user_id, goal_type, target_value, current_value,
	period, deadline, description, priority, unit,
	is_active, is_achieved, achieved_at, created_at, updated_at
`

func scanGoal(row pgx.Row) (*model.Goal, error) {
	var goal model.Goal
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.GoalType,
		&goal.TargetValue,
		&goal.CurrentValue,
		&goal.Period,
		&goal.Deadline,
		&goal.Description,
		&goal.Priority,
		&goal.Unit,
		&goal.IsActive,
		&goal.IsAchieved,
		&goal.AchievedAt,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// Create inserts the goal after retiring any active goal of the same
// (user, type). Both writes run in one transaction; a partial unique index
// on (user_id, goal_type) WHERE is_active backstops concurrent creates.
func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error("failed to begin goal create transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	retire := `
		UPDATE goals
		SET is_active = FALSE, updated_at = $3
		WHERE user_id = $1 AND goal_type = $2 AND is_active = TRUE
	`
	if _, err := tx.Exec(ctx, retire, goal.UserID, goal.GoalType, goal.UpdatedAt); err != nil {
		r.logger.Error("failed to retire previous goal",
			zap.Error(err),
			zap.String("user_id", goal.UserID),
			zap.String("goal_type", string(goal.GoalType)),
		)
		return fmt.Errorf("failed to retire previous goal: %w", err)
	}

	insert := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = tx.Exec(ctx, insert,
		goal.ID,
		goal.UserID,
		goal.GoalType,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Period,
		goal.Deadline,
		goal.Description,
		goal.Priority,
		goal.Unit,
		goal.IsActive,
		goal.IsAchieved,
		goal.AchievedAt,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert goal",
			zap.Error(err),
			zap.String("goal_id", goal.ID),
			zap.String("user_id", goal.UserID),
		)
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("failed to commit goal create", zap.Error(err), zap.String("goal_id", goal.ID))
		return fmt.Errorf("failed to commit goal create: %w", err)
	}

	return nil
}

// FindByID retrieves a goal by ID, returning (nil, nil) when absent
func (r *GoalRepository) FindByID(ctx context.Context, goalID string) (*model.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	goal, err := scanGoal(r.db.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get goal", zap.Error(err), zap.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

// FindActiveByUser retrieves a user's active goals, newest first
func (r *GoalRepository) FindActiveByUser(ctx context.Context, userID string) ([]model.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`
	return r.queryGoals(ctx, query, userID)
}

// FindAchievedByUser retrieves a user's achieved goals, most recently
// achieved first
func (r *GoalRepository) FindAchievedByUser(ctx context.Context, userID string) ([]model.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1 AND is_achieved = TRUE
		ORDER BY achieved_at DESC
	`
	return r.queryGoals(ctx, query, userID)
}

func (r *GoalRepository) queryGoals(ctx context.Context, query string, args ...any) ([]model.Goal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query goals", zap.Error(err))
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			r.logger.Error("failed to scan goal", zap.Error(err))
			continue
		}
		goals = append(goals, *goal)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating goals", zap.Error(err))
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// SaveProgress persists the current value and achievement state
func (r *GoalRepository) SaveProgress(ctx context.Context, goal *model.Goal) error {
	query := `
		UPDATE goals
		SET current_value = $2, is_achieved = $3, achieved_at = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		goal.ID,
		goal.CurrentValue,
		goal.IsAchieved,
		goal.AchievedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to save goal progress", zap.Error(err), zap.String("goal_id", goal.ID))
		return fmt.Errorf("failed to save goal progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("goal not found: %s", goal.ID)
	}

	return nil
}

// IncrementProgress adds delta to the stored current value and applies the
// achievement transition in a single statement, so concurrent increments
// serialize on the row and no update is lost. The WHERE clause rejects a
// delta that would drive the value negative against the value the row holds
// at execution time, not the value the caller last read, so racing
// decrements cannot push the stored value below zero. Returns (nil, nil)
// when the goal does not exist.
func (r *GoalRepository) IncrementProgress(ctx context.Context, goalID string, delta float64, now time.Time) (*model.Goal, error) {
	query := `
		UPDATE goals
		SET current_value = current_value + $2,
			achieved_at = CASE
				WHEN current_value + $2 >= target_value AND is_achieved = FALSE THEN $3
				ELSE achieved_at
			END,
			is_achieved = CASE
				WHEN current_value + $2 >= target_value THEN TRUE
				ELSE is_achieved
			END,
			updated_at = $3
		WHERE id = $1 AND current_value + $2 >= 0
		RETURNING ` + goalColumns

	goal, err := scanGoal(r.db.QueryRow(ctx, query, goalID, delta, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, findErr := r.FindByID(ctx, goalID)
			if findErr != nil {
				return nil, findErr
			}
			if existing == nil {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: progress value cannot be negative", service.ErrInvalidInput)
		}
		r.logger.Error("failed to increment goal progress", zap.Error(err), zap.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to increment goal progress: %w", err)
	}
	return goal, nil
}

// Retire marks a goal inactive
func (r *GoalRepository) Retire(ctx context.Context, goalID string) error {
	query := `UPDATE goals SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, goalID)
	if err != nil {
		r.logger.Error("failed to retire goal", zap.Error(err), zap.String("goal_id", goalID))
		return fmt.Errorf("failed to retire goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("goal not found: %s", goalID)
	}

	return nil
}

// Update persists the editable goal fields. Progress and achievement fields
// are not touched here.
func (r *GoalRepository) Update(ctx context.Context, goal *model.Goal) error {
	query := `
		UPDATE goals
		SET target_value = $2, period = $3, deadline = $4, description = $5,
			priority = $6, unit = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		goal.ID,
		goal.TargetValue,
		goal.Period,
		goal.Deadline,
		goal.Description,
		goal.Priority,
		goal.Unit,
		goal.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update goal", zap.Error(err), zap.String("goal_id", goal.ID))
		return fmt.Errorf("failed to update goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("goal not found: %s", goal.ID)
	}

	return nil
}
