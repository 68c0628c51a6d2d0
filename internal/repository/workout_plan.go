package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitlife-app/backend/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// WorkoutPlanRepository manages workout plan persistence. Exercises are
// stored as JSONB; assigned users as a text array.
type WorkoutPlanRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewWorkoutPlanRepository creates a new WorkoutPlanRepository
func NewWorkoutPlanRepository(db *pgxpool.Pool, logger *zap.Logger) *WorkoutPlanRepository {
	return &WorkoutPlanRepository{
		db:     db,
		logger: logger,
	}
}

const workoutPlanColumns = `
	id, trainer_id, title, description, exercises, difficulty,
	duration, assigned_users, is_active, created_at, updated_at
`

func scanWorkoutPlan(row pgx.Row) (*model.WorkoutPlan, error) {
	var plan model.WorkoutPlan
	err := row.Scan(
		&plan.ID,
		&plan.TrainerID,
		&plan.Title,
		&plan.Description,
		&plan.Exercises,
		&plan.Difficulty,
		&plan.Duration,
		&plan.AssignedUsers,
		&plan.IsActive,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Create inserts a workout plan
func (r *WorkoutPlanRepository) Create(ctx context.Context, plan *model.WorkoutPlan) error {
	query := `
		INSERT INTO workout_plans (` + workoutPlanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		plan.ID,
		plan.TrainerID,
		plan.Title,
		plan.Description,
		plan.Exercises,
		plan.Difficulty,
		plan.Duration,
		plan.AssignedUsers,
		plan.IsActive,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert workout plan",
			zap.Error(err),
			zap.String("plan_id", plan.ID),
			zap.String("trainer_id", plan.TrainerID),
		)
		return fmt.Errorf("failed to insert workout plan: %w", err)
	}

	return nil
}

// FindByID retrieves a workout plan by ID, returning (nil, nil) when absent
func (r *WorkoutPlanRepository) FindByID(ctx context.Context, planID string) (*model.WorkoutPlan, error) {
	query := `SELECT ` + workoutPlanColumns + ` FROM workout_plans WHERE id = $1`

	plan, err := scanWorkoutPlan(r.db.QueryRow(ctx, query, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get workout plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to get workout plan: %w", err)
	}
	return plan, nil
}

// FindByTrainer retrieves the plans a trainer authored, newest first
func (r *WorkoutPlanRepository) FindByTrainer(ctx context.Context, trainerID string) ([]model.WorkoutPlan, error) {
	query := `
		SELECT ` + workoutPlanColumns + `
		FROM workout_plans
		WHERE trainer_id = $1
		ORDER BY created_at DESC
	`
	return r.queryWorkoutPlans(ctx, query, trainerID)
}

// FindAssignedTo retrieves the plans a user is assigned to, newest first
func (r *WorkoutPlanRepository) FindAssignedTo(ctx context.Context, userID string) ([]model.WorkoutPlan, error) {
	query := `
		SELECT ` + workoutPlanColumns + `
		FROM workout_plans
		WHERE $1 = ANY(assigned_users)
		ORDER BY created_at DESC
	`
	return r.queryWorkoutPlans(ctx, query, userID)
}

// FindAll retrieves every workout plan, newest first
func (r *WorkoutPlanRepository) FindAll(ctx context.Context) ([]model.WorkoutPlan, error) {
	query := `SELECT ` + workoutPlanColumns + ` FROM workout_plans ORDER BY created_at DESC`
	return r.queryWorkoutPlans(ctx, query)
}

func (r *WorkoutPlanRepository) queryWorkoutPlans(ctx context.Context, query string, args ...any) ([]model.WorkoutPlan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query workout plans", zap.Error(err))
		return nil, fmt.Errorf("failed to query workout plans: %w", err)
	}
	defer rows.Close()

	var plans []model.WorkoutPlan
	for rows.Next() {
		plan, err := scanWorkoutPlan(rows)
		if err != nil {
			r.logger.Error("failed to scan workout plan", zap.Error(err))
			continue
		}
		plans = append(plans, *plan)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating workout plans", zap.Error(err))
		return nil, fmt.Errorf("error iterating workout plans: %w", err)
	}

	return plans, nil
}

// Update persists a workout plan's editable fields, the assignment list
// included
func (r *WorkoutPlanRepository) Update(ctx context.Context, plan *model.WorkoutPlan) error {
	query := `
		UPDATE workout_plans
		SET title = $2, description = $3, exercises = $4, difficulty = $5,
			duration = $6, assigned_users = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		plan.ID,
		plan.Title,
		plan.Description,
		plan.Exercises,
		plan.Difficulty,
		plan.Duration,
		plan.AssignedUsers,
		plan.IsActive,
		plan.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update workout plan", zap.Error(err), zap.String("plan_id", plan.ID))
		return fmt.Errorf("failed to update workout plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout plan not found: %s", plan.ID)
	}

	return nil
}

// Delete removes a workout plan
func (r *WorkoutPlanRepository) Delete(ctx context.Context, planID string) error {
	query := `DELETE FROM workout_plans WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, planID)
	if err != nil {
		r.logger.Error("failed to delete workout plan", zap.Error(err), zap.String("plan_id", planID))
		return fmt.Errorf("failed to delete workout plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout plan not found: %s", planID)
	}

	return nil
}
