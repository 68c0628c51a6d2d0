package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DietPlanRepository manages diet plan persistence. The meals block is
// stored as JSONB; recommendations and restrictions as text arrays.
type DietPlanRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewDietPlanRepository creates a new DietPlanRepository
func NewDietPlanRepository(db *pgxpool.Pool, logger *zap.Logger) *DietPlanRepository {
	return &DietPlanRepository{
		db:     db,
		logger: logger,
	}
}

const dietPlanColumns = `
	id, user_id, dietitian_id, title, description,
	calorie_target, protein_target, carbs_target, fat_target,
	meals, recommendations, restrictions,
	start_date, end_date, is_active, created_at, updated_at
`

func scanDietPlan(row pgx.Row) (*model.DietPlan, error) {
	var plan model.DietPlan
	err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.DietitianID,
		&plan.Title,
		&plan.Description,
		&plan.CalorieTarget,
		&plan.ProteinTarget,
		&plan.CarbsTarget,
		&plan.FatTarget,
		&plan.Meals,
		&plan.Recommendations,
		&plan.Restrictions,
		&plan.StartDate,
		&plan.EndDate,
		&plan.IsActive,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Create inserts a diet plan
func (r *DietPlanRepository) Create(ctx context.Context, plan *model.DietPlan) error {
	query := `
		INSERT INTO diet_plans (` + dietPlanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		plan.ID,
		plan.UserID,
		plan.DietitianID,
		plan.Title,
		plan.Description,
		plan.CalorieTarget,
		plan.ProteinTarget,
		plan.CarbsTarget,
		plan.FatTarget,
		plan.Meals,
		plan.Recommendations,
		plan.Restrictions,
		plan.StartDate,
		plan.EndDate,
		plan.IsActive,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert diet plan",
			zap.Error(err),
			zap.String("plan_id", plan.ID),
			zap.String("user_id", plan.UserID),
		)
		return fmt.Errorf("failed to insert diet plan: %w", err)
	}

	return nil
}

// FindByID retrieves a diet plan by ID, returning (nil, nil) when absent
func (r *DietPlanRepository) FindByID(ctx context.Context, planID string) (*model.DietPlan, error) {
	query := `SELECT ` + dietPlanColumns + ` FROM diet_plans WHERE id = $1`

	plan, err := scanDietPlan(r.db.QueryRow(ctx, query, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get diet plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("failed to get diet plan: %w", err)
	}
	return plan, nil
}

// Find retrieves diet plans matching the filter, newest first
func (r *DietPlanRepository) Find(ctx context.Context, filter service.DietPlanFilter) ([]model.DietPlan, error) {
	query := `SELECT ` + dietPlanColumns + ` FROM diet_plans WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if filter.ActiveOnly {
		query += ` AND is_active = TRUE`
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query diet plans", zap.Error(err), zap.String("user_id", filter.UserID))
		return nil, fmt.Errorf("failed to query diet plans: %w", err)
	}
	defer rows.Close()

	var plans []model.DietPlan
	for rows.Next() {
		plan, err := scanDietPlan(rows)
		if err != nil {
			r.logger.Error("failed to scan diet plan", zap.Error(err))
			continue
		}
		plans = append(plans, *plan)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating diet plans", zap.Error(err))
		return nil, fmt.Errorf("error iterating diet plans: %w", err)
	}

	return plans, nil
}

// Update persists a diet plan's editable fields
func (r *DietPlanRepository) Update(ctx context.Context, plan *model.DietPlan) error {
	query := `
		UPDATE diet_plans
		SET title = $2, description = $3,
			calorie_target = $4, protein_target = $5, carbs_target = $6, fat_target = $7,
			meals = $8, recommendations = $9, restrictions = $10,
			end_date = $11, is_active = $12, updated_at = $13
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		plan.ID,
		plan.Title,
		plan.Description,
		plan.CalorieTarget,
		plan.ProteinTarget,
		plan.CarbsTarget,
		plan.FatTarget,
		plan.Meals,
		plan.Recommendations,
		plan.Restrictions,
		plan.EndDate,
		plan.IsActive,
		plan.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update diet plan", zap.Error(err), zap.String("plan_id", plan.ID))
		return fmt.Errorf("failed to update diet plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("diet plan not found: %s", plan.ID)
	}

	return nil
}

// Delete removes a diet plan
func (r *DietPlanRepository) Delete(ctx context.Context, planID string) error {
	query := `DELETE FROM diet_plans WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, planID)
	if err != nil {
		r.logger.Error("failed to delete diet plan", zap.Error(err), zap.String("plan_id", planID))
		return fmt.Errorf("failed to delete diet plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("diet plan not found: %s", planID)
	}

	return nil
}
