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

// MealRepository manages meal log persistence
type MealRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewMealRepository creates a new MealRepository
func NewMealRepository(db *pgxpool.Pool, logger *zap.Logger) *MealRepository {
	return &MealRepository{
		db:     db,
		logger: logger,
	}
}

const mealColumns = `
	id, user_id, name, meal_type, calories, protein, carbs, fats,
	date, notes, created_at
`

func scanMeal(row pgx.Row) (*model.Meal, error) {
	var meal model.Meal
	err := row.Scan(
		&meal.ID,
		&meal.UserID,
		&meal.Name,
		&meal.MealType,
		&meal.Calories,
		&meal.Protein,
		&meal.Carbs,
		&meal.Fats,
		&meal.Date,
		&meal.Notes,
		&meal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// Create inserts a meal entry
func (r *MealRepository) Create(ctx context.Context, meal *model.Meal) error {
	query := `
		INSERT INTO meals (` + mealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		meal.ID,
		meal.UserID,
		meal.Name,
		meal.MealType,
		meal.Calories,
		meal.Protein,
		meal.Carbs,
		meal.Fats,
		meal.Date,
		meal.Notes,
		meal.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert meal",
			zap.Error(err),
			zap.String("meal_id", meal.ID),
			zap.String("user_id", meal.UserID),
		)
		return fmt.Errorf("failed to insert meal: %w", err)
	}

	return nil
}

// FindByID retrieves a meal by ID, returning (nil, nil) when absent
func (r *MealRepository) FindByID(ctx context.Context, mealID string) (*model.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id = $1`

	meal, err := scanMeal(r.db.QueryRow(ctx, query, mealID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get meal", zap.Error(err), zap.String("meal_id", mealID))
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return meal, nil
}

// Find retrieves meal entries matching the filter, newest first
func (r *MealRepository) Find(ctx context.Context, filter service.MealFilter) ([]model.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if filter.MealType != nil {
		args = append(args, *filter.MealType)
		query += ` AND meal_type = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY date DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query meals", zap.Error(err), zap.String("user_id", filter.UserID))
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			r.logger.Error("failed to scan meal", zap.Error(err))
			continue
		}
		meals = append(meals, *meal)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating meals", zap.Error(err))
		return nil, fmt.Errorf("error iterating meals: %w", err)
	}

	return meals, nil
}

// Update persists a meal entry's editable fields
func (r *MealRepository) Update(ctx context.Context, meal *model.Meal) error {
	query := `
		UPDATE meals
		SET name = $2, meal_type = $3, calories = $4, protein = $5,
			carbs = $6, fats = $7, date = $8, notes = $9
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		meal.ID,
		meal.Name,
		meal.MealType,
		meal.Calories,
		meal.Protein,
		meal.Carbs,
		meal.Fats,
		meal.Date,
		meal.Notes,
	)
	if err != nil {
		r.logger.Error("failed to update meal", zap.Error(err), zap.String("meal_id", meal.ID))
		return fmt.Errorf("failed to update meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meal not found: %s", meal.ID)
	}

	return nil
}

// Delete removes a meal entry
func (r *MealRepository) Delete(ctx context.Context, mealID string) error {
	query := `DELETE FROM meals WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, mealID)
	if err != nil {
		r.logger.Error("failed to delete meal", zap.Error(err), zap.String("meal_id", mealID))
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meal not found: %s", mealID)
	}

	return nil
}
