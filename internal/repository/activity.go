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

// ActivityRepository manages activity log persistence
type ActivityRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *pgxpool.Pool, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

const activityColumns = `
	id, user_id, activity_type, date, steps, distance, duration,
	calories_burned, workout_type, intensity, heart_rate_avg, heart_rate_max,
	sleep_quality, notes, created_at
`

func scanActivity(row pgx.Row) (*model.Activity, error) {
	var a model.Activity
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.ActivityType,
		&a.Date,
		&a.Steps,
		&a.Distance,
		&a.Duration,
		&a.CaloriesBurned,
		&a.WorkoutType,
		&a.Intensity,
		&a.HeartRateAvg,
		&a.HeartRateMax,
		&a.SleepQuality,
		&a.Notes,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an activity record
func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	query := `
		INSERT INTO activities (` + activityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		activity.ID,
		activity.UserID,
		activity.ActivityType,
		activity.Date,
		activity.Steps,
		activity.Distance,
		activity.Duration,
		activity.CaloriesBurned,
		activity.WorkoutType,
		activity.Intensity,
		activity.HeartRateAvg,
		activity.HeartRateMax,
		activity.SleepQuality,
		activity.Notes,
		activity.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert activity",
			zap.Error(err),
			zap.String("activity_id", activity.ID),
			zap.String("user_id", activity.UserID),
		)
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}

// FindByID retrieves an activity by ID, returning (nil, nil) when absent
func (r *ActivityRepository) FindByID(ctx context.Context, activityID string) (*model.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	activity, err := scanActivity(r.db.QueryRow(ctx, query, activityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get activity", zap.Error(err), zap.String("activity_id", activityID))
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return activity, nil
}

// FindByUser retrieves activity records matching the filter, newest first.
// An empty filter user ID applies no owner restriction.
func (r *ActivityRepository) FindByUser(ctx context.Context, filter service.ActivityFilter) ([]model.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if filter.ActivityType != nil {
		args = append(args, *filter.ActivityType)
		query += ` AND activity_type = $` + strconv.Itoa(len(args))
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
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query activities", zap.Error(err), zap.String("user_id", filter.UserID))
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			r.logger.Error("failed to scan activity", zap.Error(err))
			continue
		}
		activities = append(activities, *activity)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating activities", zap.Error(err))
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}

// Delete removes an activity record
func (r *ActivityRepository) Delete(ctx context.Context, activityID string) error {
	query := `DELETE FROM activities WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, activityID)
	if err != nil {
		r.logger.Error("failed to delete activity", zap.Error(err), zap.String("activity_id", activityID))
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity not found: %s", activityID)
	}

	return nil
}
