package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fitlife-app/backend/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// WeightLogRepository manages weight measurement persistence
type WeightLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewWeightLogRepository creates a new WeightLogRepository
func NewWeightLogRepository(db *pgxpool.Pool, logger *zap.Logger) *WeightLogRepository {
	return &WeightLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a weight measurement
func (r *WeightLogRepository) Create(ctx context.Context, log *model.WeightLog) error {
	query := `
		INSERT INTO weight_logs (id, user_id, weight, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, log.ID, log.UserID, log.Weight, log.Date, log.CreatedAt)
	if err != nil {
		r.logger.Error("failed to insert weight log",
			zap.Error(err),
			zap.String("log_id", log.ID),
			zap.String("user_id", log.UserID),
		)
		return fmt.Errorf("failed to insert weight log: %w", err)
	}

	return nil
}

// FindByID retrieves a weight log by ID, returning (nil, nil) when absent
func (r *WeightLogRepository) FindByID(ctx context.Context, logID string) (*model.WeightLog, error) {
	query := `SELECT id, user_id, weight, date, created_at FROM weight_logs WHERE id = $1`

	var log model.WeightLog
	err := r.db.QueryRow(ctx, query, logID).Scan(&log.ID, &log.UserID, &log.Weight, &log.Date, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get weight log", zap.Error(err), zap.String("log_id", logID))
		return nil, fmt.Errorf("failed to get weight log: %w", err)
	}
	return &log, nil
}

// FindByUser retrieves a user's weight measurements, newest first
func (r *WeightLogRepository) FindByUser(ctx context.Context, userID string, from, to *time.Time) ([]model.WeightLog, error) {
	query := `SELECT id, user_id, weight, date, created_at FROM weight_logs WHERE user_id = $1`
	args := []any{userID}

	if from != nil {
		args = append(args, *from)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY date DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query weight logs", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to query weight logs: %w", err)
	}
	defer rows.Close()

	var logs []model.WeightLog
	for rows.Next() {
		var log model.WeightLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.Weight, &log.Date, &log.CreatedAt); err != nil {
			r.logger.Error("failed to scan weight log", zap.Error(err))
			continue
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating weight logs", zap.Error(err))
		return nil, fmt.Errorf("error iterating weight logs: %w", err)
	}

	return logs, nil
}

// Delete removes a weight measurement
func (r *WeightLogRepository) Delete(ctx context.Context, logID string) error {
	query := `DELETE FROM weight_logs WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, logID)
	if err != nil {
		r.logger.Error("failed to delete weight log", zap.Error(err), zap.String("log_id", logID))
		return fmt.Errorf("failed to delete weight log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("weight log not found: %s", logID)
	}

	return nil
}

// ProfileRepository manages user profile persistence
type ProfileRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// FindByUser retrieves a user's profile, returning (nil, nil) when none
// exists yet
func (r *ProfileRepository) FindByUser(ctx context.Context, userID string) (*model.Profile, error) {
	query := `
		SELECT id, user_id, age, height, weight, gender, bio, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile model.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Age,
		&profile.Height,
		&profile.Weight,
		&profile.Gender,
		&profile.Bio,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get profile", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// Upsert inserts or replaces a user's profile, keyed on user_id
func (r *ProfileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, age, height, weight, gender, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE
		SET age = EXCLUDED.age, height = EXCLUDED.height, weight = EXCLUDED.weight,
			gender = EXCLUDED.gender, bio = EXCLUDED.bio, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Age,
		profile.Height,
		profile.Weight,
		profile.Gender,
		profile.Bio,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to upsert profile", zap.Error(err), zap.String("user_id", profile.UserID))
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}
