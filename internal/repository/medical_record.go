package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fitlife-app/backend/internal/security"
	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// MedicalRecordRepository manages medical record persistence. The vitals
// block is stored as JSONB; diagnosis, treatment and prescription are
// encrypted at rest.
type MedicalRecordRepository struct {
	db        *pgxpool.Pool
	encryptor *security.Encryptor
	logger    *zap.Logger
}

// NewMedicalRecordRepository creates a new MedicalRecordRepository
func NewMedicalRecordRepository(db *pgxpool.Pool, encryptor *security.Encryptor, logger *zap.Logger) *MedicalRecordRepository {
	return &MedicalRecordRepository{
		db:        db,
		encryptor: encryptor,
		logger:    logger,
	}
}

const medicalRecordColumns = `
	id, user_id, doctor_id, title, description, record_type,
	diagnosis, treatment, prescription, vitals, date, notes, created_at
`

func scanMedicalRecord(row pgx.Row) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.DoctorID,
		&record.Title,
		&record.Description,
		&record.RecordType,
		&record.Diagnosis,
		&record.Treatment,
		&record.Prescription,
		&record.Vitals,
		&record.Date,
		&record.Notes,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *MedicalRecordRepository) decryptRecord(record *model.MedicalRecord) error {
	var err error
	if record.Diagnosis, err = r.encryptor.DecryptPtr(record.Diagnosis); err != nil {
		return fmt.Errorf("failed to decrypt diagnosis: %w", err)
	}
	if record.Treatment, err = r.encryptor.DecryptPtr(record.Treatment); err != nil {
		return fmt.Errorf("failed to decrypt treatment: %w", err)
	}
	if record.Prescription, err = r.encryptor.DecryptPtr(record.Prescription); err != nil {
		return fmt.Errorf("failed to decrypt prescription: %w", err)
	}
	return nil
}

// Create inserts a medical record, encrypting the clinical text fields
func (r *MedicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	diagnosis, err := r.encryptor.EncryptPtr(record.Diagnosis)
	if err != nil {
		return fmt.Errorf("failed to encrypt diagnosis: %w", err)
	}
	treatment, err := r.encryptor.EncryptPtr(record.Treatment)
	if err != nil {
		return fmt.Errorf("failed to encrypt treatment: %w", err)
	}
	prescription, err := r.encryptor.EncryptPtr(record.Prescription)
	if err != nil {
		return fmt.Errorf("failed to encrypt prescription: %w", err)
	}

	query := `
		INSERT INTO medical_records (` + medicalRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.DoctorID,
		record.Title,
		record.Description,
		record.RecordType,
		diagnosis,
		treatment,
		prescription,
		record.Vitals,
		record.Date,
		record.Notes,
		record.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert medical record",
			zap.Error(err),
			zap.String("record_id", record.ID),
			zap.String("user_id", record.UserID),
		)
		return fmt.Errorf("failed to insert medical record: %w", err)
	}

	return nil
}

// FindByID retrieves a medical record by ID, returning (nil, nil) when absent
func (r *MedicalRecordRepository) FindByID(ctx context.Context, recordID string) (*model.MedicalRecord, error) {
	query := `SELECT ` + medicalRecordColumns + ` FROM medical_records WHERE id = $1`

	record, err := scanMedicalRecord(r.db.QueryRow(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get medical record", zap.Error(err), zap.String("record_id", recordID))
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}

	if err := r.decryptRecord(record); err != nil {
		r.logger.Error("failed to decrypt medical record", zap.Error(err), zap.String("record_id", recordID))
		return nil, err
	}

	return record, nil
}

// Find retrieves medical records matching the filter, newest first
func (r *MedicalRecordRepository) Find(ctx context.Context, filter service.MedicalRecordFilter) ([]model.MedicalRecord, error) {
	query := `SELECT ` + medicalRecordColumns + ` FROM medical_records WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if filter.RecordType != nil {
		args = append(args, *filter.RecordType)
		query += ` AND record_type = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY date DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query medical records", zap.Error(err), zap.String("user_id", filter.UserID))
		return nil, fmt.Errorf("failed to query medical records: %w", err)
	}
	defer rows.Close()

	var records []model.MedicalRecord
	for rows.Next() {
		record, err := scanMedicalRecord(rows)
		if err != nil {
			r.logger.Error("failed to scan medical record", zap.Error(err))
			continue
		}
		if err := r.decryptRecord(record); err != nil {
			r.logger.Error("failed to decrypt medical record", zap.Error(err), zap.String("record_id", record.ID))
			continue
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating medical records", zap.Error(err))
		return nil, fmt.Errorf("error iterating medical records: %w", err)
	}

	return records, nil
}

// Delete removes a medical record
func (r *MedicalRecordRepository) Delete(ctx context.Context, recordID string) error {
	query := `DELETE FROM medical_records WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, recordID)
	if err != nil {
		r.logger.Error("failed to delete medical record", zap.Error(err), zap.String("record_id", recordID))
		return fmt.Errorf("failed to delete medical record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medical record not found: %s", recordID)
	}

	return nil
}
