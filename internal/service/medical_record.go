package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fitlife-app/backend/internal/audit"
	"github.com/fitlife-app/backend/internal/notify"
	"github.com/fitlife-app/backend/internal/policy"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MedicalRecordFilter narrows a medical record query. UserID is empty for an
// unrestricted scope.
type MedicalRecordFilter struct {
	UserID     string
	RecordType *model.RecordType
}

// MedicalRecordRepository defines the persistence operations for medical
// records
type MedicalRecordRepository interface {
	Create(ctx context.Context, record *model.MedicalRecord) error
	// FindByID returns (nil, nil) when the record does not exist.
	FindByID(ctx context.Context, recordID string) (*model.MedicalRecord, error)
	Find(ctx context.Context, filter MedicalRecordFilter) ([]model.MedicalRecord, error)
	Delete(ctx context.Context, recordID string) error
}

// MedicalRecordService owns clinical records. Access is the tightest in the
// system: only the subject and doctors ever see a record.
type MedicalRecordService struct {
	repo     MedicalRecordRepository
	notifier *notify.Notifier
	auditor  *audit.Logger
	logger   *zap.Logger
}

// NewMedicalRecordService creates a new MedicalRecordService
func NewMedicalRecordService(repo MedicalRecordRepository, notifier *notify.Notifier, auditor *audit.Logger, logger *zap.Logger) *MedicalRecordService {
	return &MedicalRecordService{
		repo:     repo,
		notifier: notifier,
		auditor:  auditor,
		logger:   logger,
	}
}

// CreateMedicalRecordInput carries the caller-supplied fields for a new
// medical record
type CreateMedicalRecordInput struct {
	UserID       string
	Title        string
	Description  *string
	RecordType   model.RecordType
	Diagnosis    *string
	Treatment    *string
	Prescription *string
	Vitals       *model.Vitals
	Date         time.Time
	Notes        *string
}

func validRecordType(t model.RecordType) bool {
	switch t {
	case model.RecordTypeLabReport, model.RecordTypePrescription, model.RecordTypeReferral,
		model.RecordTypeGeneral, model.RecordTypeCheckup:
		return true
	}
	return false
}

// CreateRecord creates a medical record. A user records for themselves; a
// doctor records for a named subject and is stamped as the author, and the
// subject is notified.
func (s *MedicalRecordService) CreateRecord(ctx context.Context, actor policy.Actor, input CreateMedicalRecordInput) (*model.MedicalRecord, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !validRecordType(input.RecordType) {
		return nil, fmt.Errorf("%w: unknown record type %q", ErrInvalidInput, input.RecordType)
	}

	subject := actor.ID
	var doctorID *string
	switch actor.Role {
	case model.RoleDoctor:
		if input.UserID == "" {
			return nil, fmt.Errorf("%w: subject user ID is required", ErrInvalidInput)
		}
		subject = input.UserID
		id := actor.ID
		doctorID = &id
	case model.RoleUser, model.RoleAdmin:
		if input.UserID != "" && input.UserID != actor.ID {
			return nil, fmt.Errorf("%w: cannot create a medical record for another user", ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: medical record access denied", ErrForbidden)
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	record := &model.MedicalRecord{
		ID:           uuid.New().String(),
		UserID:       subject,
		DoctorID:     doctorID,
		Title:        input.Title,
		Description:  input.Description,
		RecordType:   input.RecordType,
		Diagnosis:    input.Diagnosis,
		Treatment:    input.Treatment,
		Prescription: input.Prescription,
		Vitals:       input.Vitals,
		Date:         date,
		Notes:        input.Notes,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create medical record", zap.Error(err), zap.String("user_id", subject))
		return nil, fmt.Errorf("failed to create medical record: %w", err)
	}

	_ = s.auditor.LogCreate(ctx, actor.ID, audit.ResourceMedicalRecord, record.ID)

	if doctorID != nil {
		s.notifier.Send(ctx, subject,
			fmt.Sprintf("A new medical record %q was added by your doctor", record.Title),
			model.NotificationTypeInfo)
	}

	s.logger.Info("medical record created",
		zap.String("record_id", record.ID),
		zap.String("user_id", subject),
		zap.String("record_type", string(record.RecordType)),
	)

	return record, nil
}

// ListRecords returns medical records within the actor's resolved scope
func (s *MedicalRecordService) ListRecords(ctx context.Context, actor policy.Actor, requestedOwner string, recordType *model.RecordType) ([]model.MedicalRecord, error) {
	if recordType != nil && !validRecordType(*recordType) {
		return nil, fmt.Errorf("%w: unknown record type %q", ErrInvalidInput, *recordType)
	}

	scope := policy.Resolve(actor, policy.ResourceMedicalRecord, requestedOwner)
	filter := MedicalRecordFilter{RecordType: recordType}
	switch scope.Kind {
	case policy.ScopeSelf:
		filter.UserID = actor.ID
	case policy.ScopeSpecific:
		filter.UserID = scope.OwnerID
	case policy.ScopeAll:
	default:
		return nil, fmt.Errorf("%w: medical record access denied", ErrForbidden)
	}

	records, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list medical records", zap.Error(err), zap.String("user_id", filter.UserID))
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

// GetRecord returns one record if the actor's scope covers it. A record
// outside the scope surfaces as not found, not as forbidden.
func (s *MedicalRecordService) GetRecord(ctx context.Context, actor policy.Actor, recordID string) (*model.MedicalRecord, error) {
	scope := policy.Resolve(actor, policy.ResourceMedicalRecord, "")
	if scope.Kind == policy.ScopeDenied {
		return nil, fmt.Errorf("%w: medical record access denied", ErrForbidden)
	}

	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		s.logger.Error("failed to load medical record", zap.Error(err), zap.String("record_id", recordID))
		return nil, fmt.Errorf("failed to load medical record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: medical record %s", ErrNotFound, recordID)
	}
	if scope.Kind != policy.ScopeAll && record.UserID != actor.ID {
		return nil, fmt.Errorf("%w: medical record %s", ErrNotFound, recordID)
	}

	// Cross-user clinical reads leave an audit trail
	if record.UserID != actor.ID {
		_ = s.auditor.LogRead(ctx, actor.ID, audit.ResourceMedicalRecord, record.ID)
	}

	return record, nil
}

// DeleteRecord removes one record. The subject, the authoring doctor, or an
// admin may delete.
func (s *MedicalRecordService) DeleteRecord(ctx context.Context, actor policy.Actor, recordID string) error {
	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		s.logger.Error("failed to load medical record", zap.Error(err), zap.String("record_id", recordID))
		return fmt.Errorf("failed to load medical record: %w", err)
	}
	if record == nil {
		return fmt.Errorf("%w: medical record %s", ErrNotFound, recordID)
	}

	authorMatch := record.DoctorID != nil && *record.DoctorID == actor.ID && actor.Role == model.RoleDoctor
	if !policy.CanMutate(actor, record.UserID) && !authorMatch {
		return fmt.Errorf("%w: medical record %s is not owned by actor", ErrForbidden, recordID)
	}

	if err := s.repo.Delete(ctx, recordID); err != nil {
		s.logger.Error("failed to delete medical record", zap.Error(err), zap.String("record_id", recordID))
		return fmt.Errorf("failed to delete medical record: %w", err)
	}

	_ = s.auditor.LogDelete(ctx, actor.ID, audit.ResourceMedicalRecord, recordID)

	s.logger.Info("medical record deleted", zap.String("record_id", recordID), zap.String("user_id", record.UserID))
	return nil
}
