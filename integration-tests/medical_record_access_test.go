package integration_tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitlife-app/backend/pkg/model"
)

type medicalRecordDTO struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	DoctorID   *string `json:"doctor_id"`
	Title      string  `json:"title"`
	RecordType string  `json:"record_type"`
	Diagnosis  *string `json:"diagnosis"`
	Treatment  *string `json:"treatment"`
}

// TestMedicalRecordAccessIntegration checks the clinical access rules over
// HTTP: doctors author records for their patients, subjects read their own,
// trainers see nothing, and the clinical text round-trips through at-rest
// encryption.
func TestMedicalRecordAccessIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pool, cleanup := setupTestDatabase(t, ctx)
	defer cleanup()

	router := newTestRouter(t, pool)

	patientID := createUser(t, ctx, pool, model.RoleUser)
	doctorID := createUser(t, ctx, pool, model.RoleDoctor)
	trainerID := createUser(t, ctx, pool, model.RoleTrainer)

	patientToken := authToken(t, patientID, model.RoleUser)
	doctorToken := authToken(t, doctorID, model.RoleDoctor)
	trainerToken := authToken(t, trainerID, model.RoleTrainer)

	var record medicalRecordDTO

	t.Run("Doctor creates a record for the patient", func(t *testing.T) {
		body := fmt.Sprintf(
			`{"user_id":%q,"title":"Annual checkup","record_type":"checkup","diagnosis":"Mild iron deficiency","treatment":"Iron supplement for 8 weeks"}`,
			patientID)
		w := doJSON(t, router, "POST", "/api/v1/medical-records", doctorToken, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.Equal(t, patientID, record.UserID)
		require.NotNil(t, record.DoctorID)
		assert.Equal(t, doctorID, *record.DoctorID)
	})

	t.Run("Clinical text is stored encrypted", func(t *testing.T) {
		var storedDiagnosis string
		err := pool.QueryRow(ctx,
			`SELECT diagnosis FROM medical_records WHERE id = $1`, record.ID).Scan(&storedDiagnosis)
		require.NoError(t, err)
		assert.NotEqual(t, "Mild iron deficiency", storedDiagnosis)
		assert.NotEmpty(t, storedDiagnosis)
	})

	t.Run("Patient reads the record in plaintext", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/medical-records/"+record.ID, patientToken, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got medicalRecordDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotNil(t, got.Diagnosis)
		assert.Equal(t, "Mild iron deficiency", *got.Diagnosis)
		require.NotNil(t, got.Treatment)
		assert.Equal(t, "Iron supplement for 8 weeks", *got.Treatment)
	})

	t.Run("Trainer is denied", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/medical-records", trainerToken, "")
		assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		w = doJSON(t, router, "GET", "/api/v1/medical-records/"+record.ID, trainerToken, "")
		assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	t.Run("Patient cannot create records for others", func(t *testing.T) {
		body := fmt.Sprintf(
			`{"user_id":%q,"title":"Fake entry","record_type":"general"}`, doctorID)
		w := doJSON(t, router, "POST", "/api/v1/medical-records", patientToken, body)
		assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	t.Run("Patient was notified about the new record", func(t *testing.T) {
		var count int
		err := pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, patientID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Doctor read left an audit trail", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/medical-records/"+record.ID, doctorToken, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var count int
		err := pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM audit_logs
			 WHERE user_id = $1 AND operation_type = 'READ' AND resource_type = 'medical_record' AND resource_id = $2`,
			doctorID, record.ID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Authoring doctor deletes the record", func(t *testing.T) {
		w := doJSON(t, router, "DELETE", "/api/v1/medical-records/"+record.ID, doctorToken, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(t, router, "GET", "/api/v1/medical-records/"+record.ID, patientToken, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
