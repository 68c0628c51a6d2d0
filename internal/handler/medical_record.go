package handler

import (
	"net/http"
	"time"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MedicalRecordHandler implements medical record API endpoints
type MedicalRecordHandler struct {
	service *service.MedicalRecordService
	logger  *zap.Logger
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler
func NewMedicalRecordHandler(service *service.MedicalRecordService, logger *zap.Logger) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		service: service,
		logger:  logger,
	}
}

type createMedicalRecordRequest struct {
	UserID       string           `json:"user_id"`
	Title        string           `json:"title" binding:"required"`
	Description  *string          `json:"description"`
	RecordType   model.RecordType `json:"record_type" binding:"required"`
	Diagnosis    *string          `json:"diagnosis"`
	Treatment    *string          `json:"treatment"`
	Prescription *string          `json:"prescription"`
	Vitals       *model.Vitals    `json:"vitals"`
	Date         *time.Time       `json:"date"`
	Notes        *string          `json:"notes"`
}

// CreateRecord creates a medical record
func (h *MedicalRecordHandler) CreateRecord(c *gin.Context) {
	var req createMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		respondBindError(c, err)
		return
	}

	input := service.CreateMedicalRecordInput{
		UserID:       req.UserID,
		Title:        req.Title,
		Description:  req.Description,
		RecordType:   req.RecordType,
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Prescription: req.Prescription,
		Vitals:       req.Vitals,
		Notes:        req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	record, err := h.service.CreateRecord(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListRecords lists medical records within the caller's scope
func (h *MedicalRecordHandler) ListRecords(c *gin.Context) {
	var recordType *model.RecordType
	if v := c.Query("record_type"); v != "" {
		t := model.RecordType(v)
		recordType = &t
	}

	records, err := h.service.ListRecords(c.Request.Context(), actorFrom(c), c.Query("user_id"), recordType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetRecord returns one medical record
func (h *MedicalRecordHandler) GetRecord(c *gin.Context) {
	record, err := h.service.GetRecord(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteRecord removes a medical record
func (h *MedicalRecordHandler) DeleteRecord(c *gin.Context) {
	if err := h.service.DeleteRecord(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Medical record deleted"})
}
