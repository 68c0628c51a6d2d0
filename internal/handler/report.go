package handler

import (
	"net/http"

	"github.com/fitlife-app/backend/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler implements progress report API endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateReport renders a PDF progress report and streams it back
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	report, err := h.service.GenerateProgressReport(
		c.Request.Context(),
		actorFrom(c),
		c.Query("user_id"),
		service.StatsPeriod(c.Query("period")),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="progress-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", report)
}
