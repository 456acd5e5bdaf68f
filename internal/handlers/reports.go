package handlers

import (
	"github.com/gin-gonic/gin"

	"symptom-checker-server/internal/services"
	"symptom-checker-server/internal/utils"
)

// ReportHandler handles report snapshot requests.
type ReportHandler struct {
	Reports *services.ReportGenerator
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *services.ReportGenerator) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// GenerateReportRequest names the session to snapshot.
type GenerateReportRequest struct {
	SessionID string `json:"sessionId"`
}

// GenerateReport handles freezing a session into a new report.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	report, err := h.Reports.Generate(c.Request.Context(), req.SessionID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Created(c, "Report generated successfully", gin.H{"report": report})
}

// GetReport handles fetching a stored report.
func (h *ReportHandler) GetReport(c *gin.Context) {
	report, err := h.Reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Success(c, "Report retrieved successfully", gin.H{"report": report})
}
