package handlers

import (
	"github.com/gin-gonic/gin"

	"symptom-checker-server/internal/middleware"
	"symptom-checker-server/internal/services"
	"symptom-checker-server/internal/utils"
)

// AdminHandler handles operator catalog maintenance.
type AdminHandler struct {
	Catalog *services.CatalogAdmin
	Sweeper *services.Sweeper
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(catalog *services.CatalogAdmin, sweeper *services.Sweeper) *AdminHandler {
	return &AdminHandler{Catalog: catalog, Sweeper: sweeper}
}

// UpsertSymptom handles creating or replacing a symptom by slug.
func (h *AdminHandler) UpsertSymptom(c *gin.Context) {
	var req services.SymptomInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	symptom, err := h.Catalog.UpsertSymptom(c.Request.Context(), req)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Success(c, "Symptom saved successfully", gin.H{"symptom": symptom})
}

// UpsertCondition handles creating or replacing a condition by slug.
func (h *AdminHandler) UpsertCondition(c *gin.Context) {
	var req services.ConditionInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	condition, err := h.Catalog.UpsertCondition(c.Request.Context(), req)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Success(c, "Condition saved successfully", gin.H{"condition": condition})
}

// UpsertTreatment handles creating or replacing the treatment of a condition.
func (h *AdminHandler) UpsertTreatment(c *gin.Context) {
	var req services.TreatmentInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	treatment, err := h.Catalog.UpsertTreatment(c.Request.Context(), req)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Success(c, "Treatment saved successfully", gin.H{"treatment": treatment})
}

// SweepSessions handles an on-demand removal of expired sessions.
func (h *AdminHandler) SweepSessions(c *gin.Context) {
	removed, err := h.Sweeper.RunOnce(c.Request.Context())
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	operatorID, _ := middleware.GetOperatorIDFromContext(c)
	utils.Success(c, "Expired sessions removed", gin.H{"removed": removed, "operator": operatorID})
}
