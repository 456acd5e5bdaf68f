package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/services"
	"symptom-checker-server/internal/utils"
)

// CatalogHandler handles read-only reference data requests.
type CatalogHandler struct {
	Symptoms   *services.SymptomCatalog
	Conditions *services.ConditionLookup
	Treatments *services.TreatmentLookup
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(symptoms *services.SymptomCatalog, conditions *services.ConditionLookup, treatments *services.TreatmentLookup) *CatalogHandler {
	return &CatalogHandler{Symptoms: symptoms, Conditions: conditions, Treatments: treatments}
}

// queryAge parses the optional age filter. Unparseable values are ignored.
func queryAge(c *gin.Context) *float64 {
	raw := strings.TrimSpace(c.Query("age"))
	if raw == "" {
		return nil
	}
	age, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &age
}

// querySelected accepts both ?selected=a,b and ?selected=a&selected=b.
func querySelected(c *gin.Context) []string {
	var out []string
	for _, v := range c.QueryArray("selected") {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

// ListSymptoms handles filtered symptom listing.
func (h *CatalogHandler) ListSymptoms(c *gin.Context) {
	symptoms, err := h.Symptoms.List(c.Request.Context(), services.SymptomFilters{
		Age:        queryAge(c),
		Sex:        models.Sex(c.Query("sex")),
		Category:   c.Query("category"),
		BodyPartID: c.Query("bodyPartId"),
		RegionID:   c.Query("regionId"),
		Search:     c.Query("search"),
	})
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Success(c, "Symptoms retrieved successfully", gin.H{"symptoms": symptoms})
}

// ListCommonSymptoms handles contextual common symptom suggestions.
func (h *CatalogHandler) ListCommonSymptoms(c *gin.Context) {
	symptoms, err := h.Symptoms.CommonFor(c.Request.Context(), querySelected(c), queryAge(c), models.Sex(c.Query("sex")))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Success(c, "Common symptoms retrieved successfully", gin.H{"symptoms": symptoms})
}

// ListRegions handles listing body regions with their parts.
func (h *CatalogHandler) ListRegions(c *gin.Context) {
	regions, err := h.Symptoms.Regions(c.Request.Context())
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Success(c, "Regions retrieved successfully", gin.H{"regions": regions})
}

// GetCondition handles fetching condition details by slug.
func (h *CatalogHandler) GetCondition(c *gin.Context) {
	condition, err := h.Conditions.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Success(c, "Condition retrieved successfully", gin.H{"condition": condition})
}

// GetTreatment handles fetching the treatment bound to a condition.
func (h *CatalogHandler) GetTreatment(c *gin.Context) {
	treatment, err := h.Treatments.ByCondition(c.Request.Context(), c.Param("conditionId"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	utils.Success(c, "Treatment retrieved successfully", gin.H{"treatment": treatment})
}
