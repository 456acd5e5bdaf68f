package services

import (
	"context"
	"math"
	"strings"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/repos"
)

const (
	commonContextLimit  = 30
	commonFallbackLimit = 20
)

// SymptomFilters are the optional, independently combinable inputs of a
// symptom listing. Several narrowing filters combine with AND.
type SymptomFilters struct {
	Age        *float64
	Sex        models.Sex
	Category   string
	BodyPartID string
	RegionID   string
	Search     string
}

// SymptomCatalog answers demographic and text filtered symptom queries.
type SymptomCatalog struct {
	symptoms repos.SymptomRepo
	log      *logger.Logger
}

func NewSymptomCatalog(symptoms repos.SymptomRepo, baseLog *logger.Logger) *SymptomCatalog {
	return &SymptomCatalog{
		symptoms: symptoms,
		log:      baseLog.With("service", "SymptomCatalog"),
	}
}

// normalizeAge drops ages that cannot filter anything. Listing filters are
// lenient: a bad age means no age filter.
func normalizeAge(age *float64) *float64 {
	if age == nil || math.IsNaN(*age) || math.IsInf(*age, 0) || *age < 0 {
		return nil
	}
	v := *age
	return &v
}

func demographics(age *float64, sex models.Sex) (repos.Demographics, error) {
	sex = models.Sex(strings.ToLower(strings.TrimSpace(string(sex))))
	if sex != "" {
		if err := validateSex(sex); err != nil {
			return repos.Demographics{}, err
		}
	}
	return repos.Demographics{Age: normalizeAge(age), Sex: sex}, nil
}

// List returns the symptoms admitted by f. With a search string results are
// ranked by relevance; otherwise common symptoms come first, then by name.
func (c *SymptomCatalog) List(ctx context.Context, f SymptomFilters) ([]*models.Symptom, error) {
	d, err := demographics(f.Age, f.Sex)
	if err != nil {
		return nil, err
	}

	q := repos.SymptomQuery{
		Demographics: d,
		Category:     strings.TrimSpace(f.Category),
	}

	bodyPartID := strings.TrimSpace(f.BodyPartID)
	if bodyPartID != "" {
		q.RestrictBodyParts = true
		q.BodyPartIDs = []string{bodyPartID}
	}

	if regionID := strings.TrimSpace(f.RegionID); regionID != "" {
		partIDs, err := c.symptoms.BodyPartIDsInRegion(ctx, nil, regionID)
		if err != nil {
			return nil, err
		}
		q.RestrictBodyParts = true
		if bodyPartID != "" {
			q.BodyPartIDs = intersect(q.BodyPartIDs, partIDs)
		} else {
			q.BodyPartIDs = partIDs
		}
	}

	results, err := c.symptoms.List(ctx, nil, q)
	if err != nil {
		return nil, err
	}

	search := strings.TrimSpace(f.Search)
	if search == "" {
		return results, nil
	}
	return rankBySearch(results, search), nil
}

// CommonFor suggests common symptoms sharing a category or body part with
// the current selection. When nothing qualifies it falls back to any
// eligible common symptoms.
func (c *SymptomCatalog) CommonFor(ctx context.Context, selectedIDs []string, age *float64, sex models.Sex) ([]*models.Symptom, error) {
	d, err := demographics(age, sex)
	if err != nil {
		return nil, err
	}

	selected, err := c.symptoms.GetByIDs(ctx, nil, dedupe(selectedIDs))
	if err != nil {
		return nil, err
	}

	symptomContext := &repos.SymptomContext{}
	seenCategory := map[string]struct{}{}
	seenPart := map[string]struct{}{}
	for _, s := range selected {
		if s.Category != "" {
			if _, ok := seenCategory[s.Category]; !ok {
				seenCategory[s.Category] = struct{}{}
				symptomContext.Categories = append(symptomContext.Categories, s.Category)
			}
		}
		if s.BodyPartID != nil && *s.BodyPartID != "" {
			if _, ok := seenPart[*s.BodyPartID]; !ok {
				seenPart[*s.BodyPartID] = struct{}{}
				symptomContext.BodyPartIDs = append(symptomContext.BodyPartIDs, *s.BodyPartID)
			}
		}
	}

	contextual, err := c.symptoms.List(ctx, nil, repos.SymptomQuery{
		Demographics: d,
		CommonOnly:   true,
		Context:      symptomContext,
		OrderByName:  true,
		Limit:        commonContextLimit,
	})
	if err != nil {
		return nil, err
	}
	if len(contextual) > 0 {
		return contextual, nil
	}

	return c.symptoms.List(ctx, nil, repos.SymptomQuery{
		Demographics: d,
		CommonOnly:   true,
		OrderByName:  true,
		Limit:        commonFallbackLimit,
	})
}

// Regions lists body regions with their parts.
func (c *SymptomCatalog) Regions(ctx context.Context) ([]*models.BodyRegion, error) {
	return c.symptoms.ListRegions(ctx, nil)
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := []string{}
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
