package testutil

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

// Float returns a pointer to v, for optional age bounds.
func Float(v float64) *float64 {
	return &v
}

func SeedRegion(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string, order int) *models.BodyRegion {
	tb.Helper()
	r := &models.BodyRegion{Name: slug, Slug: slug, Order: order}
	if err := tx.WithContext(ctx).Omit("Parts").Create(r).Error; err != nil {
		tb.Fatalf("seed region: %v", err)
	}
	return r
}

func SeedBodyPart(tb testing.TB, ctx context.Context, tx *gorm.DB, regionID, slug string) *models.BodyPart {
	tb.Helper()
	p := &models.BodyPart{
		Name:     slug,
		Slug:     slug,
		RegionID: regionID,
		Synonyms: datatypes.JSONSlice[string]{},
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed body part: %v", err)
	}
	return p
}

// SeedSymptom inserts s, filling empty slug, synonyms and allowed sex.
func SeedSymptom(tb testing.TB, ctx context.Context, tx *gorm.DB, s models.Symptom) *models.Symptom {
	tb.Helper()
	if s.Slug == "" {
		s.Slug = s.Name
	}
	if s.Category == "" {
		s.Category = "general"
	}
	if s.Synonyms == nil {
		s.Synonyms = datatypes.JSONSlice[string]{}
	}
	if s.AllowedSex == "" {
		s.AllowedSex = models.SexAny
	}
	if err := tx.WithContext(ctx).Create(&s).Error; err != nil {
		tb.Fatalf("seed symptom: %v", err)
	}
	return &s
}

// SeedCondition inserts c with the given weighted entries in order.
func SeedCondition(tb testing.TB, ctx context.Context, tx *gorm.DB, c models.Condition, entries ...models.ConditionSymptom) *models.Condition {
	tb.Helper()
	if c.Slug == "" {
		c.Slug = c.Name
	}
	if c.AllowedSex == "" {
		c.AllowedSex = models.SexAny
	}
	if c.RiskFactors == nil {
		c.RiskFactors = datatypes.JSONSlice[string]{}
	}
	if c.CommonSymptoms == nil {
		c.CommonSymptoms = datatypes.JSONSlice[string]{}
	}
	c.Symptoms = nil
	if err := tx.WithContext(ctx).Create(&c).Error; err != nil {
		tb.Fatalf("seed condition: %v", err)
	}
	for i := range entries {
		entries[i].ConditionID = c.ID
		entries[i].Position = i
	}
	if len(entries) > 0 {
		if err := tx.WithContext(ctx).Create(&entries).Error; err != nil {
			tb.Fatalf("seed condition symptoms: %v", err)
		}
	}
	c.Symptoms = entries
	return &c
}

func SeedTreatment(tb testing.TB, ctx context.Context, tx *gorm.DB, conditionID, overview string) *models.Treatment {
	tb.Helper()
	t := &models.Treatment{
		ConditionID: conditionID,
		Overview:    overview,
		Lifestyle:   datatypes.JSONSlice[string]{},
		Diet:        datatypes.JSONSlice[string]{},
		Approach: datatypes.NewJSONType(models.TreatmentApproach{
			RootCauses: []string{},
			FocusAreas: []string{},
		}),
		Precautions: datatypes.JSONSlice[string]{},
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed treatment: %v", err)
	}
	return t
}
