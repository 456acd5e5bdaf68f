package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

// SeedSummary counts what SeedDemo wrote.
type SeedSummary struct {
	Regions    int `json:"regions"`
	BodyParts  int `json:"bodyParts"`
	Symptoms   int `json:"symptoms"`
	Conditions int `json:"conditions"`
	Treatments int `json:"treatments"`
}

var demoRegions = []RegionInput{
	{Name: "Head", Slug: "head", Order: 1},
	{Name: "Chest", Slug: "chest", Order: 2},
	{Name: "Abdomen", Slug: "abdomen", Order: 3},
}

// demoParts maps part slug to region slug.
var demoParts = []struct {
	Name, Slug, Region string
}{
	{"Skull", "skull", "head"},
	{"Face", "face", "head"},
	{"Thorax", "thorax", "chest"},
	{"Upper Abdomen", "upper-abdomen", "abdomen"},
}

// demoSymptoms carries the body part slug in BodyPartID; SeedDemo swaps it
// for the stored id.
var demoSymptoms = []SymptomInput{
	{
		Name: "Fatigue", Slug: "fatigue", Category: "general", Common: true,
		Synonyms:         []string{"tiredness", "low energy"},
		SearchableText:   "fatigue tiredness low energy exhaustion",
		EligibilityInput: EligibilityInput{AllowedSex: "any", AgeMin: floatPtr(0), AgeMax: floatPtr(120)},
	},
	{
		Name: "Headache", Slug: "headache", Category: "head", BodyPartID: "skull", Common: true, RedFlag: true,
		Synonyms:         []string{"head pain", "migraine"},
		SearchableText:   "headache migraine head pain",
		EligibilityInput: EligibilityInput{AllowedSex: "any", AgeMin: floatPtr(5), AgeMax: floatPtr(120)},
	},
	{
		Name: "Pale skin", Slug: "pale-skin", Category: "skin", BodyPartID: "face",
		Synonyms:         []string{"pallor"},
		SearchableText:   "pale skin pallor",
		EligibilityInput: EligibilityInput{AllowedSex: "any", AgeMin: floatPtr(0), AgeMax: floatPtr(120)},
	},
	{
		Name: "Shortness of breath", Slug: "shortness-of-breath", Category: "chest", BodyPartID: "thorax", RedFlag: true,
		Synonyms:         []string{"breathlessness", "dyspnea"},
		SearchableText:   "shortness of breath breathless dyspnea",
		EligibilityInput: EligibilityInput{AllowedSex: "any", AgeMin: floatPtr(5), AgeMax: floatPtr(120)},
	},
	{
		Name: "Abdominal pain", Slug: "abdominal-pain", Category: "abdomen", BodyPartID: "upper-abdomen", Common: true, RedFlag: true,
		Synonyms:         []string{"stomach pain"},
		SearchableText:   "abdominal pain stomach pain",
		EligibilityInput: EligibilityInput{AllowedSex: "any", AgeMin: floatPtr(5), AgeMax: floatPtr(120)},
	},
}

var demoConditions = []ConditionInput{
	{
		Name:           "Iron Deficiency",
		Slug:           "iron-deficiency",
		Description:    "Low iron leading to reduced hemoglobin.",
		Overview:       "May present with fatigue, pallor, shortness of breath.",
		Prevalence:     "Common",
		RiskFactors:    []string{"Low dietary iron", "Heavy menstrual bleeding"},
		WhenToSeekHelp: "Dizziness, chest pain, rapid heartbeat",
		Perspective:    "Support nutrient absorption and replenish iron with whole foods.",
		CommonSymptoms: []string{"Fatigue", "Pale skin", "Shortness of breath"},
		Symptoms: []ConditionSymptomInput{
			{SymptomSlug: "fatigue", Weight: floatPtr(3)},
			{SymptomSlug: "pale-skin", Weight: floatPtr(2)},
			{SymptomSlug: "shortness-of-breath", Weight: floatPtr(2)},
		},
		EligibilityInput: EligibilityInput{AllowedSex: "any", AgeMin: floatPtr(0), AgeMax: floatPtr(120)},
	},
	{
		Name:           "Migraine",
		Slug:           "migraine",
		Description:    "Neurological condition causing recurrent headaches.",
		Overview:       "Often unilateral, pulsating headaches with sensitivity to light or sound.",
		Prevalence:     "Very common",
		RiskFactors:    []string{"Family history", "Hormonal changes"},
		WhenToSeekHelp: "Sudden severe headache or neurological deficits.",
		Perspective:    "Focus on triggers, mitochondrial support, and stress modulation.",
		CommonSymptoms: []string{"Headache", "Nausea", "Light sensitivity"},
		Symptoms: []ConditionSymptomInput{
			{SymptomSlug: "headache", Weight: floatPtr(4)},
			{SymptomSlug: "fatigue", Weight: floatPtr(1)},
		},
		EligibilityInput: EligibilityInput{AllowedSex: "any", AgeMin: floatPtr(10), AgeMax: floatPtr(120)},
	},
	{
		Name:           "Gastritis",
		Slug:           "gastritis",
		Description:    "Inflammation of the stomach lining.",
		Overview:       "Burning upper abdominal pain, nausea, early satiety.",
		Prevalence:     "Common",
		RiskFactors:    []string{"NSAID use", "Alcohol", "H. pylori"},
		WhenToSeekHelp: "Severe pain, vomiting blood, black stools.",
		Perspective:    "Reduce irritants, support mucosal healing, and gut balance.",
		CommonSymptoms: []string{"Abdominal pain", "Nausea", "Bloating"},
		Symptoms: []ConditionSymptomInput{
			{SymptomSlug: "abdominal-pain", Weight: floatPtr(4)},
			{SymptomSlug: "fatigue", Weight: floatPtr(1)},
		},
		EligibilityInput: EligibilityInput{AllowedSex: "any", AgeMin: floatPtr(10), AgeMax: floatPtr(120)},
	},
}

var demoTreatments = []TreatmentInput{
	{
		ConditionSlug: "iron-deficiency",
		Overview:      "Replenish iron stores and support hemoglobin.",
		Lifestyle:     []string{"Regular moderate activity", "Adequate sleep"},
		Diet:          []string{"Iron-rich foods", "Vitamin C with meals", "Avoid tea/coffee with iron"},
		Approach: models.TreatmentApproach{
			RootCauses: []string{"Low intake", "Poor absorption"},
			FocusAreas: []string{"Gut support", "Micronutrient balance"},
		},
		Precautions:    []string{"Consult clinician before supplements"},
		WhenToSeekHelp: "Worsening fatigue, chest pain, or palpitations",
	},
	{
		ConditionSlug: "migraine",
		Overview:      "Reduce frequency and intensity, manage triggers.",
		Lifestyle:     []string{"Regular sleep schedule", "Stress reduction", "Hydration"},
		Diet:          []string{"Identify food triggers", "Magnesium-rich foods"},
		Approach: models.TreatmentApproach{
			RootCauses: []string{"Trigger load", "Mitochondrial stress"},
			FocusAreas: []string{"Magnesium support", "Trigger avoidance"},
		},
		Precautions:    []string{"Seek urgent care for sudden severe headache"},
		WhenToSeekHelp: "Neurological symptoms or severe sudden pain",
	},
	{
		ConditionSlug: "gastritis",
		Overview:      "Calm gastric irritation and restore mucosa.",
		Lifestyle:     []string{"Avoid late meals", "Limit alcohol", "Stop smoking"},
		Diet:          []string{"Bland anti-inflammatory diet", "Avoid NSAIDs if possible"},
		Approach: models.TreatmentApproach{
			RootCauses: []string{"Irritants", "Microbiome imbalance"},
			FocusAreas: []string{"Mucosal support", "Trigger elimination"},
		},
		Precautions:    []string{"Seek care for bleeding or severe pain"},
		WhenToSeekHelp: "Vomiting blood or black stools",
	},
}

// SeedDemo loads the demo catalog in one transaction. Records are upserted by
// slug, so running it again refreshes rather than duplicates.
func (a *CatalogAdmin) SeedDemo(ctx context.Context) (*SeedSummary, error) {
	summary := &SeedSummary{}
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		regionIDs := map[string]string{}
		for _, in := range demoRegions {
			region, err := a.upsertRegion(ctx, tx, in)
			if err != nil {
				return fmt.Errorf("seed region %s: %w", in.Slug, err)
			}
			regionIDs[region.Slug] = region.ID
			summary.Regions++
		}

		partIDs := map[string]string{}
		for _, p := range demoParts {
			part, err := a.upsertBodyPart(ctx, tx, BodyPartInput{
				Name:     p.Name,
				Slug:     p.Slug,
				RegionID: regionIDs[p.Region],
			})
			if err != nil {
				return fmt.Errorf("seed body part %s: %w", p.Slug, err)
			}
			partIDs[part.Slug] = part.ID
			summary.BodyParts++
		}

		for _, in := range demoSymptoms {
			if in.BodyPartID != "" {
				in.BodyPartID = partIDs[in.BodyPartID]
			}
			if _, err := a.upsertSymptom(ctx, tx, in); err != nil {
				return fmt.Errorf("seed symptom %s: %w", in.Slug, err)
			}
			summary.Symptoms++
		}

		for _, in := range demoConditions {
			if _, err := a.upsertCondition(ctx, tx, in); err != nil {
				return fmt.Errorf("seed condition %s: %w", in.Slug, err)
			}
			summary.Conditions++
		}

		for _, in := range demoTreatments {
			if _, err := a.upsertTreatment(ctx, tx, in); err != nil {
				return fmt.Errorf("seed treatment %s: %w", in.ConditionSlug, err)
			}
			summary.Treatments++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.log.Info("Demo catalog seeded",
		"regions", summary.Regions,
		"body_parts", summary.BodyParts,
		"symptoms", summary.Symptoms,
		"conditions", summary.Conditions,
		"treatments", summary.Treatments,
	)
	return summary, nil
}
