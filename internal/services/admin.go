package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/repos"
)

// DefaultWeight is written for condition entries that omit a weight.
const DefaultWeight = 1.0

// EligibilityInput declares who a symptom or condition applies to.
type EligibilityInput struct {
	AllowedSex string   `json:"allowedSex" validate:"omitempty,oneof=any male female"`
	AgeMin     *float64 `json:"ageMin" validate:"omitempty,gte=0"`
	AgeMax     *float64 `json:"ageMax" validate:"omitempty,gte=0"`
}

type RegionInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Slug  string `json:"slug" validate:"required,max=100"`
	Order int    `json:"order"`
}

type BodyPartInput struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Slug     string   `json:"slug" validate:"required,max=100"`
	RegionID string   `json:"regionId" validate:"required"`
	Synonyms []string `json:"synonyms"`
}

type SymptomInput struct {
	Name           string   `json:"name" validate:"required,max=150"`
	Slug           string   `json:"slug" validate:"required,max=150"`
	Category       string   `json:"category" validate:"required,max=100"`
	BodyPartID     string   `json:"bodyPartId"`
	Common         bool     `json:"common"`
	RedFlag        bool     `json:"redFlag"`
	Synonyms       []string `json:"synonyms"`
	SearchableText string   `json:"searchableText"`
	EligibilityInput
}

// ConditionSymptomInput names a symptom by id or slug. A nil Weight is
// stored as DefaultWeight.
type ConditionSymptomInput struct {
	SymptomID   string   `json:"symptomId" validate:"required_without=SymptomSlug"`
	SymptomSlug string   `json:"symptomSlug" validate:"required_without=SymptomID"`
	Weight      *float64 `json:"weight" validate:"omitempty,gte=0"`
}

type ConditionInput struct {
	Name           string                  `json:"name" validate:"required,max=150"`
	Slug           string                  `json:"slug" validate:"required,max=150"`
	Description    string                  `json:"description"`
	Overview       string                  `json:"overview"`
	Prevalence     string                  `json:"prevalence" validate:"max=100"`
	RiskFactors    []string                `json:"riskFactors"`
	WhenToSeekHelp string                  `json:"whenToSeekHelp"`
	Perspective    string                  `json:"perspective"`
	CommonSymptoms []string                `json:"commonSymptoms"`
	Symptoms       []ConditionSymptomInput `json:"symptoms" validate:"dive"`
	EligibilityInput
}

type TreatmentInput struct {
	ConditionID    string                   `json:"conditionId" validate:"required_without=ConditionSlug"`
	ConditionSlug  string                   `json:"conditionSlug" validate:"required_without=ConditionID"`
	Overview       string                   `json:"overview"`
	Lifestyle      []string                 `json:"lifestyle"`
	Diet           []string                 `json:"diet"`
	Approach       models.TreatmentApproach `json:"approach"`
	Precautions    []string                 `json:"precautions"`
	WhenToSeekHelp string                   `json:"whenToSeekHelp"`
}

// CatalogAdmin writes reference data. Every write is an upsert keyed by slug
// (or by condition for treatments) and runs in its own transaction.
type CatalogAdmin struct {
	db         *gorm.DB
	symptoms   repos.SymptomRepo
	conditions repos.ConditionRepo
	treatments repos.TreatmentRepo
	validate   *validator.Validate
	log        *logger.Logger
}

func NewCatalogAdmin(
	db *gorm.DB,
	symptoms repos.SymptomRepo,
	conditions repos.ConditionRepo,
	treatments repos.TreatmentRepo,
	baseLog *logger.Logger,
) *CatalogAdmin {
	return &CatalogAdmin{
		db:         db,
		symptoms:   symptoms,
		conditions: conditions,
		treatments: treatments,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		log:        baseLog.With("service", "CatalogAdmin"),
	}
}

func (a *CatalogAdmin) check(in interface{}) error {
	err := a.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return invalid(fe.Namespace(), fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
	}
	return err
}

func (a *CatalogAdmin) UpsertRegion(ctx context.Context, in RegionInput) (*models.BodyRegion, error) {
	var out *models.BodyRegion
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = a.upsertRegion(ctx, tx, in)
		return err
	})
	return out, err
}

func (a *CatalogAdmin) UpsertBodyPart(ctx context.Context, in BodyPartInput) (*models.BodyPart, error) {
	var out *models.BodyPart
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = a.upsertBodyPart(ctx, tx, in)
		return err
	})
	return out, err
}

func (a *CatalogAdmin) UpsertSymptom(ctx context.Context, in SymptomInput) (*models.Symptom, error) {
	var out *models.Symptom
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = a.upsertSymptom(ctx, tx, in)
		return err
	})
	return out, err
}

func (a *CatalogAdmin) UpsertCondition(ctx context.Context, in ConditionInput) (*models.Condition, error) {
	var out *models.Condition
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = a.upsertCondition(ctx, tx, in)
		return err
	})
	return out, err
}

func (a *CatalogAdmin) UpsertTreatment(ctx context.Context, in TreatmentInput) (*models.Treatment, error) {
	var out *models.Treatment
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = a.upsertTreatment(ctx, tx, in)
		return err
	})
	return out, err
}

func (a *CatalogAdmin) upsertRegion(ctx context.Context, tx *gorm.DB, in RegionInput) (*models.BodyRegion, error) {
	if err := a.check(in); err != nil {
		return nil, err
	}
	return a.symptoms.UpsertRegion(ctx, tx, &models.BodyRegion{
		Name:  strings.TrimSpace(in.Name),
		Slug:  strings.TrimSpace(in.Slug),
		Order: in.Order,
	})
}

func (a *CatalogAdmin) upsertBodyPart(ctx context.Context, tx *gorm.DB, in BodyPartInput) (*models.BodyPart, error) {
	if err := a.check(in); err != nil {
		return nil, err
	}
	return a.symptoms.UpsertBodyPart(ctx, tx, &models.BodyPart{
		Name:     strings.TrimSpace(in.Name),
		Slug:     strings.TrimSpace(in.Slug),
		RegionID: in.RegionID,
		Synonyms: jsonStrings(in.Synonyms),
	})
}

func (a *CatalogAdmin) upsertSymptom(ctx context.Context, tx *gorm.DB, in SymptomInput) (*models.Symptom, error) {
	if err := a.check(in); err != nil {
		return nil, err
	}
	eligibility, err := buildEligibility(in.EligibilityInput)
	if err != nil {
		return nil, err
	}
	symptom := &models.Symptom{
		Name:           strings.TrimSpace(in.Name),
		Slug:           strings.TrimSpace(in.Slug),
		Category:       strings.TrimSpace(in.Category),
		Common:         in.Common,
		RedFlag:        in.RedFlag,
		Synonyms:       jsonStrings(in.Synonyms),
		SearchableText: in.SearchableText,
		Eligibility:    eligibility,
	}
	if id := strings.TrimSpace(in.BodyPartID); id != "" {
		symptom.BodyPartID = &id
	}
	return a.symptoms.Upsert(ctx, tx, symptom)
}

func (a *CatalogAdmin) upsertCondition(ctx context.Context, tx *gorm.DB, in ConditionInput) (*models.Condition, error) {
	if err := a.check(in); err != nil {
		return nil, err
	}
	eligibility, err := buildEligibility(in.EligibilityInput)
	if err != nil {
		return nil, err
	}
	entries, err := a.resolveEntries(ctx, tx, in.Symptoms)
	if err != nil {
		return nil, err
	}
	return a.conditions.Upsert(ctx, tx, &models.Condition{
		Name:           strings.TrimSpace(in.Name),
		Slug:           strings.TrimSpace(in.Slug),
		Description:    in.Description,
		Overview:       in.Overview,
		Prevalence:     in.Prevalence,
		RiskFactors:    jsonStrings(in.RiskFactors),
		WhenToSeekHelp: in.WhenToSeekHelp,
		Perspective:    in.Perspective,
		CommonSymptoms: jsonStrings(in.CommonSymptoms),
		Eligibility:    eligibility,
		Symptoms:       entries,
	})
}

// resolveEntries maps slugs to ids, rejects unknown symptoms and writes the
// default weight where none was given.
func (a *CatalogAdmin) resolveEntries(ctx context.Context, tx *gorm.DB, in []ConditionSymptomInput) ([]models.ConditionSymptom, error) {
	var slugs, ids []string
	for _, e := range in {
		if e.SymptomID != "" {
			ids = append(ids, e.SymptomID)
		} else {
			slugs = append(slugs, e.SymptomSlug)
		}
	}

	bySlug := map[string]string{}
	found, err := a.symptoms.GetBySlugs(ctx, tx, slugs)
	if err != nil {
		return nil, err
	}
	for _, s := range found {
		bySlug[s.Slug] = s.ID
	}
	known := map[string]struct{}{}
	foundIDs, err := a.symptoms.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range foundIDs {
		known[s.ID] = struct{}{}
	}

	entries := make([]models.ConditionSymptom, 0, len(in))
	for i, e := range in {
		id := e.SymptomID
		if id == "" {
			id = bySlug[e.SymptomSlug]
			if id == "" {
				return nil, invalid(fmt.Sprintf("symptoms[%d].symptomSlug", i), "unknown symptom "+e.SymptomSlug)
			}
		} else if _, ok := known[id]; !ok {
			return nil, invalid(fmt.Sprintf("symptoms[%d].symptomId", i), "unknown symptom "+id)
		}

		weight := DefaultWeight
		if e.Weight != nil {
			weight = *e.Weight
		}
		entries = append(entries, models.ConditionSymptom{SymptomID: id, Weight: weight})
	}
	return entries, nil
}

func (a *CatalogAdmin) upsertTreatment(ctx context.Context, tx *gorm.DB, in TreatmentInput) (*models.Treatment, error) {
	if err := a.check(in); err != nil {
		return nil, err
	}

	var condition *models.Condition
	var err error
	if in.ConditionID != "" {
		condition, err = a.conditions.GetByID(ctx, tx, in.ConditionID)
	} else {
		condition, err = a.conditions.GetBySlug(ctx, tx, in.ConditionSlug)
	}
	if err != nil {
		return nil, err
	}
	if condition == nil {
		return nil, notFound("condition")
	}

	approach := models.TreatmentApproach{
		RootCauses: nonNil(in.Approach.RootCauses),
		FocusAreas: nonNil(in.Approach.FocusAreas),
	}
	return a.treatments.Upsert(ctx, tx, &models.Treatment{
		ConditionID:    condition.ID,
		Overview:       in.Overview,
		Lifestyle:      jsonStrings(in.Lifestyle),
		Diet:           jsonStrings(in.Diet),
		Approach:       datatypes.NewJSONType(approach),
		Precautions:    jsonStrings(in.Precautions),
		WhenToSeekHelp: in.WhenToSeekHelp,
	})
}

func buildEligibility(in EligibilityInput) (models.Eligibility, error) {
	e := models.Eligibility{AllowedSex: models.SexAny}
	if in.AllowedSex != "" {
		e.AllowedSex = models.Sex(in.AllowedSex)
	}
	if in.AgeMin != nil {
		e.AgeRange.Min = *in.AgeMin
	}
	if in.AgeMax != nil {
		if *in.AgeMax < e.AgeRange.Min {
			return e, invalid("ageMax", "ageMax must not be below ageMin")
		}
		upper := *in.AgeMax
		e.AgeRange.Max = &upper
	}
	return e, nil
}

func jsonStrings(in []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](nonNil(in))
}
