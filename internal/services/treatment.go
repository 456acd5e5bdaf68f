package services

import (
	"context"
	"strings"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/repos"
)

// TreatmentLookup returns the guidance bound to a condition. It never
// synthesises guidance for conditions without a record.
type TreatmentLookup struct {
	treatments repos.TreatmentRepo
	log        *logger.Logger
}

func NewTreatmentLookup(treatments repos.TreatmentRepo, baseLog *logger.Logger) *TreatmentLookup {
	return &TreatmentLookup{
		treatments: treatments,
		log:        baseLog.With("service", "TreatmentLookup"),
	}
}

func (l *TreatmentLookup) ByCondition(ctx context.Context, conditionID string) (*models.Treatment, error) {
	conditionID = strings.TrimSpace(conditionID)
	if conditionID == "" {
		return nil, notFound("treatment")
	}
	treatment, err := l.treatments.GetByConditionID(ctx, nil, conditionID)
	if err != nil {
		return nil, err
	}
	if treatment == nil {
		return nil, notFound("treatment")
	}
	return treatment, nil
}

// ByConditions returns the treatments that exist for conditionIDs, keyed by
// condition id. Conditions without a treatment are absent from the map.
func (l *TreatmentLookup) ByConditions(ctx context.Context, conditionIDs []string) (map[string]*models.Treatment, error) {
	treatments, err := l.treatments.GetByConditionIDs(ctx, nil, conditionIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*models.Treatment, len(treatments))
	for _, t := range treatments {
		out[t.ConditionID] = t
	}
	return out, nil
}
