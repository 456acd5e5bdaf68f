package services

import (
	"context"
	"strings"

	"gorm.io/datatypes"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/metrics"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/repos"
)

// fallbackTreatmentName labels a treatment whose condition is missing from
// the session's match list.
const fallbackTreatmentName = "Condition"

// ReportGenerator freezes a session's current state into a new report.
type ReportGenerator struct {
	sessions   *SessionStore
	symptoms   repos.SymptomRepo
	treatments *TreatmentLookup
	reports    repos.ReportRepo
	metrics    *metrics.Metrics
	log        *logger.Logger
}

func NewReportGenerator(
	sessions *SessionStore,
	symptoms repos.SymptomRepo,
	treatments *TreatmentLookup,
	reports repos.ReportRepo,
	m *metrics.Metrics,
	baseLog *logger.Logger,
) *ReportGenerator {
	return &ReportGenerator{
		sessions:   sessions,
		symptoms:   symptoms,
		treatments: treatments,
		reports:    reports,
		metrics:    m,
		log:        baseLog.With("service", "ReportGenerator"),
	}
}

// Generate persists a new report for the session. Every call creates a new
// report, even when the session has not changed.
func (g *ReportGenerator) Generate(ctx context.Context, sessionID string) (*models.Report, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, invalid("sessionId", "sessionId is required")
	}

	session, err := g.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	symptoms, err := g.expandSymptoms(ctx, session.SelectedSymptoms)
	if err != nil {
		return nil, err
	}

	conditions := make([]models.ReportCondition, 0, len(session.MatchedConditions))
	conditionIDs := make([]string, 0, len(session.MatchedConditions))
	names := make(map[string]string, len(session.MatchedConditions))
	for _, mc := range session.MatchedConditions {
		conditions = append(conditions, models.ReportCondition{
			ConditionID: mc.ConditionID,
			Name:        mc.Name,
			Slug:        mc.Slug,
			Score:       mc.Score,
			MatchLevel:  mc.MatchLevel,
		})
		if mc.ConditionID != "" {
			conditionIDs = append(conditionIDs, mc.ConditionID)
			names[mc.ConditionID] = mc.Name
		}
	}

	byCondition, err := g.treatments.ByConditions(ctx, conditionIDs)
	if err != nil {
		return nil, err
	}
	treatments := make([]models.ReportTreatment, 0, len(byCondition))
	for _, id := range conditionIDs {
		t, ok := byCondition[id]
		if !ok {
			continue
		}
		name := names[id]
		if name == "" {
			name = fallbackTreatmentName
		}
		treatments = append(treatments, snapshotTreatment(t, name))
	}

	report := &models.Report{
		SessionID:  session.SessionID,
		SessionRef: session.ID,
		User:       models.ReportUser{Age: session.Age, Sex: session.Sex},
		Symptoms:   symptoms,
		Conditions: conditions,
		Treatments: treatments,
		CreatedAt:  g.sessions.Now(),
	}
	if err := g.reports.Create(ctx, nil, report); err != nil {
		g.log.Error("Failed to persist report", "session_id", session.SessionID, "error", err)
		return nil, err
	}

	g.metrics.RecordReportGenerated()
	g.log.Info("Report generated", "report", report.ID, "session_id", session.SessionID)
	return report, nil
}

// Get returns a stored report by id.
func (g *ReportGenerator) Get(ctx context.Context, id string) (*models.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, notFound("report")
	}
	report, err := g.reports.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, notFound("report")
	}
	return report, nil
}

// expandSymptoms resolves the selection in order, skipping ids that no
// longer resolve.
func (g *ReportGenerator) expandSymptoms(ctx context.Context, ids []string) (datatypes.JSONSlice[models.ReportSymptom], error) {
	out := datatypes.JSONSlice[models.ReportSymptom]{}
	if len(ids) == 0 {
		return out, nil
	}
	found, err := g.symptoms.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Symptom, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, models.ReportSymptom{SymptomID: s.ID, Name: s.Name, Category: s.Category})
	}
	return out, nil
}

func snapshotTreatment(t *models.Treatment, name string) models.ReportTreatment {
	approach := t.Approach.Data()
	return models.ReportTreatment{
		ConditionID:    t.ConditionID,
		Name:           name,
		Overview:       t.Overview,
		Lifestyle:      nonNil(t.Lifestyle),
		Diet:           nonNil(t.Diet),
		Approach:       models.TreatmentApproach{RootCauses: nonNil(approach.RootCauses), FocusAreas: nonNil(approach.FocusAreas)},
		Precautions:    nonNil(t.Precautions),
		WhenToSeekHelp: t.WhenToSeekHelp,
	}
}

func nonNil(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
