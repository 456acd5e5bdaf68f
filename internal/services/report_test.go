package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/testutil"
)

func matchedSession(t *testing.T, f *fixture, slugs ...string) *models.Session {
	t.Helper()
	s := f.newSession(t, 30, models.SexFemale)
	_, err := f.svc.Matcher.Match(context.Background(), MatchRequest{
		SessionID:        s.SessionID,
		SelectedSymptoms: f.symptomIDs(t, slugs...),
	})
	require.NoError(t, err)
	return s
}

func TestReportGenerator_Generate(t *testing.T) {
	f := newFixture(t)
	s := matchedSession(t, f, "shortness-of-breath", "fatigue", "pale-skin")

	report, err := f.svc.Reports.Generate(context.Background(), s.SessionID)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, s.SessionID, report.SessionID)
	assert.Equal(t, s.ID, report.SessionRef)
	assert.True(t, report.CreatedAt.Equal(f.now))
	assert.Equal(t, models.ReportUser{Age: 30, Sex: models.SexFemale}, report.User)

	require.Len(t, report.Symptoms, 3)
	assert.Equal(t, "Shortness of breath", report.Symptoms[0].Name)
	assert.Equal(t, "chest", report.Symptoms[0].Category)
	assert.Equal(t, "Fatigue", report.Symptoms[1].Name)
	assert.Equal(t, "Pale skin", report.Symptoms[2].Name)

	require.Len(t, report.Conditions, 3)
	assert.Equal(t, "iron-deficiency", report.Conditions[0].Slug)
	assert.Equal(t, 100, report.Conditions[0].Score)
	assert.Equal(t, models.MatchHigh, report.Conditions[0].MatchLevel)

	require.Len(t, report.Treatments, 3)
	for i, c := range report.Conditions {
		assert.Equal(t, c.ConditionID, report.Treatments[i].ConditionID)
		assert.Equal(t, c.Name, report.Treatments[i].Name)
	}
	assert.Equal(t, []string{"Gut support", "Micronutrient balance"}, report.Treatments[0].Approach.FocusAreas)
}

func TestReportGenerator_EveryCallCreatesNewReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := matchedSession(t, f, "fatigue")

	first, err := f.svc.Reports.Generate(ctx, s.SessionID)
	require.NoError(t, err)
	second, err := f.svc.Reports.Generate(ctx, s.SessionID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Conditions, second.Conditions)

	var count int64
	require.NoError(t, f.db.Model(&models.Report{}).Where("session_id = ?", s.SessionID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestReportGenerator_ReportIsFrozen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := matchedSession(t, f, "fatigue", "pale-skin", "shortness-of-breath")

	report, err := f.svc.Reports.Generate(ctx, s.SessionID)
	require.NoError(t, err)

	_, err = f.svc.Matcher.Match(ctx, MatchRequest{
		SessionID:        s.SessionID,
		SelectedSymptoms: f.symptomIDs(t, "headache"),
	})
	require.NoError(t, err)
	_, err = f.svc.Admin.UpsertTreatment(ctx, TreatmentInput{ConditionSlug: "iron-deficiency", Overview: "Rewritten"})
	require.NoError(t, err)

	stored, err := f.svc.Reports.Get(ctx, report.ID)
	require.NoError(t, err)
	require.Len(t, stored.Conditions, 3)
	assert.Equal(t, "iron-deficiency", stored.Conditions[0].Slug)
	require.Len(t, stored.Symptoms, 3)
	assert.Equal(t, "Replenish iron stores and support hemoglobin.", stored.Treatments[0].Overview)
	assert.WithinDuration(t, f.now, stored.CreatedAt, time.Second)
}

func TestReportGenerator_OmitsMissingTreatmentsAndSymptoms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rash := testutil.SeedSymptom(t, ctx, f.db, models.Symptom{Name: "Rash", Slug: "rash", Category: "skin"})
	testutil.SeedCondition(t, ctx, f.db, models.Condition{Name: "Eczema", Slug: "eczema"},
		models.ConditionSymptom{SymptomID: rash.ID, Weight: 1})

	s := f.newSession(t, 30, models.SexFemale)
	_, err := f.svc.Matcher.Match(ctx, MatchRequest{
		SessionID:        s.SessionID,
		SelectedSymptoms: []string{rash.ID, "ghost", f.symptomID(t, "headache")},
	})
	require.NoError(t, err)

	report, err := f.svc.Reports.Generate(ctx, s.SessionID)
	require.NoError(t, err)

	require.Len(t, report.Symptoms, 2)
	assert.Equal(t, "Rash", report.Symptoms[0].Name)
	assert.Equal(t, "Headache", report.Symptoms[1].Name)

	require.Len(t, report.Conditions, 2)
	require.Len(t, report.Treatments, 1)
	assert.Equal(t, f.conditionID(t, "migraine"), report.Treatments[0].ConditionID)
}

func TestReportGenerator_EmptySession(t *testing.T) {
	f := newFixture(t)
	s := f.newSession(t, 40, models.SexMale)

	report, err := f.svc.Reports.Generate(context.Background(), s.SessionID)
	require.NoError(t, err)
	assert.Empty(t, report.Symptoms)
	assert.Empty(t, report.Conditions)
	assert.Empty(t, report.Treatments)
}

func TestReportGenerator_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Reports.Generate(ctx, "  ")
	assert.True(t, IsValidation(err))

	_, err = f.svc.Reports.Generate(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	s := f.newSession(t, 40, models.SexMale)
	f.advance(48 * time.Hour)
	_, err = f.svc.Reports.Generate(ctx, s.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Reports.Get(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}
