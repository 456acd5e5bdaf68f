package repos

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/testutil"
)

func symptomNames(symptoms []*models.Symptom) []string {
	out := make([]string, len(symptoms))
	for i, s := range symptoms {
		out[i] = s.Name
	}
	return out
}

func TestSymptomRepo_ListAppliesDemographics(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSymptomRepo(db, testutil.Logger(t))

	testutil.SeedSymptom(t, ctx, db, models.Symptom{Name: "Cough", Common: true})
	testutil.SeedSymptom(t, ctx, db, models.Symptom{
		Name:        "Hot flushes",
		Eligibility: models.Eligibility{AllowedSex: models.SexFemale, AgeRange: models.AgeRange{Min: 40, Max: testutil.Float(65)}},
	})
	testutil.SeedSymptom(t, ctx, db, models.Symptom{
		Name:        "Teething",
		Eligibility: models.Eligibility{AgeRange: models.AgeRange{Min: 0, Max: testutil.Float(3)}},
	})

	cases := []struct {
		name string
		d    Demographics
		want []string
	}{
		{"unconstrained", Demographics{}, []string{"Cough", "Hot flushes", "Teething"}},
		{"female 50", Demographics{Age: testutil.Float(50), Sex: models.SexFemale}, []string{"Cough", "Hot flushes"}},
		{"male 50", Demographics{Age: testutil.Float(50), Sex: models.SexMale}, []string{"Cough"}},
		{"infant", Demographics{Age: testutil.Float(1)}, []string{"Cough", "Teething"}},
		{"upper bound inclusive", Demographics{Age: testutil.Float(65), Sex: models.SexFemale}, []string{"Cough", "Hot flushes"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.List(ctx, nil, SymptomQuery{Demographics: tc.d})
			require.NoError(t, err)
			assert.Equal(t, tc.want, symptomNames(got))
		})
	}
}

func TestDemographics_ScopeAgreesWithAdmits(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSymptomRepo(db, testutil.Logger(t))

	var all []*models.Symptom
	for i, e := range []models.Eligibility{
		{AllowedSex: models.SexAny},
		{AllowedSex: models.SexMale, AgeRange: models.AgeRange{Min: 10}},
		{AllowedSex: models.SexFemale, AgeRange: models.AgeRange{Min: 5, Max: testutil.Float(50)}},
		{AllowedSex: models.SexAny, AgeRange: models.AgeRange{Min: 30, Max: testutil.Float(30)}},
	} {
		all = append(all, testutil.SeedSymptom(t, ctx, db, models.Symptom{Name: string(rune('A' + i)), Eligibility: e}))
	}

	for _, age := range []*float64{nil, testutil.Float(0), testutil.Float(7.5), testutil.Float(30), testutil.Float(51)} {
		for _, sex := range []models.Sex{"", models.SexMale, models.SexFemale} {
			d := Demographics{Age: age, Sex: sex}
			var want []string
			for _, s := range all {
				if d.Admits(s.Eligibility) {
					want = append(want, s.Name)
				}
			}
			got, err := repo.List(ctx, nil, SymptomQuery{Demographics: d, OrderByName: true})
			require.NoError(t, err)
			names := symptomNames(got)
			sort.Strings(want)
			if want == nil {
				want = []string{}
			}
			assert.Equal(t, want, names)
		}
	}
}

func TestSymptomQuery_MatchesNothing(t *testing.T) {
	assert.False(t, SymptomQuery{}.MatchesNothing())
	assert.True(t, SymptomQuery{RestrictBodyParts: true}.MatchesNothing())
	assert.False(t, SymptomQuery{RestrictBodyParts: true, BodyPartIDs: []string{"p"}}.MatchesNothing())
	assert.True(t, SymptomQuery{Context: &SymptomContext{}}.MatchesNothing())
	assert.False(t, SymptomQuery{Context: &SymptomContext{Categories: []string{"skin"}}}.MatchesNothing())
}

func TestSymptomRepo_ContextUsesEitherDimension(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSymptomRepo(db, testutil.Logger(t))

	region := testutil.SeedRegion(t, ctx, db, "head", 1)
	skull := testutil.SeedBodyPart(t, ctx, db, region.ID, "skull")

	testutil.SeedSymptom(t, ctx, db, models.Symptom{Name: "Dizziness", Category: "neuro", Common: true})
	testutil.SeedSymptom(t, ctx, db, models.Symptom{Name: "Headache", Category: "head", BodyPartID: &skull.ID, Common: true})
	testutil.SeedSymptom(t, ctx, db, models.Symptom{Name: "Rash", Category: "skin", Common: true})
	testutil.SeedSymptom(t, ctx, db, models.Symptom{Name: "Tremor", Category: "neuro"})

	got, err := repo.List(ctx, nil, SymptomQuery{
		CommonOnly:  true,
		Context:     &SymptomContext{Categories: []string{"neuro"}, BodyPartIDs: []string{skull.ID}},
		OrderByName: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dizziness", "Headache"}, symptomNames(got))

	ids, err := repo.BodyPartIDsInRegion(ctx, nil, region.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{skull.ID}, ids)

	got, err = repo.List(ctx, nil, SymptomQuery{RestrictBodyParts: true, BodyPartIDs: ids, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Headache"}, symptomNames(got))
}

func TestConditionRepo_UpsertReplacesEntriesInOrder(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewConditionRepo(db, testutil.Logger(t))

	a := testutil.SeedSymptom(t, ctx, db, models.Symptom{Name: "A"})
	b := testutil.SeedSymptom(t, ctx, db, models.Symptom{Name: "B"})
	c := testutil.SeedSymptom(t, ctx, db, models.Symptom{Name: "C"})

	created, err := repo.Upsert(ctx, nil, &models.Condition{
		Name:        "Flu",
		Slug:        "flu",
		Eligibility: models.Eligibility{AllowedSex: models.SexAny},
		Symptoms: []models.ConditionSymptom{
			{SymptomID: c.ID, Weight: 1},
			{SymptomID: a.ID, Weight: 2},
		},
	})
	require.NoError(t, err)

	updated, err := repo.Upsert(ctx, nil, &models.Condition{
		Name:        "Influenza",
		Slug:        "flu",
		Eligibility: models.Eligibility{AllowedSex: models.SexAny},
		Symptoms: []models.ConditionSymptom{
			{SymptomID: b.ID, Weight: 3},
			{SymptomID: c.ID, Weight: 1},
			{SymptomID: a.ID, Weight: 0.5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := repo.GetBySlug(ctx, nil, "flu")
	require.NoError(t, err)
	assert.Equal(t, "Influenza", got.Name)
	require.Len(t, got.Symptoms, 3)
	assert.Equal(t, []string{"B", "C", "A"}, []string{
		got.Symptoms[0].Symptom.Name, got.Symptoms[1].Symptom.Name, got.Symptoms[2].Symptom.Name,
	})

	var entries int64
	require.NoError(t, db.Model(&models.ConditionSymptom{}).Count(&entries).Error)
	assert.Equal(t, int64(3), entries)

	missing, err := repo.GetBySlug(ctx, nil, "cold")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestConditionRepo_ListEligible(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewConditionRepo(db, testutil.Logger(t))

	testutil.SeedCondition(t, ctx, db, models.Condition{Name: "Zeta"})
	testutil.SeedCondition(t, ctx, db, models.Condition{Name: "Alpha", Slug: "alpha-2"})
	testutil.SeedCondition(t, ctx, db, models.Condition{Name: "Alpha", Slug: "alpha-1"})
	testutil.SeedCondition(t, ctx, db, models.Condition{
		Name:        "Prostatitis",
		Eligibility: models.Eligibility{AllowedSex: models.SexMale, AgeRange: models.AgeRange{Min: 18}},
	})

	got, err := repo.ListEligible(ctx, nil, Demographics{Age: testutil.Float(30), Sex: models.SexFemale})
	require.NoError(t, err)
	slugs := make([]string, len(got))
	for i, c := range got {
		slugs[i] = c.Slug
	}
	assert.Equal(t, []string{"alpha-1", "alpha-2", "Zeta"}, slugs)
}

func TestSessionRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewSessionRepo(db, testutil.Logger(t))
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	live := &models.Session{
		SessionID:         uuid.NewString(),
		Age:               30,
		Sex:               models.SexFemale,
		SelectedSymptoms:  datatypes.JSONSlice[string]{},
		MatchedConditions: datatypes.JSONSlice[models.MatchedCondition]{},
		ExpiresAt:         now.Add(time.Hour),
	}
	stale := &models.Session{
		SessionID:         uuid.NewString(),
		Age:               40,
		Sex:               models.SexMale,
		SelectedSymptoms:  datatypes.JSONSlice[string]{},
		MatchedConditions: datatypes.JSONSlice[models.MatchedCondition]{},
		ExpiresAt:         now,
	}
	require.NoError(t, repo.Create(ctx, nil, live))
	require.NoError(t, repo.Create(ctx, nil, stale))

	require.NoError(t, repo.ReplaceSelection(ctx, nil, live.ID, []string{"s1", "s2"}))
	require.NoError(t, repo.ReplaceMatches(ctx, nil, live.ID, []models.MatchedCondition{{ConditionID: "c1", Score: 50}}))
	require.NoError(t, repo.ReplaceSelection(ctx, nil, live.ID, nil))

	got, err := repo.FindByToken(ctx, nil, live.SessionID)
	require.NoError(t, err)
	assert.Empty(t, got.SelectedSymptoms)
	require.Len(t, got.MatchedConditions, 1)
	assert.Equal(t, 50, got.MatchedConditions[0].Score)

	byID, err := repo.FindByToken(ctx, nil, live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.SessionID, byID.SessionID)

	removed, err := repo.DeleteExpired(ctx, nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	gone, err := repo.FindByToken(ctx, nil, stale.SessionID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTreatmentAndReportRepos(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	treatments := NewTreatmentRepo(db, log)
	reports := NewReportRepo(db, log)

	cond := testutil.SeedCondition(t, ctx, db, models.Condition{Name: "Flu"})
	first := testutil.SeedTreatment(t, ctx, db, cond.ID, "Rest")

	again, err := treatments.Upsert(ctx, nil, &models.Treatment{
		ConditionID: cond.ID,
		Overview:    "Rest and fluids",
		Approach:    datatypes.NewJSONType(models.TreatmentApproach{FocusAreas: []string{"Hydration"}}),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	list, err := treatments.GetByConditionIDs(ctx, nil, []string{cond.ID, "other"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rest and fluids", list[0].Overview)

	none, err := treatments.GetByConditionIDs(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	report := &models.Report{
		SessionID:  "token",
		Symptoms:   datatypes.JSONSlice[models.ReportSymptom]{{SymptomID: "s1", Name: "Cough"}},
		Conditions: datatypes.JSONSlice[models.ReportCondition]{},
		Treatments: datatypes.JSONSlice[models.ReportTreatment]{},
		CreatedAt:  time.Now(),
	}
	require.NoError(t, reports.Create(ctx, nil, report))
	assert.NotEmpty(t, report.ID)

	stored, err := reports.GetByID(ctx, nil, report.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cough", stored.Symptoms[0].Name)

	missing, err := reports.GetByID(ctx, nil, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
