package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/testutil"
)

// fixture is a seeded demo catalog with a controllable clock.
type fixture struct {
	db  *gorm.DB
	svc *Container
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:  testutil.DB(t),
		now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewContainer(f.db, testutil.Logger(t), Options{
		Now: func() time.Time { return f.now },
	})
	_, err := f.svc.Admin.SeedDemo(context.Background())
	require.NoError(t, err)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) symptomID(t *testing.T, slug string) string {
	t.Helper()
	var s models.Symptom
	require.NoError(t, f.db.Where("slug = ?", slug).First(&s).Error)
	return s.ID
}

func (f *fixture) symptomIDs(t *testing.T, slugs ...string) []string {
	t.Helper()
	ids := make([]string, len(slugs))
	for i, slug := range slugs {
		ids[i] = f.symptomID(t, slug)
	}
	return ids
}

func (f *fixture) conditionID(t *testing.T, slug string) string {
	t.Helper()
	var c models.Condition
	require.NoError(t, f.db.Where("slug = ?", slug).First(&c).Error)
	return c.ID
}

func (f *fixture) regionID(t *testing.T, slug string) string {
	t.Helper()
	var r models.BodyRegion
	require.NoError(t, f.db.Where("slug = ?", slug).First(&r).Error)
	return r.ID
}

func (f *fixture) newSession(t *testing.T, age float64, sex models.Sex) *models.Session {
	t.Helper()
	s, err := f.svc.Sessions.Create(context.Background(), age, sex)
	require.NoError(t, err)
	return s
}

func names(symptoms []*models.Symptom) []string {
	out := make([]string, len(symptoms))
	for i, s := range symptoms {
		out[i] = s.Name
	}
	return out
}

func ptr(v float64) *float64 { return &v }
