package services

import (
	"time"

	"gorm.io/gorm"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/metrics"
	"symptom-checker-server/internal/repos"
)

// Options tunes a Container. Zero values keep the defaults.
type Options struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
	Now           func() time.Time
	Metrics       *metrics.Metrics
}

// Container wires every checker service over one database handle.
type Container struct {
	Sessions   *SessionStore
	Symptoms   *SymptomCatalog
	Conditions *ConditionLookup
	Treatments *TreatmentLookup
	Matcher    *Matcher
	Reports    *ReportGenerator
	Admin      *CatalogAdmin
	Sweeper    *Sweeper
}

func NewContainer(db *gorm.DB, baseLog *logger.Logger, opts Options) *Container {
	symptomRepo := repos.NewSymptomRepo(db, baseLog)
	conditionRepo := repos.NewConditionRepo(db, baseLog)
	treatmentRepo := repos.NewTreatmentRepo(db, baseLog)
	sessionRepo := repos.NewSessionRepo(db, baseLog)
	reportRepo := repos.NewReportRepo(db, baseLog)

	sessions := NewSessionStore(sessionRepo, baseLog,
		WithSessionTTL(opts.SessionTTL),
		WithClock(opts.Now),
		WithSessionMetrics(opts.Metrics),
	)
	treatments := NewTreatmentLookup(treatmentRepo, baseLog)

	return &Container{
		Sessions:   sessions,
		Symptoms:   NewSymptomCatalog(symptomRepo, baseLog),
		Conditions: NewConditionLookup(conditionRepo, baseLog),
		Treatments: treatments,
		Matcher:    NewMatcher(sessions, conditionRepo, opts.Metrics, baseLog),
		Reports:    NewReportGenerator(sessions, symptomRepo, treatments, reportRepo, opts.Metrics, baseLog),
		Admin:      NewCatalogAdmin(db, symptomRepo, conditionRepo, treatmentRepo, baseLog),
		Sweeper:    NewSweeper(sessions, opts.SweepInterval, baseLog),
	}
}
