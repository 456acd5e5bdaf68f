package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/metrics"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/repos"
)

// DefaultSessionTTL is how long a session stays reachable after creation.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore owns the lifecycle of checker sessions. Expiry is enforced on
// every read, whether or not the sweeper has removed the row yet.
type SessionStore struct {
	repo    repos.SessionRepo
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
	log     *logger.Logger
}

// SessionStoreOption customises a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionTTL overrides DefaultSessionTTL. Non-positive values are ignored.
func WithSessionTTL(ttl time.Duration) SessionStoreOption {
	return func(s *SessionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

func WithSessionMetrics(m *metrics.Metrics) SessionStoreOption {
	return func(s *SessionStore) {
		s.metrics = m
	}
}

func NewSessionStore(repo repos.SessionRepo, baseLog *logger.Logger, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		repo: repo,
		ttl:  DefaultSessionTTL,
		now:  func() time.Time { return time.Now().UTC() },
		log:  baseLog.With("service", "SessionStore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now exposes the store's clock to collaborators that must agree with it.
func (s *SessionStore) Now() time.Time {
	return s.now()
}

// Create starts a session with an empty selection and no matches.
func (s *SessionStore) Create(ctx context.Context, age float64, sex models.Sex) (*models.Session, error) {
	if err := validateAge(age); err != nil {
		return nil, err
	}
	if err := validateSex(sex); err != nil {
		return nil, err
	}

	now := s.now()
	session := &models.Session{
		SessionID:         uuid.NewString(),
		Age:               age,
		Sex:               sex,
		SelectedSymptoms:  datatypes.JSONSlice[string]{},
		MatchedConditions: datatypes.JSONSlice[models.MatchedCondition]{},
		ExpiresAt:         now.Add(s.ttl),
	}
	session.CreatedAt = now
	session.UpdatedAt = now

	if err := s.repo.Create(ctx, nil, session); err != nil {
		s.log.Error("Failed to create session", "error", err)
		return nil, err
	}
	s.metrics.RecordSessionCreated()
	s.log.Debug("Session created", "session_id", session.SessionID, "expires_at", session.ExpiresAt)
	return session, nil
}

// Find resolves a session by its public token or internal id. Missing and
// expired sessions both yield ErrNotFound.
func (s *SessionStore) Find(ctx context.Context, sessionID string) (*models.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, notFound("session")
	}
	session, err := s.repo.FindByToken(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.ExpiredAt(s.now()) {
		return nil, notFound("session")
	}
	if session.SelectedSymptoms == nil {
		session.SelectedSymptoms = datatypes.JSONSlice[string]{}
	}
	if session.MatchedConditions == nil {
		session.MatchedConditions = datatypes.JSONSlice[models.MatchedCondition]{}
	}
	return session, nil
}

// ReplaceSelection overwrites the session's selected symptoms and returns the
// updated session. Duplicates are dropped, keeping first occurrences.
func (s *SessionStore) ReplaceSelection(ctx context.Context, sessionID string, symptomIDs []string) (*models.Session, error) {
	session, err := s.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	selection := dedupe(symptomIDs)
	if err := s.repo.ReplaceSelection(ctx, nil, session.ID, selection); err != nil {
		return nil, err
	}
	session.SelectedSymptoms = selection
	return session, nil
}

// ReplaceMatches overwrites the session's ranked match list.
func (s *SessionStore) ReplaceMatches(ctx context.Context, sessionID string, matches []models.MatchedCondition) (*models.Session, error) {
	session, err := s.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []models.MatchedCondition{}
	}
	if err := s.repo.ReplaceMatches(ctx, nil, session.ID, matches); err != nil {
		return nil, err
	}
	session.MatchedConditions = matches
	return session, nil
}

// DeleteExpired removes every session whose expiry has passed.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, nil, s.now())
	if err != nil {
		return 0, err
	}
	s.metrics.RecordSessionsSwept(n)
	return n, nil
}

func validateAge(age float64) error {
	if math.IsNaN(age) || math.IsInf(age, 0) || age < 0 {
		return invalid("age", "age must be a finite number greater than or equal to 0")
	}
	return nil
}

func validateSex(sex models.Sex) error {
	if !sex.IsPatientSex() {
		return invalid("sex", "sex must be male or female")
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
