package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/metrics"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/repos"
)

// Match level thresholds, inclusive lower bounds.
const (
	highThreshold     = 75
	moderateThreshold = 55
	fairThreshold     = 35
)

// MatchRequest carries the optional overrides of a match run. Empty fields
// fall back to what the session stores.
type MatchRequest struct {
	SessionID        string
	SelectedSymptoms []string
	Age              *float64
	Sex              models.Sex
}

// Matcher scores eligible conditions against a session's symptom selection.
type Matcher struct {
	sessions   *SessionStore
	conditions repos.ConditionRepo
	metrics    *metrics.Metrics
	log        *logger.Logger
}

func NewMatcher(sessions *SessionStore, conditions repos.ConditionRepo, m *metrics.Metrics, baseLog *logger.Logger) *Matcher {
	return &Matcher{
		sessions:   sessions,
		conditions: conditions,
		metrics:    m,
		log:        baseLog.With("service", "Matcher"),
	}
}

// MatchLevelFor maps a score to its tier.
func MatchLevelFor(score int) models.MatchLevel {
	switch {
	case score >= highThreshold:
		return models.MatchHigh
	case score >= moderateThreshold:
		return models.MatchModerate
	case score >= fairThreshold:
		return models.MatchFair
	default:
		return models.MatchLow
	}
}

// Score returns round(100 * matched / total) over all of the condition's
// entries. A zero total counts as one.
func Score(entries []models.ConditionSymptom, selected map[string]struct{}) int {
	total, matched := 0.0, 0.0
	for _, e := range entries {
		total += e.Weight
		if _, ok := selected[e.SymptomID]; ok {
			matched += e.Weight
		}
	}
	if total == 0 {
		total = 1
	}
	return int(math.Round(100 * matched / total))
}

// Match resolves the session, persists the effective selection, scores every
// eligible condition and persists the ranking. A store failure at any step
// aborts the run without returning partial results.
func (m *Matcher) Match(ctx context.Context, req MatchRequest) ([]models.MatchedCondition, error) {
	start := time.Now()

	session, err := m.sessions.Find(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	age := session.Age
	if req.Age != nil {
		if err := validateAge(*req.Age); err != nil {
			return nil, err
		}
		age = *req.Age
	}
	sex := session.Sex
	if s := models.Sex(strings.ToLower(strings.TrimSpace(string(req.Sex)))); s != "" {
		if err := validateSex(s); err != nil {
			return nil, err
		}
		sex = s
	}

	selection := dedupe(req.SelectedSymptoms)
	if len(selection) == 0 {
		selection = dedupe(session.SelectedSymptoms)
	}

	if _, err := m.sessions.ReplaceSelection(ctx, session.SessionID, selection); err != nil {
		return nil, err
	}

	conditions, err := m.conditions.ListEligible(ctx, nil, repos.Demographics{Age: &age, Sex: sex})
	if err != nil {
		return nil, err
	}

	selected := make(map[string]struct{}, len(selection))
	for _, id := range selection {
		selected[id] = struct{}{}
	}

	ranked := make([]models.MatchedCondition, 0, len(conditions))
	for _, c := range conditions {
		score := Score(c.Symptoms, selected)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, models.MatchedCondition{
			ConditionID: c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			Prevalence:  c.Prevalence,
			Score:       score,
			MatchLevel:  MatchLevelFor(score),
		})
	}
	sortMatches(ranked)

	if _, err := m.sessions.ReplaceMatches(ctx, session.SessionID, ranked); err != nil {
		return nil, err
	}

	m.metrics.RecordMatch(time.Since(start), len(ranked))
	m.log.Debug("Conditions matched",
		"session_id", session.SessionID,
		"selected", len(selection),
		"eligible", len(conditions),
		"matched", len(ranked),
	)
	return ranked, nil
}

// sortMatches orders by score desc, then name asc, then slug asc.
func sortMatches(ranked []models.MatchedCondition) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Slug < b.Slug
	})
}
