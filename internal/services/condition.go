package services

import (
	"context"
	"strings"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/repos"
)

// ConditionLookup serves condition details by slug.
type ConditionLookup struct {
	conditions repos.ConditionRepo
	log        *logger.Logger
}

func NewConditionLookup(conditions repos.ConditionRepo, baseLog *logger.Logger) *ConditionLookup {
	return &ConditionLookup{
		conditions: conditions,
		log:        baseLog.With("service", "ConditionLookup"),
	}
}

// BySlug returns the condition with each weighted entry's symptom expanded.
func (l *ConditionLookup) BySlug(ctx context.Context, slug string) (*models.Condition, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, notFound("condition")
	}
	condition, err := l.conditions.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, err
	}
	if condition == nil {
		return nil, notFound("condition")
	}
	return condition, nil
}
