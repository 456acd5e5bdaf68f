package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
)

type ConditionRepo interface {
	ListEligible(ctx context.Context, tx *gorm.DB, d Demographics) ([]*models.Condition, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Condition, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Condition, error)
	Upsert(ctx context.Context, tx *gorm.DB, condition *models.Condition) (*models.Condition, error)
}

type conditionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConditionRepo(db *gorm.DB, baseLog *logger.Logger) ConditionRepo {
	repoLog := baseLog.With("repo", "ConditionRepo")
	return &conditionRepo{db: db, log: repoLog}
}

func (r *conditionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func orderedEntries(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// ListEligible returns every condition admitted by d, with its weighted
// symptom entries in declaration order.
func (r *conditionRepo) ListEligible(ctx context.Context, tx *gorm.DB, d Demographics) ([]*models.Condition, error) {
	results := []*models.Condition{}
	if err := r.conn(tx).WithContext(ctx).
		Model(&models.Condition{}).
		Scopes(d.Scope).
		Preload("Symptoms", orderedEntries).
		Order("name ASC").
		Order("slug ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetBySlug returns the condition with each entry's symptom expanded, or
// nil when no condition has that slug.
func (r *conditionRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Condition, error) {
	var condition models.Condition
	err := r.conn(tx).WithContext(ctx).
		Preload("Symptoms", orderedEntries).
		Preload("Symptoms.Symptom").
		Where("slug = ?", slug).
		First(&condition).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &condition, nil
}

func (r *conditionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Condition, error) {
	var condition models.Condition
	err := r.conn(tx).WithContext(ctx).
		Preload("Symptoms", orderedEntries).
		Where("id = ?", id).
		First(&condition).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &condition, nil
}

// Upsert writes the condition keyed by slug and replaces its symptom entries
// wholesale. Callers wanting atomicity pass a transaction.
func (r *conditionRepo) Upsert(ctx context.Context, tx *gorm.DB, condition *models.Condition) (*models.Condition, error) {
	transaction := r.conn(tx).WithContext(ctx)

	entries := condition.Symptoms
	condition.Symptoms = nil

	var existing models.Condition
	err := transaction.Where("slug = ?", condition.Slug).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := transaction.Create(condition).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		condition.ID = existing.ID
		condition.CreatedAt = existing.CreatedAt
		if err := transaction.Omit("Symptoms").Save(condition).Error; err != nil {
			return nil, err
		}
		if err := transaction.Where("condition_id = ?", condition.ID).
			Delete(&models.ConditionSymptom{}).Error; err != nil {
			return nil, err
		}
	}

	for i := range entries {
		entries[i].ID = 0
		entries[i].ConditionID = condition.ID
		entries[i].Position = i
		entries[i].Symptom = nil
	}
	if len(entries) > 0 {
		if err := transaction.Create(&entries).Error; err != nil {
			return nil, err
		}
	}
	condition.Symptoms = entries
	return condition, nil
}
