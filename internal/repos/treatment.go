package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
)

type TreatmentRepo interface {
	GetByConditionID(ctx context.Context, tx *gorm.DB, conditionID string) (*models.Treatment, error)
	GetByConditionIDs(ctx context.Context, tx *gorm.DB, conditionIDs []string) ([]*models.Treatment, error)
	Upsert(ctx context.Context, tx *gorm.DB, treatment *models.Treatment) (*models.Treatment, error)
}

type treatmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTreatmentRepo(db *gorm.DB, baseLog *logger.Logger) TreatmentRepo {
	repoLog := baseLog.With("repo", "TreatmentRepo")
	return &treatmentRepo{db: db, log: repoLog}
}

func (r *treatmentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *treatmentRepo) GetByConditionID(ctx context.Context, tx *gorm.DB, conditionID string) (*models.Treatment, error) {
	var treatment models.Treatment
	err := r.conn(tx).WithContext(ctx).
		Where("condition_id = ?", conditionID).
		First(&treatment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &treatment, nil
}

func (r *treatmentRepo) GetByConditionIDs(ctx context.Context, tx *gorm.DB, conditionIDs []string) ([]*models.Treatment, error) {
	results := []*models.Treatment{}
	if len(conditionIDs) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("condition_id IN ?", conditionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert keeps exactly one treatment per condition.
func (r *treatmentRepo) Upsert(ctx context.Context, tx *gorm.DB, treatment *models.Treatment) (*models.Treatment, error) {
	transaction := r.conn(tx).WithContext(ctx)

	var existing models.Treatment
	err := transaction.Where("condition_id = ?", treatment.ConditionID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := transaction.Create(treatment).Error; err != nil {
			return nil, err
		}
		return treatment, nil
	case err != nil:
		return nil, err
	}

	treatment.ID = existing.ID
	treatment.CreatedAt = existing.CreatedAt
	if err := transaction.Save(treatment).Error; err != nil {
		return nil, err
	}
	return treatment, nil
}
