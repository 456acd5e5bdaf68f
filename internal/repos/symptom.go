package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
)

type SymptomRepo interface {
	List(ctx context.Context, tx *gorm.DB, q SymptomQuery) ([]*models.Symptom, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Symptom, error)
	GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*models.Symptom, error)
	Upsert(ctx context.Context, tx *gorm.DB, symptom *models.Symptom) (*models.Symptom, error)
	BodyPartIDsInRegion(ctx context.Context, tx *gorm.DB, regionID string) ([]string, error)
	ListRegions(ctx context.Context, tx *gorm.DB) ([]*models.BodyRegion, error)
	UpsertRegion(ctx context.Context, tx *gorm.DB, region *models.BodyRegion) (*models.BodyRegion, error)
	UpsertBodyPart(ctx context.Context, tx *gorm.DB, part *models.BodyPart) (*models.BodyPart, error)
}

type symptomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSymptomRepo(db *gorm.DB, baseLog *logger.Logger) SymptomRepo {
	repoLog := baseLog.With("repo", "SymptomRepo")
	return &symptomRepo{db: db, log: repoLog}
}

func (r *symptomRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *symptomRepo) List(ctx context.Context, tx *gorm.DB, q SymptomQuery) ([]*models.Symptom, error) {
	results := []*models.Symptom{}
	if q.MatchesNothing() {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Model(&models.Symptom{}).
		Scopes(q.Scope).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *symptomRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Symptom, error) {
	results := []*models.Symptom{}
	if len(ids) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *symptomRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*models.Symptom, error) {
	results := []*models.Symptom{}
	if len(slugs) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("slug IN ?", slugs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert inserts the symptom or overwrites the row sharing its slug.
func (r *symptomRepo) Upsert(ctx context.Context, tx *gorm.DB, symptom *models.Symptom) (*models.Symptom, error) {
	transaction := r.conn(tx).WithContext(ctx)

	var existing models.Symptom
	err := transaction.Where("slug = ?", symptom.Slug).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := transaction.Create(symptom).Error; err != nil {
			return nil, err
		}
		return symptom, nil
	case err != nil:
		return nil, err
	}

	symptom.ID = existing.ID
	symptom.CreatedAt = existing.CreatedAt
	if err := transaction.Save(symptom).Error; err != nil {
		return nil, err
	}
	return symptom, nil
}

// BodyPartIDsInRegion projects the distinct part ids of a region.
func (r *symptomRepo) BodyPartIDsInRegion(ctx context.Context, tx *gorm.DB, regionID string) ([]string, error) {
	ids := []string{}
	if err := r.conn(tx).WithContext(ctx).
		Model(&models.BodyPart{}).
		Where("region_id = ?", regionID).
		Distinct().
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *symptomRepo) ListRegions(ctx context.Context, tx *gorm.DB) ([]*models.BodyRegion, error) {
	regions := []*models.BodyRegion{}
	if err := r.conn(tx).WithContext(ctx).
		Preload("Parts", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("display_order ASC").
		Order("name ASC").
		Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *symptomRepo) UpsertRegion(ctx context.Context, tx *gorm.DB, region *models.BodyRegion) (*models.BodyRegion, error) {
	transaction := r.conn(tx).WithContext(ctx)

	var existing models.BodyRegion
	err := transaction.Where("slug = ?", region.Slug).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := transaction.Omit("Parts").Create(region).Error; err != nil {
			return nil, err
		}
		return region, nil
	case err != nil:
		return nil, err
	}

	region.ID = existing.ID
	region.CreatedAt = existing.CreatedAt
	if err := transaction.Omit("Parts").Save(region).Error; err != nil {
		return nil, err
	}
	return region, nil
}

func (r *symptomRepo) UpsertBodyPart(ctx context.Context, tx *gorm.DB, part *models.BodyPart) (*models.BodyPart, error) {
	transaction := r.conn(tx).WithContext(ctx)

	var existing models.BodyPart
	err := transaction.Where("slug = ?", part.Slug).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := transaction.Create(part).Error; err != nil {
			return nil, err
		}
		return part, nil
	case err != nil:
		return nil, err
	}

	part.ID = existing.ID
	part.CreatedAt = existing.CreatedAt
	if err := transaction.Save(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}
