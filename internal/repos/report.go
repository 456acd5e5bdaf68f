package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
)

type ReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, report *models.Report) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Report, error)
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	repoLog := baseLog.With("repo", "ReportRepo")
	return &reportRepo{db: db, log: repoLog}
}

func (r *reportRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *reportRepo) Create(ctx context.Context, tx *gorm.DB, report *models.Report) error {
	return r.conn(tx).WithContext(ctx).Create(report).Error
}

func (r *reportRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Report, error) {
	var report models.Report
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}
