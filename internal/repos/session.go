package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *models.Session) error
	FindByToken(ctx context.Context, tx *gorm.DB, token string) (*models.Session, error)
	ReplaceSelection(ctx context.Context, tx *gorm.DB, id string, symptomIDs []string) error
	ReplaceMatches(ctx context.Context, tx *gorm.DB, id string, matches []models.MatchedCondition) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (r *sessionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	return r.conn(tx).WithContext(ctx).Create(session).Error
}

// FindByToken matches either the public session token or the row id. It
// returns nil when neither matches; expiry is the caller's concern.
func (r *sessionRepo) FindByToken(ctx context.Context, tx *gorm.DB, token string) (*models.Session, error) {
	var session models.Session
	err := r.conn(tx).WithContext(ctx).
		Where("session_id = ? OR id = ?", token, token).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ReplaceSelection writes only the selection column so a concurrent match
// write is not clobbered.
func (r *sessionRepo) ReplaceSelection(ctx context.Context, tx *gorm.DB, id string, symptomIDs []string) error {
	if symptomIDs == nil {
		symptomIDs = []string{}
	}
	return r.conn(tx).WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Update("selected_symptoms", datatypes.JSONSlice[string](symptomIDs)).Error
}

// ReplaceMatches writes only the match results column.
func (r *sessionRepo) ReplaceMatches(ctx context.Context, tx *gorm.DB, id string, matches []models.MatchedCondition) error {
	if matches == nil {
		matches = []models.MatchedCondition{}
	}
	return r.conn(tx).WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Update("matched_conditions", datatypes.JSONSlice[models.MatchedCondition](matches)).Error
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	result := r.conn(tx).WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.Session{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		r.log.Info("Expired sessions removed", "count", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
