package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

// GormAccountMetricsRepository implements AccountMetricsRepository using GORM
type GormAccountMetricsRepository struct {
	db *gorm.DB
}

// NewGormAccountMetricsRepository creates a new GormAccountMetricsRepository
func NewGormAccountMetricsRepository(db *gorm.DB) *GormAccountMetricsRepository {
	return &GormAccountMetricsRepository{db: db}
}

// FindByAccountID returns the projected metrics of an account
func (r *GormAccountMetricsRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*acquisition.AccountMetrics, error) {
	var metrics acquisition.AccountMetrics
	if err := r.db.WithContext(ctx).First(&metrics, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &metrics, nil
}

// Upsert inserts or replaces the projection for an account. Reindex handlers
// may race on the same account; last write wins.
func (r *GormAccountMetricsRepository) Upsert(ctx context.Context, metrics *acquisition.AccountMetrics) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			UpdateAll: true,
		}).
		Create(metrics).Error
}

// DeleteByAccountID removes the projection of a deleted account
func (r *GormAccountMetricsRepository) DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&acquisition.AccountMetrics{}).Error
}

// Ensure GormAccountMetricsRepository implements AccountMetricsRepository
var _ acquisition.AccountMetricsRepository = (*GormAccountMetricsRepository)(nil)
