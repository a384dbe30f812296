package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

// GormBudgetRepository implements BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget by its ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.Budget, error) {
	var budget acquisition.Budget
	if err := r.db.WithContext(ctx).First(&budget, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &budget, nil
}

// FindActiveForOrganisation returns the active budget of an organisation
func (r *GormBudgetRepository) FindActiveForOrganisation(ctx context.Context, organisationID uuid.UUID) (*acquisition.Budget, error) {
	var budget acquisition.Budget
	if err := r.db.WithContext(ctx).
		Where("organisation_id = ? AND is_active = ?", organisationID, true).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &budget, nil
}

// Save creates or updates a budget
func (r *GormBudgetRepository) Save(ctx context.Context, budget *acquisition.Budget) error {
	return r.db.WithContext(ctx).Save(budget).Error
}

// Ensure GormBudgetRepository implements BudgetRepository
var _ acquisition.BudgetRepository = (*GormBudgetRepository)(nil)
