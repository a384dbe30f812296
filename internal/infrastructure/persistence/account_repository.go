package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.Account, error) {
	var account acquisition.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByIDForOrganisation finds an account by ID within an organisation
func (r *GormAccountRepository) FindByIDForOrganisation(ctx context.Context, organisationID, id uuid.UUID) (*acquisition.Account, error) {
	var account acquisition.Account
	if err := r.db.WithContext(ctx).
		Where("organisation_id = ? AND id = ?", organisationID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAllForOrganisation finds all accounts for an organisation
func (r *GormAccountRepository) FindAllForOrganisation(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) ([]acquisition.Account, error) {
	var accounts []acquisition.Account
	query := r.db.WithContext(ctx).Model(&acquisition.Account{}).
		Where("organisation_id = ?", organisationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindChildren finds the direct children of an account
func (r *GormAccountRepository) FindChildren(ctx context.Context, accountID uuid.UUID) ([]acquisition.Account, error) {
	var accounts []acquisition.Account
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", accountID).
		Order("number ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// CountChildren counts the direct children of an account
func (r *GormAccountRepository) CountChildren(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&acquisition.Account{}).
		Where("parent_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListChildIDs returns the IDs of the direct children of an account
func (r *GormAccountRepository) ListChildIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&acquisition.Account{}).
		Where("parent_id = ?", accountID).
		Order("number ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// SumChildAllocations sums allocated_amount over the direct children
func (r *GormAccountRepository) SumChildAllocations(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&acquisition.Account{}).
		Where("parent_id = ?", accountID).
		Select("COALESCE(SUM(allocated_amount), 0)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *acquisition.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// SaveAll persists several accounts in one transaction. Either every account
// in the chain lands or none does.
func (r *GormAccountRepository) SaveAll(ctx context.Context, accounts []*acquisition.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, account := range accounts {
			if err := tx.Save(account).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes an account
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&acquisition.Account{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR number LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "budget_id":
			query = query.Where("budget_id = ?", value)
		case "library_id":
			query = query.Where("library_id = ?", value)
		case "parent_id":
			query = query.Where("parent_id = ?", value)
		case "roots_only":
			if roots, ok := value.(bool); ok && roots {
				query = query.Where("parent_id IS NULL")
			}
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, AccountSortFields, "number")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// Ensure GormAccountRepository implements AccountRepository
var _ acquisition.AccountRepository = (*GormAccountRepository)(nil)
