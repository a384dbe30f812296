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

// GormOrderLineRepository implements OrderLineRepository using GORM
type GormOrderLineRepository struct {
	db *gorm.DB
}

// NewGormOrderLineRepository creates a new GormOrderLineRepository
func NewGormOrderLineRepository(db *gorm.DB) *GormOrderLineRepository {
	return &GormOrderLineRepository{db: db}
}

// FindByID finds an order line by its ID
func (r *GormOrderLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.OrderLine, error) {
	var line acquisition.OrderLine
	if err := r.db.WithContext(ctx).
		Preload("Notes").
		First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindByOrder returns all lines of an order
func (r *GormOrderLineRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]acquisition.OrderLine, error) {
	var lines []acquisition.OrderLine
	if err := r.db.WithContext(ctx).
		Preload("Notes").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByAccount returns all lines charged to an account
func (r *GormOrderLineRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]acquisition.OrderLine, error) {
	var lines []acquisition.OrderLine
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// CountByAccount counts the lines charged to an account
func (r *GormOrderLineRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&acquisition.OrderLine{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListIDsByAccount returns the IDs of the lines charged to an account
func (r *GormOrderLineRepository) ListIDsByAccount(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&acquisition.OrderLine{}).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// SumOpenAmounts sums total_amount over the account's open lines. A line is
// open while it is not cancelled and not yet fully received, which matches
// the derived statuses APPROVED, ORDERED and PARTIALLY_RECEIVED.
func (r *GormOrderLineRepository) SumOpenAmounts(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&acquisition.OrderLine{}).
		Where("account_id = ? AND is_cancelled = ? AND received_quantity < quantity", accountID, false).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Save creates or updates an order line together with its notes
func (r *GormOrderLineRepository) Save(ctx context.Context, line *acquisition.OrderLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveTx(tx, line)
	})
}

// SaveAll persists several order lines in one transaction
func (r *GormOrderLineRepository) SaveAll(ctx context.Context, lines []*acquisition.OrderLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			if err := r.saveTx(tx, line); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormOrderLineRepository) saveTx(tx *gorm.DB, line *acquisition.OrderLine) error {
	if err := tx.Omit("Notes").Save(line).Error; err != nil {
		return err
	}
	for i := range line.Notes {
		if err := tx.Save(&line.Notes[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes an order line and its notes
func (r *GormOrderLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&acquisition.Note{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&acquisition.OrderLine{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormOrderLineRepository implements OrderLineRepository
var _ acquisition.OrderLineRepository = (*GormOrderLineRepository)(nil)
