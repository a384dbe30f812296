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

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by its ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.Receipt, error) {
	var receipt acquisition.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Adjustments").
		First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByOrder returns all receipts of an order
func (r *GormReceiptRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]acquisition.Receipt, error) {
	var receipts []acquisition.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Adjustments").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// CountByOrder counts the receipts attached to an order
func (r *GormReceiptRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&acquisition.Receipt{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountAdjustmentsByAccount counts adjustments posted to an account
func (r *GormReceiptRepository) CountAdjustmentsByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&acquisition.AmountAdjustment{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumAdjustmentsByAccount sums the signed adjustment amounts posted to an account
func (r *GormReceiptRepository) SumAdjustmentsByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&acquisition.AmountAdjustment{}).
		Where("account_id = ?", accountID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Save creates or updates a receipt together with its adjustments
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *acquisition.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Adjustments").Save(receipt).Error; err != nil {
			return err
		}
		for i := range receipt.Adjustments {
			receipt.Adjustments[i].ReceiptID = receipt.ID
			if err := tx.Save(&receipt.Adjustments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a receipt together with its adjustments
func (r *GormReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", id).Delete(&acquisition.AmountAdjustment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&acquisition.Receipt{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ acquisition.ReceiptRepository = (*GormReceiptRepository)(nil)
