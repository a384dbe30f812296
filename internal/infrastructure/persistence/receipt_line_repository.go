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

// GormReceiptLineRepository implements ReceiptLineRepository using GORM
type GormReceiptLineRepository struct {
	db *gorm.DB
}

// NewGormReceiptLineRepository creates a new GormReceiptLineRepository
func NewGormReceiptLineRepository(db *gorm.DB) *GormReceiptLineRepository {
	return &GormReceiptLineRepository{db: db}
}

// FindByID finds a receipt line by its ID
func (r *GormReceiptLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.ReceiptLine, error) {
	var line acquisition.ReceiptLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindByReceipt returns all lines of a receipt
func (r *GormReceiptLineRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]acquisition.ReceiptLine, error) {
	var lines []acquisition.ReceiptLine
	if err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Order("receipt_date ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// CountByReceipt counts the lines of a receipt
func (r *GormReceiptLineRepository) CountByReceipt(ctx context.Context, receiptID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&acquisition.ReceiptLine{}).
		Where("receipt_id = ?", receiptID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantityByOrderLine sums received quantity across all receipt lines of
// an order line
func (r *GormReceiptLineRepository) SumQuantityByOrderLine(ctx context.Context, orderLineID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&acquisition.ReceiptLine{}).
		Where("order_line_id = ?", orderLineID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// SumAmountsByAccount sums quantity*amount over the receipt lines charged to
// an account
func (r *GormReceiptLineRepository) SumAmountsByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&acquisition.ReceiptLine{}).
		Where("account_id = ?", accountID).
		Select("COALESCE(SUM(quantity * amount), 0)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Save creates a receipt line
func (r *GormReceiptLineRepository) Save(ctx context.Context, line *acquisition.ReceiptLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// Ensure GormReceiptLineRepository implements ReceiptLineRepository
var _ acquisition.ReceiptLineRepository = (*GormReceiptLineRepository)(nil)
