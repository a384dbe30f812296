package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

func mustReceipt(t *testing.T, orderID uuid.UUID) *acquisition.Receipt {
	t.Helper()
	receipt, err := acquisition.NewReceipt(uuid.New(), uuid.New(), orderID, decimal.NewFromInt(1))
	require.NoError(t, err)
	return receipt
}

func TestGormReceiptRepository_SaveAndFind(t *testing.T) {
	repo := NewGormReceiptRepository(newTestDB(t))
	ctx := context.Background()

	accountID := uuid.New()
	receipt := mustReceipt(t, uuid.New())
	require.NoError(t, receipt.AddAdjustment(accountID, "shipping", decimal.RequireFromString("12.30")))
	require.NoError(t, receipt.AddAdjustment(accountID, "discount", decimal.RequireFromString("-2.30")))
	require.NoError(t, repo.Save(ctx, receipt))

	t.Run("loads receipt with adjustments", func(t *testing.T) {
		found, err := repo.FindByID(ctx, receipt.ID)
		require.NoError(t, err)
		require.Len(t, found.Adjustments, 2)
		assert.True(t, found.TotalAmount().Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("counts and sums adjustments per account", func(t *testing.T) {
		count, err := repo.CountAdjustmentsByAccount(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		sum, err := repo.SumAdjustmentsByAccount(ctx, accountID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.RequireFromString("10.00")), "got %s", sum)

		none, err := repo.SumAdjustmentsByAccount(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, none.IsZero())
	})
}

func TestGormReceiptRepository_FindByOrder(t *testing.T) {
	repo := NewGormReceiptRepository(newTestDB(t))
	ctx := context.Background()

	orderID := uuid.New()
	require.NoError(t, repo.Save(ctx, mustReceipt(t, orderID)))
	require.NoError(t, repo.Save(ctx, mustReceipt(t, orderID)))
	require.NoError(t, repo.Save(ctx, mustReceipt(t, uuid.New())))

	receipts, err := repo.FindByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Len(t, receipts, 2)

	count, err := repo.CountByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormReceiptRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	receipt := mustReceipt(t, uuid.New())
	require.NoError(t, receipt.AddAdjustment(uuid.New(), "postage", decimal.RequireFromString("4.00")))
	require.NoError(t, repo.Save(ctx, receipt))

	require.NoError(t, repo.Delete(ctx, receipt.ID))

	_, err := repo.FindByID(ctx, receipt.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var adjustments int64
	require.NoError(t, db.Model(&acquisition.AmountAdjustment{}).Where("receipt_id = ?", receipt.ID).Count(&adjustments).Error)
	assert.Zero(t, adjustments)
}
