package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

func mustOrderLine(t *testing.T, orderID, accountID uuid.UUID, quantity int64, amount string) *acquisition.OrderLine {
	t.Helper()
	unit, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	line, err := acquisition.NewOrderLine(uuid.New(), uuid.New(), orderID, accountID, uuid.New(), quantity, unit)
	require.NoError(t, err)
	return line
}

func TestGormOrderLineRepository_SaveAndFind(t *testing.T) {
	repo := NewGormOrderLineRepository(newTestDB(t))
	ctx := context.Background()

	line := mustOrderLine(t, uuid.New(), uuid.New(), 3, "12.50")
	require.NoError(t, line.AddNote(acquisition.NoteTypeStaff, "rush order"))
	require.NoError(t, repo.Save(ctx, line))

	t.Run("loads line with notes", func(t *testing.T) {
		found, err := repo.FindByID(ctx, line.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), found.Quantity)
		assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("37.50")))
		require.Len(t, found.Notes, 1)
		assert.Equal(t, "rush order", found.Notes[0].Content)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderLineRepository_FindByOrder(t *testing.T) {
	repo := NewGormOrderLineRepository(newTestDB(t))
	ctx := context.Background()

	orderID := uuid.New()
	first := mustOrderLine(t, orderID, uuid.New(), 1, "10.00")
	second := mustOrderLine(t, orderID, uuid.New(), 2, "5.00")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, repo.SaveAll(ctx, []*acquisition.OrderLine{second, first}))

	lines, err := repo.FindByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, first.ID, lines[0].ID)
	assert.Equal(t, second.ID, lines[1].ID)
}

func TestGormOrderLineRepository_SumOpenAmounts(t *testing.T) {
	repo := NewGormOrderLineRepository(newTestDB(t))
	ctx := context.Background()

	accountID := uuid.New()

	open := mustOrderLine(t, uuid.New(), accountID, 2, "10.25")

	cancelled := mustOrderLine(t, uuid.New(), accountID, 1, "99.00")
	require.NoError(t, cancelled.Cancel())

	received := mustOrderLine(t, uuid.New(), accountID, 1, "50.00")
	received.MarkOrdered(time.Now())
	require.NoError(t, received.AddReceivedQuantity(1))

	partial := mustOrderLine(t, uuid.New(), accountID, 4, "1.00")
	partial.MarkOrdered(time.Now())
	require.NoError(t, partial.AddReceivedQuantity(2))

	require.NoError(t, repo.SaveAll(ctx, []*acquisition.OrderLine{open, cancelled, received, partial}))

	// Cancelled and fully received lines carry no encumbrance; the
	// partially received line still counts in full.
	sum, err := repo.SumOpenAmounts(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("24.50")), "got %s", sum)
}

func TestGormOrderLineRepository_ByAccount(t *testing.T) {
	repo := NewGormOrderLineRepository(newTestDB(t))
	ctx := context.Background()

	accountID := uuid.New()
	line := mustOrderLine(t, uuid.New(), accountID, 1, "7.00")
	require.NoError(t, repo.Save(ctx, line))
	require.NoError(t, repo.Save(ctx, mustOrderLine(t, uuid.New(), uuid.New(), 1, "3.00")))

	count, err := repo.CountByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	ids, err := repo.ListIDsByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{line.ID}, ids)

	lines, err := repo.FindByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, line.ID, lines[0].ID)
}

func TestGormOrderLineRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderLineRepository(db)
	ctx := context.Background()

	line := mustOrderLine(t, uuid.New(), uuid.New(), 1, "4.00")
	require.NoError(t, line.AddNote(acquisition.NoteTypeVendor, "backordered"))
	require.NoError(t, repo.Save(ctx, line))

	require.NoError(t, repo.Delete(ctx, line.ID))

	_, err := repo.FindByID(ctx, line.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var noteCount int64
	require.NoError(t, db.Model(&acquisition.Note{}).Where("parent_id = ?", line.ID).Count(&noteCount).Error)
	assert.Zero(t, noteCount)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}
