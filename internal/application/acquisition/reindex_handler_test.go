package acquisition

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/ils/backend/internal/domain/acquisition"
)

func TestAccountReindexHandler_Handle(t *testing.T) {
	t.Run("reindexes the account and its ancestors", func(t *testing.T) {
		tree := buildAccountTree(t)
		service := zeroActivityService(tree)

		metricsRepo := new(MockAccountMetricsRepository)
		var reindexed []*acquisition.AccountMetrics
		metricsRepo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			reindexed = append(reindexed, args.Get(1).(*acquisition.AccountMetrics))
		}).Return(nil)

		handler := NewAccountReindexHandler(service, tree.repo, metricsRepo, zap.NewNop())

		event := acquisition.NewAccountDirtyEvent(testOrgID, tree.grandchild.ID)
		err := handler.Handle(context.Background(), event)

		assert.NoError(t, err)
		// Grandchild, ChildA, Root
		assert.Len(t, reindexed, 3)
		assert.Equal(t, tree.grandchild.ID, reindexed[0].AccountID)
		assert.Equal(t, 2, reindexed[0].Depth)
		assert.Equal(t, tree.childA.ID, reindexed[1].AccountID)
		assert.Equal(t, tree.root.ID, reindexed[2].AccountID)
		assert.True(t, decimal.NewFromInt(800).Equal(reindexed[2].Distribution))
	})

	t.Run("replaying the same event lands on the same projection", func(t *testing.T) {
		tree := buildAccountTree(t)
		service := zeroActivityService(tree)

		metricsRepo := new(MockAccountMetricsRepository)
		var reindexed []*acquisition.AccountMetrics
		metricsRepo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			reindexed = append(reindexed, args.Get(1).(*acquisition.AccountMetrics))
		}).Return(nil)

		handler := NewAccountReindexHandler(service, tree.repo, metricsRepo, zap.NewNop())
		event := acquisition.NewAccountDirtyEvent(testOrgID, tree.childB.ID)

		assert.NoError(t, handler.Handle(context.Background(), event))
		assert.NoError(t, handler.Handle(context.Background(), event))

		assert.Len(t, reindexed, 4)
		assert.True(t, reindexed[0].BalanceSelf.Equal(reindexed[2].BalanceSelf))
		assert.True(t, reindexed[1].BalanceTotal.Equal(reindexed[3].BalanceTotal))
	})

	t.Run("deleted account retires its projection", func(t *testing.T) {
		tree := buildAccountTree(t)
		service := zeroActivityService(tree)

		goneID := tree.grandchild.ID
		delete(tree.repo.accounts, goneID)

		metricsRepo := new(MockAccountMetricsRepository)
		metricsRepo.On("DeleteByAccountID", mock.Anything, goneID).Return(nil)

		handler := NewAccountReindexHandler(service, tree.repo, metricsRepo, zap.NewNop())

		err := handler.Handle(context.Background(), acquisition.NewAccountDirtyEvent(testOrgID, goneID))

		assert.NoError(t, err)
		metricsRepo.AssertExpectations(t)
	})

	t.Run("unexpected event type is rejected", func(t *testing.T) {
		tree := buildAccountTree(t)
		service := zeroActivityService(tree)
		handler := NewAccountReindexHandler(service, tree.repo, new(MockAccountMetricsRepository), zap.NewNop())

		err := handler.Handle(context.Background(), acquisition.NewFundsTransferredEvent(testOrgID, tree.childA.ID, tree.childB.ID, decimal.NewFromInt(1)))

		assert.Error(t, err)
	})
}
