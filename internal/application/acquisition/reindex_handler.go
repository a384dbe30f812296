package acquisition

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

// AccountReindexHandler handles AccountDirtyEvent and refreshes the metrics
// projection of the dirty account and every ancestor above it. Recomputation
// reads current state only, so replaying the same event twice lands on the
// same projection.
type AccountReindexHandler struct {
	accountService *AccountService
	accountRepo    acquisition.AccountRepository
	metricsRepo    acquisition.AccountMetricsRepository
	logger         *zap.Logger
}

// NewAccountReindexHandler creates a new handler for account dirty events
func NewAccountReindexHandler(
	accountService *AccountService,
	accountRepo acquisition.AccountRepository,
	metricsRepo acquisition.AccountMetricsRepository,
	logger *zap.Logger,
) *AccountReindexHandler {
	return &AccountReindexHandler{
		accountService: accountService,
		accountRepo:    accountRepo,
		metricsRepo:    metricsRepo,
		logger:         logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *AccountReindexHandler) EventTypes() []string {
	return []string{acquisition.EventTypeAccountDirty}
}

// Handle processes an AccountDirtyEvent
func (h *AccountReindexHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	dirtyEvent, ok := event.(*acquisition.AccountDirtyEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", acquisition.EventTypeAccountDirty),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			acquisition.EventTypeAccountDirty, event.EventType())
	}

	account, err := h.accountRepo.FindByID(ctx, dirtyEvent.AccountID)
	if err != nil {
		if IsNotFound(err) {
			// Account is gone, retire its projection
			if delErr := h.metricsRepo.DeleteByAccountID(ctx, dirtyEvent.AccountID); delErr != nil {
				return fmt.Errorf("removing stale metrics for account %s: %w", dirtyEvent.AccountID, delErr)
			}
			return nil
		}
		return err
	}

	if err := h.reindex(ctx, account); err != nil {
		return err
	}

	// Derived metrics of the ancestors include this account's subtree, so
	// the whole chain up to the root is refreshed too
	ancestors, err := h.accountService.Ancestors(ctx, account)
	if err != nil {
		return err
	}
	for _, ancestor := range ancestors {
		if err := h.reindex(ctx, ancestor); err != nil {
			return err
		}
	}

	h.logger.Debug("account metrics reindexed",
		zap.String("account_id", account.ID.String()),
		zap.Int("ancestors", len(ancestors)),
	)
	return nil
}

func (h *AccountReindexHandler) reindex(ctx context.Context, account *acquisition.Account) error {
	metrics, err := h.accountService.ComputeMetrics(ctx, account)
	if err != nil {
		return fmt.Errorf("computing metrics for account %s: %w", account.ID, err)
	}
	if err := h.metricsRepo.Upsert(ctx, metrics); err != nil {
		return fmt.Errorf("storing metrics for account %s: %w", account.ID, err)
	}
	return nil
}
