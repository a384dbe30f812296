package acquisition

import (
	"context"

	"github.com/google/uuid"

	"github.com/ils/backend/internal/domain/shared/valueobject"
)

// OrderNotification is the message dispatched to a vendor when an order is
// sent
type OrderNotification struct {
	OrderID     uuid.UUID
	Reference   string
	VendorID    uuid.UUID
	TotalAmount valueobject.Money
	Recipients  []string
	Message     string
}

// RecipientResult reports the dispatch outcome for a single recipient
type RecipientResult struct {
	Email  string `json:"email"`
	Sent   bool   `json:"sent"`
	Reason string `json:"reason,omitempty"`
}

// DispatchResult aggregates per-recipient outcomes of a dispatch
type DispatchResult struct {
	Recipients []RecipientResult
}

// SuccessCount returns the number of recipients the notification reached
func (r DispatchResult) SuccessCount() int {
	count := 0
	for _, rec := range r.Recipients {
		if rec.Sent {
			count++
		}
	}
	return count
}

// OrderNotifier dispatches order notifications to vendors. Sending an order
// only stamps its lines when at least one recipient reports success.
type OrderNotifier interface {
	Dispatch(ctx context.Context, notification OrderNotification) (DispatchResult, error)
}
