package acquisition

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeReceipt     = "AcqReceipt"
	AggregateTypeReceiptLine = "AcqReceiptLine"
)

// Event type constants
const (
	EventTypeReceiptCreated     = "AcqReceiptCreated"
	EventTypeReceiptLineCreated = "AcqReceiptLineCreated"
)

// ReceiptCreatedEvent is raised when a receipt is created
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID uuid.UUID `json:"receipt_id"`
	OrderID   uuid.UUID `json:"order_id"`
}

// NewReceiptCreatedEvent creates a new ReceiptCreatedEvent
func NewReceiptCreatedEvent(receipt *Receipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCreated, AggregateTypeReceipt, receipt.ID, receipt.OrganisationID),
		ReceiptID:       receipt.ID,
		OrderID:         receipt.OrderID,
	}
}

// EventType returns the event type name
func (e *ReceiptCreatedEvent) EventType() string {
	return EventTypeReceiptCreated
}

// ReceiptLineCreatedEvent is raised when a quantity is received against an
// order line
type ReceiptLineCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptLineID uuid.UUID       `json:"receipt_line_id"`
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	OrderLineID   uuid.UUID       `json:"order_line_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Quantity      int64           `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewReceiptLineCreatedEvent creates a new ReceiptLineCreatedEvent
func NewReceiptLineCreatedEvent(line *ReceiptLine) *ReceiptLineCreatedEvent {
	return &ReceiptLineCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptLineCreated, AggregateTypeReceiptLine, line.ID, line.OrganisationID),
		ReceiptLineID:   line.ID,
		ReceiptID:       line.ReceiptID,
		OrderLineID:     line.OrderLineID,
		AccountID:       line.AccountID,
		Quantity:        line.Quantity,
		Amount:          line.Amount,
	}
}

// EventType returns the event type name
func (e *ReceiptLineCreatedEvent) EventType() string {
	return EventTypeReceiptLineCreated
}
