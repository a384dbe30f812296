package acquisition

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOrder     = "AcqOrder"
	AggregateTypeOrderLine = "AcqOrderLine"
)

// Event type constants
const (
	EventTypeOrderCreated       = "AcqOrderCreated"
	EventTypeOrderSent          = "AcqOrderSent"
	EventTypeOrderLineCreated   = "AcqOrderLineCreated"
	EventTypeOrderLineUpdated   = "AcqOrderLineUpdated"
	EventTypeOrderLineCancelled = "AcqOrderLineCancelled"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	VendorID    uuid.UUID `json:"vendor_id"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID, order.OrganisationID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		VendorID:        order.VendorID,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderSentEvent is raised when an order is dispatched to its vendor
type OrderSentEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	VendorID   uuid.UUID `json:"vendor_id"`
	Recipients []string  `json:"recipients"`
	SentAt     time.Time `json:"sent_at"`
	LineCount  int       `json:"line_count"`
}

// NewOrderSentEvent creates a new OrderSentEvent
func NewOrderSentEvent(order *Order, recipients []string, sentAt time.Time, lineCount int) *OrderSentEvent {
	return &OrderSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSent, AggregateTypeOrder, order.ID, order.OrganisationID),
		OrderID:         order.ID,
		VendorID:        order.VendorID,
		Recipients:      recipients,
		SentAt:          sentAt,
		LineCount:       lineCount,
	}
}

// EventType returns the event type name
func (e *OrderSentEvent) EventType() string {
	return EventTypeOrderSent
}

// OrderLineCreatedEvent is raised when an order line is created
type OrderLineCreatedEvent struct {
	shared.BaseDomainEvent
	OrderLineID uuid.UUID       `json:"order_line_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Quantity    int64           `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderLineCreatedEvent creates a new OrderLineCreatedEvent
func NewOrderLineCreatedEvent(line *OrderLine) *OrderLineCreatedEvent {
	return &OrderLineCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderLineCreated, AggregateTypeOrderLine, line.ID, line.OrganisationID),
		OrderLineID:     line.ID,
		OrderID:         line.OrderID,
		AccountID:       line.AccountID,
		Quantity:        line.Quantity,
		TotalAmount:     line.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderLineCreatedEvent) EventType() string {
	return EventTypeOrderLineCreated
}

// OrderLineUpdatedEvent is raised when quantity or amount change
type OrderLineUpdatedEvent struct {
	shared.BaseDomainEvent
	OrderLineID uuid.UUID       `json:"order_line_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Quantity    int64           `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderLineUpdatedEvent creates a new OrderLineUpdatedEvent
func NewOrderLineUpdatedEvent(line *OrderLine) *OrderLineUpdatedEvent {
	return &OrderLineUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderLineUpdated, AggregateTypeOrderLine, line.ID, line.OrganisationID),
		OrderLineID:     line.ID,
		OrderID:         line.OrderID,
		AccountID:       line.AccountID,
		Quantity:        line.Quantity,
		TotalAmount:     line.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderLineUpdatedEvent) EventType() string {
	return EventTypeOrderLineUpdated
}

// OrderLineCancelledEvent is raised when an order line is cancelled
type OrderLineCancelledEvent struct {
	shared.BaseDomainEvent
	OrderLineID uuid.UUID `json:"order_line_id"`
	OrderID     uuid.UUID `json:"order_id"`
	AccountID   uuid.UUID `json:"account_id"`
}

// NewOrderLineCancelledEvent creates a new OrderLineCancelledEvent
func NewOrderLineCancelledEvent(line *OrderLine) *OrderLineCancelledEvent {
	return &OrderLineCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderLineCancelled, AggregateTypeOrderLine, line.ID, line.OrganisationID),
		OrderLineID:     line.ID,
		OrderID:         line.OrderID,
		AccountID:       line.AccountID,
	}
}

// EventType returns the event type name
func (e *OrderLineCancelledEvent) EventType() string {
	return EventTypeOrderLineCancelled
}
