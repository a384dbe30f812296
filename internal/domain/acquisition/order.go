package acquisition

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ils/backend/internal/domain/shared"
)

// OrderStatus is the aggregate status of an order, derived from the multiset
// of its line statuses. It is never stored.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusOrdered           OrderStatus = "ORDERED"
	OrderStatusPartiallyReceived OrderStatus = "PARTIALLY_RECEIVED"
	OrderStatusReceived          OrderStatus = "RECEIVED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusOrdered, OrderStatusPartiallyReceived,
		OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// OrderType classifies what kind of material the order covers
type OrderType string

const (
	OrderTypeMonograph     OrderType = "monograph"
	OrderTypeSerial        OrderType = "serial"
	OrderTypeStandingOrder OrderType = "standing_order"
	OrderTypePlannedOrder  OrderType = "planned_order"
	OrderTypeMultiVolume   OrderType = "multi_volume"
)

// IsValid checks if the order type is known
func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeMonograph, OrderTypeSerial, OrderTypeStandingOrder,
		OrderTypePlannedOrder, OrderTypeMultiVolume:
		return true
	}
	return false
}

// DeriveOrderStatus computes the order status from its line statuses:
//   - no lines: PENDING
//   - cancelled lines are ignored as soon as any other status is present
//   - several distinct statuses: PARTIALLY_RECEIVED when anything has been
//     received, ORDERED when something was sent, PENDING otherwise
//   - a single distinct status maps directly (APPROVED maps to PENDING)
func DeriveOrderStatus(statuses []OrderLineStatus) OrderStatus {
	if len(statuses) == 0 {
		return OrderStatusPending
	}

	distinct := make(map[OrderLineStatus]struct{}, len(statuses))
	for _, s := range statuses {
		distinct[s] = struct{}{}
	}

	// Cancelled lines never determine the order status once other lines exist
	if len(distinct) > 1 {
		delete(distinct, OrderLineStatusCancelled)
	}

	if len(distinct) > 1 {
		if _, ok := distinct[OrderLineStatusPartiallyReceived]; ok {
			return OrderStatusPartiallyReceived
		}
		if _, ok := distinct[OrderLineStatusReceived]; ok {
			return OrderStatusPartiallyReceived
		}
		if _, ok := distinct[OrderLineStatusOrdered]; ok {
			return OrderStatusOrdered
		}
		return OrderStatusPending
	}

	for s := range distinct {
		switch s {
		case OrderLineStatusApproved:
			return OrderStatusPending
		case OrderLineStatusOrdered:
			return OrderStatusOrdered
		case OrderLineStatusPartiallyReceived:
			return OrderStatusPartiallyReceived
		case OrderLineStatusReceived:
			return OrderStatusReceived
		case OrderLineStatusCancelled:
			return OrderStatusCancelled
		}
	}
	return OrderStatusPending
}

// Order groups order lines sent to a single vendor. The order itself carries
// no status or totals; both are derived from its lines.
type Order struct {
	shared.OrganisationAggregateRoot
	OrderNumber string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_acq_order_org_number,priority:2"`
	VendorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        OrderType `gorm:"type:varchar(20);not null;default:'monograph'"`
	Notes       []Note    `gorm:"foreignKey:ParentID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "acq_orders"
}

// NewOrder creates a new, empty order for a vendor
func NewOrder(organisationID, libraryID uuid.UUID, orderNumber string, vendorID uuid.UUID, orderType OrderType) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if orderType == "" {
		orderType = OrderTypeMonograph
	}
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", fmt.Sprintf("Unknown order type %q", orderType))
	}

	order := &Order{
		OrganisationAggregateRoot: shared.NewOrganisationAggregateRoot(organisationID, libraryID),
		OrderNumber:               orderNumber,
		VendorID:                  vendorID,
		Type:                      orderType,
		Notes:                     make([]Note, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// Reference returns the display reference of the order
func (o *Order) Reference() string {
	return fmt.Sprintf("ORD-%s", o.OrderNumber)
}

// AddNote attaches a typed note. At most one note per type is allowed.
func (o *Order) AddNote(noteType NoteType, content string) error {
	if !noteType.IsValid() {
		return shared.NewDomainError("INVALID_NOTE_TYPE", fmt.Sprintf("Unknown note type %q", noteType))
	}
	if content == "" {
		return shared.NewDomainError("INVALID_NOTE", "Note content cannot be empty")
	}
	for _, note := range o.Notes {
		if note.Type == noteType {
			return shared.NewDomainError("DUPLICATE_NOTE_TYPE", fmt.Sprintf("A note of type %q already exists", noteType))
		}
	}

	o.Notes = append(o.Notes, NewNote(o.ID, noteType, content))
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// OrderDate returns the earliest order date among the given lines, or nil if
// none of them has been sent yet
func (o *Order) OrderDate(lines []OrderLine) *time.Time {
	var earliest *time.Time
	for i := range lines {
		d := lines[i].OrderDate
		if d == nil {
			continue
		}
		if earliest == nil || d.Before(*earliest) {
			earliest = d
		}
	}
	return earliest
}
