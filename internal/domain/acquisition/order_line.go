package acquisition

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/shared"
)

// OrderLineStatus is the derived status of an order line. It is never stored:
// Status() computes it from the quantity, received quantity, cancellation flag
// and order date.
type OrderLineStatus string

const (
	OrderLineStatusApproved          OrderLineStatus = "APPROVED"
	OrderLineStatusOrdered           OrderLineStatus = "ORDERED"
	OrderLineStatusPartiallyReceived OrderLineStatus = "PARTIALLY_RECEIVED"
	OrderLineStatusReceived          OrderLineStatus = "RECEIVED"
	OrderLineStatusCancelled         OrderLineStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderLineStatus
func (s OrderLineStatus) IsValid() bool {
	switch s {
	case OrderLineStatusApproved, OrderLineStatusOrdered, OrderLineStatusPartiallyReceived,
		OrderLineStatusReceived, OrderLineStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderLineStatus
func (s OrderLineStatus) String() string {
	return string(s)
}

// IsOpen returns true for statuses whose amounts still count as encumbrance:
// ordered (or approved) but not yet fully received and not cancelled.
func (s OrderLineStatus) IsOpen() bool {
	switch s {
	case OrderLineStatusApproved, OrderLineStatusOrdered, OrderLineStatusPartiallyReceived:
		return true
	}
	return false
}

// OrderLine is a single line item of an order. It references exactly one
// account (whose encumbrance it feeds) and one document.
type OrderLine struct {
	shared.OrganisationAggregateRoot
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity         int64           `gorm:"not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"` // unit price
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"` // Quantity * Amount, recomputed on write
	ReceivedQuantity int64           `gorm:"not null;default:0"`
	IsCancelled      bool            `gorm:"not null;default:false"`
	OrderDate        *time.Time      `gorm:"index"`
	Notes            []Note          `gorm:"foreignKey:ParentID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "acq_order_lines"
}

// NewOrderLine creates a new order line under an order, charged to an account
func NewOrderLine(organisationID, libraryID, orderID, accountID, documentID uuid.UUID, quantity int64, amount decimal.Decimal) (*OrderLine, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	line := &OrderLine{
		OrganisationAggregateRoot: shared.NewOrganisationAggregateRoot(organisationID, libraryID),
		OrderID:                   orderID,
		AccountID:                 accountID,
		DocumentID:                documentID,
		Quantity:                  quantity,
		Amount:                    amount,
		TotalAmount:               amount.Mul(decimal.NewFromInt(quantity)),
		Notes:                     make([]Note, 0),
	}

	line.AddDomainEvent(NewOrderLineCreatedEvent(line))
	line.AddDomainEvent(NewAccountDirtyEvent(organisationID, accountID))

	return line, nil
}

// Status derives the line status. CANCELLED wins over everything; otherwise
// the received quantity decides, falling back to the order date for the
// approved/ordered distinction.
func (l *OrderLine) Status() OrderLineStatus {
	switch {
	case l.IsCancelled:
		return OrderLineStatusCancelled
	case l.ReceivedQuantity >= l.Quantity:
		return OrderLineStatusReceived
	case l.ReceivedQuantity > 0:
		return OrderLineStatusPartiallyReceived
	case l.OrderDate != nil:
		return OrderLineStatusOrdered
	default:
		return OrderLineStatusApproved
	}
}

// UnreceivedQuantity returns the quantity still to be received
func (l *OrderLine) UnreceivedQuantity() int64 {
	remaining := l.Quantity - l.ReceivedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// UpdateQuantity changes the ordered quantity. Not allowed once the line is
// fully received or cancelled, nor below the already received quantity.
func (l *OrderLine) UpdateQuantity(quantity int64) error {
	if status := l.Status(); status == OrderLineStatusReceived || status == OrderLineStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update quantity of a %s order line", status))
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if quantity < l.ReceivedQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be less than the received quantity")
	}

	l.Quantity = quantity
	l.TotalAmount = l.Amount.Mul(decimal.NewFromInt(quantity))
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewOrderLineUpdatedEvent(l))
	l.AddDomainEvent(NewAccountDirtyEvent(l.OrganisationID, l.AccountID))

	return nil
}

// UpdateAmount changes the unit price and recomputes the total
func (l *OrderLine) UpdateAmount(amount decimal.Decimal) error {
	if status := l.Status(); status == OrderLineStatusReceived || status == OrderLineStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update amount of a %s order line", status))
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	l.Amount = amount
	l.TotalAmount = amount.Mul(decimal.NewFromInt(l.Quantity))
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewOrderLineUpdatedEvent(l))
	l.AddDomainEvent(NewAccountDirtyEvent(l.OrganisationID, l.AccountID))

	return nil
}

// Cancel flags the line as cancelled. One-way: a cancelled line never comes
// back, and a fully received line cannot be cancelled.
func (l *OrderLine) Cancel() error {
	switch l.Status() {
	case OrderLineStatusCancelled:
		return shared.NewDomainError("INVALID_STATE", "Order line is already cancelled")
	case OrderLineStatusReceived:
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a fully received order line")
	}

	l.IsCancelled = true
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewOrderLineCancelledEvent(l))
	l.AddDomainEvent(NewAccountDirtyEvent(l.OrganisationID, l.AccountID))

	return nil
}

// MarkOrdered stamps the order date, moving an approved line to ordered.
// Lines already sent keep their original date.
func (l *OrderLine) MarkOrdered(date time.Time) {
	if l.OrderDate != nil {
		return
	}
	l.OrderDate = &date
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewAccountDirtyEvent(l.OrganisationID, l.AccountID))
}

// AddReceivedQuantity records reception of the given quantity. The cumulative
// received quantity may never exceed the ordered quantity.
func (l *OrderLine) AddReceivedQuantity(quantity int64) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be at least 1")
	}
	if l.IsCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot receive a cancelled order line")
	}
	if l.ReceivedQuantity+quantity > l.Quantity {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Cannot receive %d, only %d remaining", quantity, l.UnreceivedQuantity()))
	}

	l.ReceivedQuantity += quantity
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewAccountDirtyEvent(l.OrganisationID, l.AccountID))

	return nil
}

// AddNote attaches a typed note. At most one note per type is allowed.
func (l *OrderLine) AddNote(noteType NoteType, content string) error {
	if !noteType.IsValid() {
		return shared.NewDomainError("INVALID_NOTE_TYPE", fmt.Sprintf("Unknown note type %q", noteType))
	}
	if content == "" {
		return shared.NewDomainError("INVALID_NOTE", "Note content cannot be empty")
	}
	for _, note := range l.Notes {
		if note.Type == noteType {
			return shared.NewDomainError("DUPLICATE_NOTE_TYPE", fmt.Sprintf("A note of type %q already exists", noteType))
		}
	}

	l.Notes = append(l.Notes, NewNote(l.ID, noteType, content))
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}
