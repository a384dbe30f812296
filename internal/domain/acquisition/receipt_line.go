package acquisition

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/shared"
)

// ReceiptLine records the reception of a quantity against one order line.
// Receipt lines are effectively immutable once created.
type ReceiptLine struct {
	shared.OrganisationAggregateRoot
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderLineID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    int64           `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"` // unit price at reception
	ReceiptDate time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ReceiptLine) TableName() string {
	return "acq_receipt_lines"
}

// NewReceiptLine creates a receipt line. The account ID is copied from the
// order line so expenditure queries never need a join. A zero receiptDate
// defaults to now.
func NewReceiptLine(organisationID, libraryID, receiptID, orderLineID, accountID uuid.UUID, quantity int64, amount decimal.Decimal, receiptDate time.Time) (*ReceiptLine, error) {
	if receiptID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Receipt ID cannot be empty")
	}
	if orderLineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_LINE", "Order line ID cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if receiptDate.IsZero() {
		receiptDate = time.Now()
	}

	line := &ReceiptLine{
		OrganisationAggregateRoot: shared.NewOrganisationAggregateRoot(organisationID, libraryID),
		ReceiptID:                 receiptID,
		OrderLineID:               orderLineID,
		AccountID:                 accountID,
		Quantity:                  quantity,
		Amount:                    amount,
		ReceiptDate:               receiptDate,
	}

	line.AddDomainEvent(NewReceiptLineCreatedEvent(line))
	line.AddDomainEvent(NewAccountDirtyEvent(organisationID, accountID))

	return line, nil
}

// TotalAmount returns quantity times unit price
func (l *ReceiptLine) TotalAmount() decimal.Decimal {
	return l.Amount.Mul(decimal.NewFromInt(l.Quantity))
}
