package acquisition

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/shared"
)

// AmountAdjustment is a signed financial adjustment posted with a receipt:
// shipping costs, taxes, or discounts (negative amounts). Each adjustment is
// charged to one account and counts toward that account's expenditure.
type AmountAdjustment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReceiptID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Label     string          `gorm:"type:varchar(200);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AmountAdjustment) TableName() string {
	return "acq_receipt_adjustments"
}

// Receipt records a delivery against an order. Receipt lines are attached
// through the reception operation; adjustments travel with the receipt.
type Receipt struct {
	shared.OrganisationAggregateRoot
	OrderID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	ExchangeRate decimal.Decimal    `gorm:"type:decimal(18,6);not null;default:1"`
	Adjustments  []AmountAdjustment `gorm:"foreignKey:ReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "acq_receipts"
}

// NewReceipt creates a new receipt under an order
func NewReceipt(organisationID, libraryID, orderID uuid.UUID, exchangeRate decimal.Decimal) (*Receipt, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if exchangeRate.IsZero() {
		exchangeRate = decimal.NewFromInt(1)
	}
	if exchangeRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate must be positive")
	}

	receipt := &Receipt{
		OrganisationAggregateRoot: shared.NewOrganisationAggregateRoot(organisationID, libraryID),
		OrderID:                   orderID,
		ExchangeRate:              exchangeRate,
		Adjustments:               make([]AmountAdjustment, 0),
	}

	receipt.AddDomainEvent(NewReceiptCreatedEvent(receipt))

	return receipt, nil
}

// AddAdjustment posts a signed adjustment to an account. Negative amounts
// represent discounts.
func (r *Receipt) AddAdjustment(accountID uuid.UUID, label string, amount decimal.Decimal) error {
	if accountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Adjustment account ID cannot be empty")
	}
	if label == "" {
		return shared.NewDomainError("INVALID_LABEL", "Adjustment label cannot be empty")
	}

	r.Adjustments = append(r.Adjustments, AmountAdjustment{
		ID:        uuid.New(),
		ReceiptID: r.ID,
		AccountID: accountID,
		Label:     label,
		Amount:    amount,
		CreatedAt: time.Now(),
	})
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewAccountDirtyEvent(r.OrganisationID, accountID))

	return nil
}

// TotalAmount sums the signed adjustment amounts, rounded to 2 decimals.
// Receipt line totals are deliberately not included yet; see the expenditure
// source in the application layer.
func (r *Receipt) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, adj := range r.Adjustments {
		total = total.Add(adj.Amount)
	}
	return total.Round(2)
}
