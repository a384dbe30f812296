package acquisition

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountMetrics is the read-side projection of an account's derived
// financial metrics, refreshed by the reindex handler whenever the account is
// marked dirty. Reporting queries read this table instead of recomputing the
// tree walk; it is eventually consistent with the write side.
type AccountMetrics struct {
	AccountID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrganisationID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Depth               int             `gorm:"not null"`
	AllocatedAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Distribution        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SelfEncumbrance     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ChildrenEncumbrance decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SelfExpenditure     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ChildrenExpenditure decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BalanceSelf         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BalanceTotal        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ComputedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountMetrics) TableName() string {
	return "acq_account_metrics"
}

// Encumbrance returns the encumbrance pair of the projection
func (m *AccountMetrics) Encumbrance() AmountPair {
	return AmountPair{Self: m.SelfEncumbrance, Children: m.ChildrenEncumbrance}
}

// Expenditure returns the expenditure pair of the projection
func (m *AccountMetrics) Expenditure() AmountPair {
	return AmountPair{Self: m.SelfExpenditure, Children: m.ChildrenExpenditure}
}

// RemainingBalance returns the balance of the projection
func (m *AccountMetrics) RemainingBalance() Balance {
	return Balance{Self: m.BalanceSelf, Total: m.BalanceTotal}
}
