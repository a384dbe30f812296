package acquisition

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/shared"
)

// AmountPair holds a metric split between an account's own order lines and
// the aggregate of its direct children. Children already include the whole
// subtree below them, so Total covers the full subtree of the account.
type AmountPair struct {
	Self     decimal.Decimal `json:"self"`
	Children decimal.Decimal `json:"children"`
}

// Total returns self plus children
func (p AmountPair) Total() decimal.Decimal {
	return p.Self.Add(p.Children)
}

// Balance holds the remaining balance of an account.
// Self is what the account itself can still spend or distribute;
// Total is what remains across the whole subtree.
type Balance struct {
	Self  decimal.Decimal `json:"self"`
	Total decimal.Decimal `json:"total"`
}

// Account is a node in the budget hierarchy. Each account holds an allocated
// amount and optionally distributes part of it to child accounts. Accounts
// form a forest: at most one parent, no cycles (assumed by construction).
//
// Encumbrance, expenditure, distribution and remaining balance are never
// stored on the account; they are computed on read from the order lines,
// receipts and child accounts that reference it.
type Account struct {
	shared.OrganisationAggregateRoot
	Name            string          `gorm:"type:varchar(200);not null"`
	Number          string          `gorm:"type:varchar(50);not null"`
	AllocatedAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ParentID        *uuid.UUID      `gorm:"type:uuid;index"`
	BudgetID        uuid.UUID       `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "acq_accounts"
}

// NewAccount creates a new budget account. A nil parentID creates a root
// account; otherwise the account is attached under the given parent.
func NewAccount(organisationID, libraryID, budgetID uuid.UUID, name, number string, allocated decimal.Decimal, parentID *uuid.UUID) (*Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if budgetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUDGET", "Budget ID cannot be empty")
	}
	if allocated.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocated amount cannot be negative")
	}
	if parentID != nil && *parentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent account ID cannot be the nil UUID")
	}

	account := &Account{
		OrganisationAggregateRoot: shared.NewOrganisationAggregateRoot(organisationID, libraryID),
		Name:                      name,
		Number:                    number,
		AllocatedAmount:           allocated,
		ParentID:                  parentID,
		BudgetID:                  budgetID,
	}

	account.AddDomainEvent(NewAccountCreatedEvent(account))

	return account, nil
}

// IsRoot returns true if the account has no parent
func (a *Account) IsRoot() bool {
	return a.ParentID == nil
}

// Rename changes the account display name
func (a *Account) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// SetAllocatedAmount replaces the allocated amount, e.g. when a budget is
// manually revised. Fund transfers use Credit/Debit instead.
func (a *Account) SetAllocatedAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocated amount cannot be negative")
	}
	a.AllocatedAmount = amount
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	a.AddDomainEvent(NewAccountDirtyEvent(a.OrganisationID, a.ID))
	return nil
}

// Debit removes the given amount from the allocation. Used by the fund
// transfer walk; the transfer precondition already guarded the source's
// self balance, intermediate nodes are adjusted unconditionally.
func (a *Account) Debit(amount decimal.Decimal) {
	a.AllocatedAmount = a.AllocatedAmount.Sub(amount)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Credit adds the given amount to the allocation
func (a *Account) Credit(amount decimal.Decimal) {
	a.AllocatedAmount = a.AllocatedAmount.Add(amount)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
