package acquisition

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeAccount = "AcqAccount"

// Event type constants
const (
	EventTypeAccountCreated   = "AcqAccountCreated"
	EventTypeAccountDirty     = "AcqAccountDirty"
	EventTypeFundsTransferred = "AcqFundsTransferred"
)

// AccountCreatedEvent is raised when a new budget account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID       uuid.UUID       `json:"account_id"`
	Name            string          `json:"name"`
	ParentID        *uuid.UUID      `json:"parent_id,omitempty"`
	BudgetID        uuid.UUID       `json:"budget_id"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(account *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, AggregateTypeAccount, account.ID, account.OrganisationID),
		AccountID:       account.ID,
		Name:            account.Name,
		ParentID:        account.ParentID,
		BudgetID:        account.BudgetID,
		AllocatedAmount: account.AllocatedAmount,
	}
}

// EventType returns the event type name
func (e *AccountCreatedEvent) EventType() string {
	return EventTypeAccountCreated
}

// AccountDirtyEvent marks an account whose derived metrics may have changed.
// It is raised by every mutation that feeds encumbrance, expenditure or
// distribution, and consumed by the metrics reindex handler, which also
// refreshes the account's ancestor chain.
type AccountDirtyEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
}

// NewAccountDirtyEvent creates a new AccountDirtyEvent
func NewAccountDirtyEvent(organisationID, accountID uuid.UUID) *AccountDirtyEvent {
	return &AccountDirtyEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountDirty, AggregateTypeAccount, accountID, organisationID),
		AccountID:       accountID,
	}
}

// EventType returns the event type name
func (e *AccountDirtyEvent) EventType() string {
	return EventTypeAccountDirty
}

// FundsTransferredEvent is raised after a successful fund transfer
type FundsTransferredEvent struct {
	shared.BaseDomainEvent
	SourceID uuid.UUID       `json:"source_id"`
	TargetID uuid.UUID       `json:"target_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewFundsTransferredEvent creates a new FundsTransferredEvent
func NewFundsTransferredEvent(organisationID, sourceID, targetID uuid.UUID, amount decimal.Decimal) *FundsTransferredEvent {
	return &FundsTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFundsTransferred, AggregateTypeAccount, sourceID, organisationID),
		SourceID:        sourceID,
		TargetID:        targetID,
		Amount:          amount,
	}
}

// EventType returns the event type name
func (e *FundsTransferredEvent) EventType() string {
	return EventTypeFundsTransferred
}
