package acquisition

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/shared"
)

// AccountRepository defines the interface for account persistence.
// Child queries come in three explicit flavours (count, id list, full
// objects) so callers never materialize more than they need.
type AccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByIDForOrganisation finds an account within an organisation
	FindByIDForOrganisation(ctx context.Context, organisationID, id uuid.UUID) (*Account, error)

	// FindAllForOrganisation lists accounts for an organisation with filtering
	FindAllForOrganisation(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) ([]Account, error)

	// FindChildren returns the direct children of an account
	FindChildren(ctx context.Context, accountID uuid.UUID) ([]Account, error)

	// CountChildren counts the direct children of an account
	CountChildren(ctx context.Context, accountID uuid.UUID) (int64, error)

	// ListChildIDs returns the IDs of the direct children of an account
	ListChildIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error)

	// SumChildAllocations sums allocated_amount over the direct children
	SumChildAllocations(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// SaveAll persists several accounts atomically. The fund transfer walk
	// relies on this to commit or roll back the whole ancestor chain as one
	// unit.
	SaveAll(ctx context.Context, accounts []*Account) error

	// Delete deletes an account. Callers must run the deletion guard first.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForOrganisation finds an order within an organisation
	FindByIDForOrganisation(ctx context.Context, organisationID, id uuid.UUID) (*Order, error)

	// FindAllForOrganisation lists orders for an organisation with filtering
	FindAllForOrganisation(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountForOrganisation counts orders for an organisation
	CountForOrganisation(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateOrderNumber generates a unique order number for an organisation
	GenerateOrderNumber(ctx context.Context, organisationID uuid.UUID) (string, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order together with its order lines
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderLineRepository defines the interface for order line persistence
type OrderLineRepository interface {
	// FindByID finds an order line by ID
	FindByID(ctx context.Context, id uuid.UUID) (*OrderLine, error)

	// FindByOrder returns all lines of an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderLine, error)

	// FindByAccount returns all lines charged to an account
	FindByAccount(ctx context.Context, accountID uuid.UUID) ([]OrderLine, error)

	// CountByAccount counts the lines charged to an account
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// ListIDsByAccount returns the IDs of the lines charged to an account
	ListIDsByAccount(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error)

	// SumOpenAmounts sums total_amount over the account's open lines, i.e.
	// lines that are neither cancelled nor fully received. This is the
	// account's self encumbrance.
	SumOpenAmounts(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates an order line
	Save(ctx context.Context, line *OrderLine) error

	// SaveAll persists several order lines atomically
	SaveAll(ctx context.Context, lines []*OrderLine) error

	// Delete deletes an order line
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReceiptRepository defines the interface for receipt persistence
type ReceiptRepository interface {
	// FindByID finds a receipt by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)

	// FindByOrder returns all receipts of an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Receipt, error)

	// CountByOrder counts the receipts attached to an order
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)

	// CountAdjustmentsByAccount counts adjustments posted to an account
	CountAdjustmentsByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// SumAdjustmentsByAccount sums the signed adjustment amounts posted to an
	// account
	SumAdjustmentsByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a receipt
	Save(ctx context.Context, receipt *Receipt) error

	// Delete deletes a receipt. Callers must run the deletion guard first.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReceiptLineRepository defines the interface for receipt line persistence
type ReceiptLineRepository interface {
	// FindByID finds a receipt line by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReceiptLine, error)

	// FindByReceipt returns all lines of a receipt
	FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]ReceiptLine, error)

	// CountByReceipt counts the lines of a receipt
	CountByReceipt(ctx context.Context, receiptID uuid.UUID) (int64, error)

	// SumQuantityByOrderLine sums received quantity across all receipt lines
	// of an order line
	SumQuantityByOrderLine(ctx context.Context, orderLineID uuid.UUID) (int64, error)

	// SumAmountsByAccount sums quantity*amount over the receipt lines charged
	// to an account
	SumAmountsByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)

	// Save creates a receipt line
	Save(ctx context.Context, line *ReceiptLine) error
}

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	// FindByID finds a budget by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// FindActiveForOrganisation returns the active budget of an organisation
	FindActiveForOrganisation(ctx context.Context, organisationID uuid.UUID) (*Budget, error)

	// Save creates or updates a budget
	Save(ctx context.Context, budget *Budget) error
}

// AccountMetricsRepository stores the read-side metrics projection
type AccountMetricsRepository interface {
	// FindByAccountID returns the projected metrics of an account
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*AccountMetrics, error)

	// Upsert inserts or replaces the projection for an account
	Upsert(ctx context.Context, metrics *AccountMetrics) error

	// DeleteByAccountID removes the projection of a deleted account
	DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error
}
