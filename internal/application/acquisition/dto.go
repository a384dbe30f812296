package acquisition

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/acquisition"
)

// ==================== Account DTOs ====================

// CreateAccountRequest represents a request to create a budget account
type CreateAccountRequest struct {
	LibraryID       uuid.UUID       `json:"library_id" binding:"required"`
	BudgetID        uuid.UUID       `json:"budget_id" binding:"required"`
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	Number          string          `json:"number" binding:"required,min=1,max=50"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount" binding:"required"`
	ParentID        *uuid.UUID      `json:"parent_id"`
}

// UpdateAccountAmountRequest represents a request to revise an allocation
type UpdateAccountAmountRequest struct {
	AllocatedAmount decimal.Decimal `json:"allocated_amount" binding:"required"`
}

// TransferFundRequest represents a request to move allocation between accounts
type TransferFundRequest struct {
	TargetAccountID uuid.UUID       `json:"target_account_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
}

// AccountResponse represents a budget account in API responses
type AccountResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrganisationID  uuid.UUID       `json:"organisation_id"`
	LibraryID       uuid.UUID       `json:"library_id"`
	BudgetID        uuid.UUID       `json:"budget_id"`
	Name            string          `json:"name"`
	Number          string          `json:"number"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	ParentID        *uuid.UUID      `json:"parent_id,omitempty"`
	IsRoot          bool            `json:"is_root"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AmountPairResponse represents a (self, children) amount split
type AmountPairResponse struct {
	Self     decimal.Decimal `json:"self"`
	Children decimal.Decimal `json:"children"`
	Total    decimal.Decimal `json:"total"`
}

// BalanceResponse represents a (self, total) remaining balance
type BalanceResponse struct {
	Self  decimal.Decimal `json:"self"`
	Total decimal.Decimal `json:"total"`
}

// AccountMetricsResponse represents the derived financial view of an account
type AccountMetricsResponse struct {
	AccountID        uuid.UUID          `json:"account_id"`
	Depth            int                `json:"depth"`
	AllocatedAmount  decimal.Decimal    `json:"allocated_amount"`
	Distribution     decimal.Decimal    `json:"distribution"`
	Encumbrance      AmountPairResponse `json:"encumbrance"`
	Expenditure      AmountPairResponse `json:"expenditure"`
	RemainingBalance BalanceResponse    `json:"remaining_balance"`
	ComputedAt       time.Time          `json:"computed_at"`
}

// ==================== Order DTOs ====================

// CreateOrderRequest represents a request to create an acquisition order
type CreateOrderRequest struct {
	LibraryID uuid.UUID             `json:"library_id" binding:"required"`
	VendorID  uuid.UUID             `json:"vendor_id" binding:"required"`
	Type      acquisition.OrderType `json:"type" binding:"required"`
}

// AddOrderLineRequest represents a request to add a line to an order
type AddOrderLineRequest struct {
	AccountID  uuid.UUID       `json:"account_id" binding:"required"`
	DocumentID uuid.UUID       `json:"document_id" binding:"required"`
	Quantity   int64           `json:"quantity" binding:"required,min=1"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// UpdateOrderLineRequest represents a request to update an order line
type UpdateOrderLineRequest struct {
	Quantity *int64           `json:"quantity" binding:"omitempty,min=1"`
	Amount   *decimal.Decimal `json:"amount"`
}

// AddNoteRequest represents a request to attach a note
type AddNoteRequest struct {
	Type    acquisition.NoteType `json:"type" binding:"required"`
	Content string               `json:"content" binding:"required,min=1,max=2000"`
}

// SendOrderRequest represents a request to dispatch an order to its vendor
type SendOrderRequest struct {
	Recipients []string `json:"recipients" binding:"required,min=1,dive,email"`
	Message    string   `json:"message" binding:"max=2000"`
}

// OrderResponse represents an acquisition order in API responses
type OrderResponse struct {
	ID          uuid.UUID                   `json:"id"`
	LibraryID   uuid.UUID                   `json:"library_id"`
	OrderNumber string                      `json:"order_number"`
	Reference   string                      `json:"reference"`
	VendorID    uuid.UUID                   `json:"vendor_id"`
	Type        acquisition.OrderType       `json:"type"`
	Status      acquisition.OrderStatus     `json:"status"`
	OrderDate   *time.Time                  `json:"order_date,omitempty"`
	Lines       []OrderLineResponse         `json:"lines,omitempty"`
	TotalAmount decimal.Decimal             `json:"total_amount"`
	Notes       []acquisition.Note          `json:"notes,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID               uuid.UUID                   `json:"id"`
	OrderID          uuid.UUID                   `json:"order_id"`
	AccountID        uuid.UUID                   `json:"account_id"`
	DocumentID       uuid.UUID                   `json:"document_id"`
	Quantity         int64                       `json:"quantity"`
	Amount           decimal.Decimal             `json:"amount"`
	TotalAmount      decimal.Decimal             `json:"total_amount"`
	ReceivedQuantity int64                       `json:"received_quantity"`
	Status           acquisition.OrderLineStatus `json:"status"`
	OrderDate        *time.Time                  `json:"order_date,omitempty"`
	Notes            []acquisition.Note          `json:"notes,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// SendOrderResponse reports the outcome of an order dispatch
type SendOrderResponse struct {
	OrderID    uuid.UUID         `json:"order_id"`
	Status     string            `json:"status"`
	SentAt     *time.Time        `json:"sent_at,omitempty"`
	Recipients []RecipientResult `json:"recipients"`
}

// ==================== Receipt DTOs ====================

// CreateReceiptRequest represents a request to open a receipt for an order
type CreateReceiptRequest struct {
	OrderID      uuid.UUID        `json:"order_id" binding:"required"`
	LibraryID    uuid.UUID        `json:"library_id" binding:"required"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate"`
}

// AddAdjustmentRequest represents a signed amount correction on a receipt
type AddAdjustmentRequest struct {
	AccountID uuid.UUID       `json:"account_id" binding:"required"`
	Label     string          `json:"label" binding:"required,min=1,max=200"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// ReceiveLineInput represents a single line in a batch reception
type ReceiveLineInput struct {
	OrderLineID uuid.UUID       `json:"order_line_id" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ReceiptDate *time.Time      `json:"receipt_date"`
}

// ReceiveLinesRequest represents a batch of lines to receive on a receipt
type ReceiveLinesRequest struct {
	Lines []ReceiveLineInput `json:"lines" binding:"required,min=1"`
}

// ReceiveLineResult reports the outcome of one line in a batch reception
type ReceiveLineResult struct {
	OrderLineID uuid.UUID            `json:"order_line_id"`
	Status      string               `json:"status"`
	Error       string               `json:"error,omitempty"`
	Line        *ReceiptLineResponse `json:"line,omitempty"`
}

// ReceiveLinesResponse aggregates the per-line outcomes of a batch reception
type ReceiveLinesResponse struct {
	ReceiptID uuid.UUID           `json:"receipt_id"`
	Results   []ReceiveLineResult `json:"results"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID           uuid.UUID             `json:"id"`
	OrderID      uuid.UUID             `json:"order_id"`
	LibraryID    uuid.UUID             `json:"library_id"`
	ExchangeRate decimal.Decimal       `json:"exchange_rate"`
	Adjustments  []AdjustmentResponse  `json:"adjustments,omitempty"`
	Lines        []ReceiptLineResponse `json:"lines,omitempty"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// AdjustmentResponse represents a receipt adjustment in API responses
type AdjustmentResponse struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// ReceiptLineResponse represents a received line in API responses
type ReceiptLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ReceiptID   uuid.UUID       `json:"receipt_id"`
	OrderLineID uuid.UUID       `json:"order_line_id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Quantity    int64           `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ReceiptDate time.Time       `json:"receipt_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ==================== Budget DTOs ====================

// CreateBudgetRequest represents a request to create a fiscal budget
type CreateBudgetRequest struct {
	Name      string    `json:"name" binding:"required,min=1,max=200"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// BudgetResponse represents a fiscal budget in API responses
type BudgetResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganisationID uuid.UUID `json:"organisation_id"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ==================== Conversions ====================

// ToAccountResponse converts a domain Account to a response DTO
func ToAccountResponse(account *acquisition.Account) AccountResponse {
	return AccountResponse{
		ID:              account.ID,
		OrganisationID:  account.OrganisationID,
		LibraryID:       account.LibraryID,
		BudgetID:        account.BudgetID,
		Name:            account.Name,
		Number:          account.Number,
		AllocatedAmount: account.AllocatedAmount,
		ParentID:        account.ParentID,
		IsRoot:          account.IsRoot(),
		CreatedAt:       account.CreatedAt,
		UpdatedAt:       account.UpdatedAt,
	}
}

// ToAccountMetricsResponse converts a metrics projection to a response DTO
func ToAccountMetricsResponse(m *acquisition.AccountMetrics) AccountMetricsResponse {
	return AccountMetricsResponse{
		AccountID:       m.AccountID,
		Depth:           m.Depth,
		AllocatedAmount: m.AllocatedAmount,
		Distribution:    m.Distribution,
		Encumbrance: AmountPairResponse{
			Self:     m.SelfEncumbrance,
			Children: m.ChildrenEncumbrance,
			Total:    m.SelfEncumbrance.Add(m.ChildrenEncumbrance),
		},
		Expenditure: AmountPairResponse{
			Self:     m.SelfExpenditure,
			Children: m.ChildrenExpenditure,
			Total:    m.SelfExpenditure.Add(m.ChildrenExpenditure),
		},
		RemainingBalance: BalanceResponse{
			Self:  m.BalanceSelf,
			Total: m.BalanceTotal,
		},
		ComputedAt: m.ComputedAt,
	}
}

// ToOrderLineResponse converts a domain OrderLine to a response DTO
func ToOrderLineResponse(line *acquisition.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		ID:               line.ID,
		OrderID:          line.OrderID,
		AccountID:        line.AccountID,
		DocumentID:       line.DocumentID,
		Quantity:         line.Quantity,
		Amount:           line.Amount,
		TotalAmount:      line.TotalAmount,
		ReceivedQuantity: line.ReceivedQuantity,
		Status:           line.Status(),
		OrderDate:        line.OrderDate,
		Notes:            line.Notes,
		CreatedAt:        line.CreatedAt,
		UpdatedAt:        line.UpdatedAt,
	}
}

// ToOrderResponse converts a domain Order and its lines to a response DTO
func ToOrderResponse(order *acquisition.Order, lines []acquisition.OrderLine) OrderResponse {
	lineResponses := make([]OrderLineResponse, len(lines))
	statuses := make([]acquisition.OrderLineStatus, len(lines))
	total := decimal.Zero
	for i := range lines {
		lineResponses[i] = ToOrderLineResponse(&lines[i])
		statuses[i] = lines[i].Status()
		if !lines[i].IsCancelled {
			total = total.Add(lines[i].TotalAmount)
		}
	}
	return OrderResponse{
		ID:          order.ID,
		LibraryID:   order.LibraryID,
		OrderNumber: order.OrderNumber,
		Reference:   order.Reference(),
		VendorID:    order.VendorID,
		Type:        order.Type,
		Status:      acquisition.DeriveOrderStatus(statuses),
		OrderDate:   order.OrderDate(lines),
		Lines:       lineResponses,
		TotalAmount: total,
		Notes:       order.Notes,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

// ToReceiptLineResponse converts a domain ReceiptLine to a response DTO
func ToReceiptLineResponse(line *acquisition.ReceiptLine) ReceiptLineResponse {
	return ReceiptLineResponse{
		ID:          line.ID,
		ReceiptID:   line.ReceiptID,
		OrderLineID: line.OrderLineID,
		AccountID:   line.AccountID,
		Quantity:    line.Quantity,
		Amount:      line.Amount,
		TotalAmount: line.TotalAmount(),
		ReceiptDate: line.ReceiptDate,
		CreatedAt:   line.CreatedAt,
	}
}

// ToAdjustmentResponse converts a domain AmountAdjustment to a response DTO
func ToAdjustmentResponse(adj *acquisition.AmountAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:        adj.ID,
		AccountID: adj.AccountID,
		Label:     adj.Label,
		Amount:    adj.Amount,
		CreatedAt: adj.CreatedAt,
	}
}

// ToReceiptResponse converts a domain Receipt and its lines to a response DTO
func ToReceiptResponse(receipt *acquisition.Receipt, lines []acquisition.ReceiptLine) ReceiptResponse {
	adjustments := make([]AdjustmentResponse, len(receipt.Adjustments))
	for i := range receipt.Adjustments {
		adjustments[i] = ToAdjustmentResponse(&receipt.Adjustments[i])
	}
	lineResponses := make([]ReceiptLineResponse, len(lines))
	for i := range lines {
		lineResponses[i] = ToReceiptLineResponse(&lines[i])
	}
	return ReceiptResponse{
		ID:           receipt.ID,
		OrderID:      receipt.OrderID,
		LibraryID:    receipt.LibraryID,
		ExchangeRate: receipt.ExchangeRate,
		Adjustments:  adjustments,
		Lines:        lineResponses,
		TotalAmount:  receipt.TotalAmount(),
		CreatedAt:    receipt.CreatedAt,
		UpdatedAt:    receipt.UpdatedAt,
	}
}

// ToBudgetResponse converts a domain Budget to a response DTO
func ToBudgetResponse(budget *acquisition.Budget) BudgetResponse {
	return BudgetResponse{
		ID:             budget.ID,
		OrganisationID: budget.OrganisationID,
		Name:           budget.Name,
		StartDate:      budget.StartDate,
		EndDate:        budget.EndDate,
		IsActive:       budget.IsActive,
		CreatedAt:      budget.CreatedAt,
		UpdatedAt:      budget.UpdatedAt,
	}
}
