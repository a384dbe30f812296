package acquisition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

// ReceiptService handles receipts, batch receptions and amount adjustments
type ReceiptService struct {
	receiptRepo     acquisition.ReceiptRepository
	receiptLineRepo acquisition.ReceiptLineRepository
	orderRepo       acquisition.OrderRepository
	orderLineRepo   acquisition.OrderLineRepository
	accountRepo     acquisition.AccountRepository
	eventPublisher  shared.EventPublisher
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo acquisition.ReceiptRepository,
	receiptLineRepo acquisition.ReceiptLineRepository,
	orderRepo acquisition.OrderRepository,
	orderLineRepo acquisition.OrderLineRepository,
	accountRepo acquisition.AccountRepository,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:     receiptRepo,
		receiptLineRepo: receiptLineRepo,
		orderRepo:       orderRepo,
		orderLineRepo:   orderLineRepo,
		accountRepo:     accountRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new receipt against an order
func (s *ReceiptService) Create(ctx context.Context, organisationID uuid.UUID, req CreateReceiptRequest) (*ReceiptResponse, error) {
	order, err := s.orderRepo.FindByIDForOrganisation(ctx, organisationID, req.OrderID)
	if err != nil {
		return nil, err
	}

	exchangeRate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		exchangeRate = *req.ExchangeRate
	}

	receipt, err := acquisition.NewReceipt(organisationID, req.LibraryID, order.ID, exchangeRate)
	if err != nil {
		return nil, err
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	s.publish(ctx, receipt.GetDomainEvents())
	receipt.ClearDomainEvents()

	response := ToReceiptResponse(receipt, nil)
	return &response, nil
}

// GetByID retrieves a receipt with its lines and adjustments
func (s *ReceiptService) GetByID(ctx context.Context, organisationID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.findForOrganisation(ctx, organisationID, receiptID)
	if err != nil {
		return nil, err
	}
	lines, err := s.receiptLineRepo.FindByReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt, lines)
	return &response, nil
}

// ListByOrder retrieves all receipts of an order
func (s *ReceiptService) ListByOrder(ctx context.Context, organisationID, orderID uuid.UUID) ([]ReceiptResponse, error) {
	if _, err := s.orderRepo.FindByIDForOrganisation(ctx, organisationID, orderID); err != nil {
		return nil, err
	}
	receipts, err := s.receiptRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		lines, err := s.receiptLineRepo.FindByReceipt(ctx, receipts[i].ID)
		if err != nil {
			return nil, err
		}
		responses[i] = ToReceiptResponse(&receipts[i], lines)
	}
	return responses, nil
}

// AddAdjustment posts a signed amount correction to a receipt
func (s *ReceiptService) AddAdjustment(ctx context.Context, organisationID, receiptID uuid.UUID, req AddAdjustmentRequest) (*ReceiptResponse, error) {
	receipt, err := s.findForOrganisation(ctx, organisationID, receiptID)
	if err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.FindByIDForOrganisation(ctx, organisationID, req.AccountID); err != nil {
		return nil, err
	}

	if err := receipt.AddAdjustment(req.AccountID, req.Label, req.Amount); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	s.publish(ctx, receipt.GetDomainEvents())
	receipt.ClearDomainEvents()

	lines, err := s.receiptLineRepo.FindByReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt, lines)
	return &response, nil
}

// ReceiveLines records a batch of received lines on a receipt. Each line is
// processed on its own: a failing line reports FAILURE in its slot and the
// remaining lines still go through.
func (s *ReceiptService) ReceiveLines(ctx context.Context, organisationID, receiptID uuid.UUID, req ReceiveLinesRequest) (*ReceiveLinesResponse, error) {
	receipt, err := s.findForOrganisation(ctx, organisationID, receiptID)
	if err != nil {
		return nil, err
	}

	response := &ReceiveLinesResponse{
		ReceiptID: receipt.ID,
		Results:   make([]ReceiveLineResult, len(req.Lines)),
	}
	events := make([]shared.DomainEvent, 0, len(req.Lines)*2)

	for i, input := range req.Lines {
		result := ReceiveLineResult{OrderLineID: input.OrderLineID}

		line, lineEvents, err := s.receiveOne(ctx, organisationID, receipt, input)
		if err != nil {
			result.Status = "FAILURE"
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				result.Error = fmt.Sprintf("%s: %s", domainErr.Code, domainErr.Message)
			} else {
				result.Error = err.Error()
			}
		} else {
			result.Status = "SUCCESS"
			lineResponse := ToReceiptLineResponse(line)
			result.Line = &lineResponse
			events = append(events, lineEvents...)
		}
		response.Results[i] = result
	}

	s.publish(ctx, events)
	return response, nil
}

// receiveOne validates and persists a single reception. The over-reception
// guard runs before any write so a rejected line leaves both the order line
// and the receipt untouched.
func (s *ReceiptService) receiveOne(ctx context.Context, organisationID uuid.UUID, receipt *acquisition.Receipt, input ReceiveLineInput) (*acquisition.ReceiptLine, []shared.DomainEvent, error) {
	orderLine, err := s.orderLineRepo.FindByID(ctx, input.OrderLineID)
	if err != nil {
		return nil, nil, err
	}
	if orderLine.OrganisationID != organisationID {
		return nil, nil, shared.ErrNotFound
	}
	if orderLine.OrderID != receipt.OrderID {
		return nil, nil, shared.NewDomainError("WRONG_ORDER", "Order line belongs to another order")
	}

	if err := orderLine.AddReceivedQuantity(input.Quantity); err != nil {
		return nil, nil, err
	}

	receiptDate := time.Now()
	if input.ReceiptDate != nil {
		receiptDate = *input.ReceiptDate
	}
	receiptLine, err := acquisition.NewReceiptLine(organisationID, receipt.LibraryID,
		receipt.ID, orderLine.ID, orderLine.AccountID, input.Quantity, input.Amount, receiptDate)
	if err != nil {
		return nil, nil, err
	}

	if err := s.orderLineRepo.Save(ctx, orderLine); err != nil {
		return nil, nil, err
	}
	if err := s.receiptLineRepo.Save(ctx, receiptLine); err != nil {
		return nil, nil, err
	}

	events := append(orderLine.GetDomainEvents(), receiptLine.GetDomainEvents()...)
	orderLine.ClearDomainEvents()
	receiptLine.ClearDomainEvents()
	return receiptLine, events, nil
}

// Delete removes a receipt that has no lines yet
func (s *ReceiptService) Delete(ctx context.Context, organisationID, receiptID uuid.UUID) error {
	receipt, err := s.findForOrganisation(ctx, organisationID, receiptID)
	if err != nil {
		return err
	}

	lineCount, err := s.receiptLineRepo.CountByReceipt(ctx, receiptID)
	if err != nil {
		return err
	}
	if lineCount > 0 {
		return shared.NewDomainError("LINKED_RECORDS", "Receipt with received lines cannot be deleted")
	}

	if err := s.receiptRepo.Delete(ctx, receiptID); err != nil {
		return err
	}

	// Adjustments die with the receipt, so their accounts need a reindex
	seen := make(map[uuid.UUID]struct{})
	events := make([]shared.DomainEvent, 0, len(receipt.Adjustments))
	for i := range receipt.Adjustments {
		accountID := receipt.Adjustments[i].AccountID
		if _, ok := seen[accountID]; ok {
			continue
		}
		seen[accountID] = struct{}{}
		events = append(events, acquisition.NewAccountDirtyEvent(organisationID, accountID))
	}
	s.publish(ctx, events)
	return nil
}

func (s *ReceiptService) findForOrganisation(ctx context.Context, organisationID, receiptID uuid.UUID) (*acquisition.Receipt, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.OrganisationID != organisationID {
		return nil, shared.ErrNotFound
	}
	return receipt, nil
}

func (s *ReceiptService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
