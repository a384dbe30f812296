package acquisition

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
	"github.com/ils/backend/internal/domain/shared/valueobject"
)

// OrderService handles acquisition orders and their lines
type OrderService struct {
	orderRepo      acquisition.OrderRepository
	orderLineRepo  acquisition.OrderLineRepository
	accountRepo    acquisition.AccountRepository
	receiptRepo    acquisition.ReceiptRepository
	notifier       OrderNotifier
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo acquisition.OrderRepository,
	orderLineRepo acquisition.OrderLineRepository,
	accountRepo acquisition.AccountRepository,
	receiptRepo acquisition.ReceiptRepository,
	notifier OrderNotifier,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		orderLineRepo: orderLineRepo,
		accountRepo:   accountRepo,
		receiptRepo:   receiptRepo,
		notifier:      notifier,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new empty order with a generated order number
func (s *OrderService) Create(ctx context.Context, organisationID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("generating order number: %w", err)
	}

	order, err := acquisition.NewOrder(organisationID, req.LibraryID, orderNumber, req.VendorID, req.Type)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	response := ToOrderResponse(order, nil)
	return &response, nil
}

// GetByID retrieves an order with its lines and derived status
func (s *OrderService) GetByID(ctx context.Context, organisationID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForOrganisation(ctx, organisationID, orderID)
	if err != nil {
		return nil, err
	}
	lines, err := s.orderLineRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order, lines)
	return &response, nil
}

// List retrieves orders for an organisation
func (s *OrderService) List(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, err := s.orderRepo.FindAllForOrganisation(ctx, organisationID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountForOrganisation(ctx, organisationID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		lines, err := s.orderLineRepo.FindByOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		responses[i] = ToOrderResponse(&orders[i], lines)
	}
	paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// Status derives the current order status from its lines
func (s *OrderService) Status(ctx context.Context, orderID uuid.UUID) (acquisition.OrderStatus, error) {
	lines, err := s.orderLineRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	statuses := make([]acquisition.OrderLineStatus, len(lines))
	for i := range lines {
		statuses[i] = lines[i].Status()
	}
	return acquisition.DeriveOrderStatus(statuses), nil
}

// AddLine adds a line to an order, charging the given account
func (s *OrderService) AddLine(ctx context.Context, organisationID, orderID uuid.UUID, req AddOrderLineRequest) (*OrderLineResponse, error) {
	order, err := s.orderRepo.FindByIDForOrganisation(ctx, organisationID, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.FindByIDForOrganisation(ctx, organisationID, req.AccountID); err != nil {
		return nil, err
	}

	line, err := acquisition.NewOrderLine(organisationID, order.LibraryID, orderID,
		req.AccountID, req.DocumentID, req.Quantity, req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.orderLineRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	s.publish(ctx, line.GetDomainEvents())
	line.ClearDomainEvents()

	response := ToOrderLineResponse(line)
	return &response, nil
}

// UpdateLine changes the quantity or unit amount of an order line
func (s *OrderService) UpdateLine(ctx context.Context, organisationID, lineID uuid.UUID, req UpdateOrderLineRequest) (*OrderLineResponse, error) {
	line, err := s.findLineForOrganisation(ctx, organisationID, lineID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := line.UpdateQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.Amount != nil {
		if err := line.UpdateAmount(*req.Amount); err != nil {
			return nil, err
		}
	}

	if err := s.orderLineRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	s.publish(ctx, line.GetDomainEvents())
	line.ClearDomainEvents()

	response := ToOrderLineResponse(line)
	return &response, nil
}

// CancelLine cancels an order line. The cancellation is one way and releases
// the line's encumbrance.
func (s *OrderService) CancelLine(ctx context.Context, organisationID, lineID uuid.UUID) error {
	line, err := s.findLineForOrganisation(ctx, organisationID, lineID)
	if err != nil {
		return err
	}
	if err := line.Cancel(); err != nil {
		return err
	}
	if err := s.orderLineRepo.Save(ctx, line); err != nil {
		return err
	}
	s.publish(ctx, line.GetDomainEvents())
	line.ClearDomainEvents()
	return nil
}

// DeleteLine removes an order line that has not been ordered or received yet
func (s *OrderService) DeleteLine(ctx context.Context, organisationID, lineID uuid.UUID) error {
	line, err := s.findLineForOrganisation(ctx, organisationID, lineID)
	if err != nil {
		return err
	}
	if line.ReceivedQuantity > 0 {
		return shared.NewDomainError("LINE_RECEIVED", "Order line with receptions cannot be deleted")
	}
	if err := s.orderLineRepo.Delete(ctx, lineID); err != nil {
		return err
	}
	s.publish(ctx, []shared.DomainEvent{
		acquisition.NewAccountDirtyEvent(organisationID, line.AccountID),
	})
	return nil
}

// AddOrderNote attaches a note to an order
func (s *OrderService) AddOrderNote(ctx context.Context, organisationID, orderID uuid.UUID, req AddNoteRequest) error {
	order, err := s.orderRepo.FindByIDForOrganisation(ctx, organisationID, orderID)
	if err != nil {
		return err
	}
	if err := order.AddNote(req.Type, req.Content); err != nil {
		return err
	}
	return s.orderRepo.Save(ctx, order)
}

// AddLineNote attaches a note to an order line
func (s *OrderService) AddLineNote(ctx context.Context, organisationID, lineID uuid.UUID, req AddNoteRequest) error {
	line, err := s.findLineForOrganisation(ctx, organisationID, lineID)
	if err != nil {
		return err
	}
	if err := line.AddNote(req.Type, req.Content); err != nil {
		return err
	}
	return s.orderLineRepo.Save(ctx, line)
}

// Send dispatches the order to the vendor and stamps the pending lines with
// the order date. Dispatch runs first: when every recipient fails nothing is
// stamped and the order stays pending. A partial delivery still counts as
// sent.
func (s *OrderService) Send(ctx context.Context, organisationID, orderID uuid.UUID, req SendOrderRequest) (*SendOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForOrganisation(ctx, organisationID, orderID)
	if err != nil {
		return nil, err
	}
	lines, err := s.orderLineRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	pending := make([]*acquisition.OrderLine, 0, len(lines))
	total := valueobject.ZeroCHF()
	for i := range lines {
		if !lines[i].IsCancelled {
			total, _ = total.Add(valueobject.NewMoneyCHF(lines[i].TotalAmount))
		}
		if lines[i].Status() == acquisition.OrderLineStatusApproved {
			pending = append(pending, &lines[i])
		}
	}
	if len(pending) == 0 {
		return nil, shared.NewDomainError("NOTHING_TO_SEND", "Order has no pending lines to send")
	}

	result, err := s.notifier.Dispatch(ctx, OrderNotification{
		OrderID:     order.ID,
		Reference:   order.Reference(),
		VendorID:    order.VendorID,
		TotalAmount: total.Round(2),
		Recipients:  req.Recipients,
		Message:     req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("dispatching order %s: %w", order.Reference(), err)
	}
	if result.SuccessCount() == 0 {
		return &SendOrderResponse{
			OrderID:    order.ID,
			Status:     "FAILED",
			Recipients: result.Recipients,
		}, nil
	}

	sentAt := time.Now()
	for _, line := range pending {
		line.MarkOrdered(sentAt)
	}
	if err := s.orderLineRepo.SaveAll(ctx, pending); err != nil {
		return nil, err
	}

	events := make([]shared.DomainEvent, 0, len(pending)+1)
	events = append(events, acquisition.NewOrderSentEvent(order, req.Recipients, sentAt, len(pending)))
	for _, line := range pending {
		events = append(events, line.GetDomainEvents()...)
		line.ClearDomainEvents()
	}
	s.publish(ctx, events)

	return &SendOrderResponse{
		OrderID:    order.ID,
		Status:     "SENT",
		SentAt:     &sentAt,
		Recipients: result.Recipients,
	}, nil
}

// Delete removes an order that is still pending and has no receipts
func (s *OrderService) Delete(ctx context.Context, organisationID, orderID uuid.UUID) error {
	if _, err := s.orderRepo.FindByIDForOrganisation(ctx, organisationID, orderID); err != nil {
		return err
	}

	status, err := s.Status(ctx, orderID)
	if err != nil {
		return err
	}
	if status != acquisition.OrderStatusPending {
		return shared.NewDomainError("ORDER_NOT_PENDING",
			fmt.Sprintf("Order in status %s cannot be deleted", status))
	}
	receipts, err := s.receiptRepo.CountByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if receipts > 0 {
		return shared.NewDomainError("LINKED_RECORDS", "Order with receipts cannot be deleted")
	}

	lines, err := s.orderLineRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	events := make([]shared.DomainEvent, 0, len(lines))
	for i := range lines {
		events = append(events, acquisition.NewAccountDirtyEvent(organisationID, lines[i].AccountID))
	}
	s.publish(ctx, events)
	return nil
}

func (s *OrderService) findLineForOrganisation(ctx context.Context, organisationID, lineID uuid.UUID) (*acquisition.OrderLine, error) {
	line, err := s.orderLineRepo.FindByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line.OrganisationID != organisationID {
		return nil, shared.ErrNotFound
	}
	return line, nil
}

func (s *OrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
