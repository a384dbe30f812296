package acquisition

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acquisition.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForOrganisation(ctx context.Context, organisationID, id uuid.UUID) (*acquisition.Order, error) {
	args := m.Called(ctx, organisationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acquisition.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForOrganisation(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) ([]acquisition.Order, error) {
	args := m.Called(ctx, organisationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]acquisition.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForOrganisation(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, organisationID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, organisationID uuid.UUID) (string, error) {
	args := m.Called(ctx, organisationID)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *acquisition.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderLineRepository is a mock implementation of OrderLineRepository
type MockOrderLineRepository struct {
	mock.Mock
}

func (m *MockOrderLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.OrderLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acquisition.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]acquisition.OrderLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]acquisition.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]acquisition.OrderLine, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]acquisition.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderLineRepository) ListIDsByAccount(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockOrderLineRepository) SumOpenAmounts(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderLineRepository) Save(ctx context.Context, line *acquisition.OrderLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockOrderLineRepository) SaveAll(ctx context.Context, lines []*acquisition.OrderLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockOrderLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReceiptRepository is a mock implementation of ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acquisition.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]acquisition.Receipt, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]acquisition.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) CountAdjustmentsByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) SumAdjustmentsByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, receipt *acquisition.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReceiptLineRepository is a mock implementation of ReceiptLineRepository
type MockReceiptLineRepository struct {
	mock.Mock
}

func (m *MockReceiptLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.ReceiptLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acquisition.ReceiptLine), args.Error(1)
}

func (m *MockReceiptLineRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]acquisition.ReceiptLine, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]acquisition.ReceiptLine), args.Error(1)
}

func (m *MockReceiptLineRepository) CountByReceipt(ctx context.Context, receiptID uuid.UUID) (int64, error) {
	args := m.Called(ctx, receiptID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptLineRepository) SumQuantityByOrderLine(ctx context.Context, orderLineID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orderLineID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptLineRepository) SumAmountsByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReceiptLineRepository) Save(ctx context.Context, line *acquisition.ReceiptLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

// MockBudgetRepository is a mock implementation of BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acquisition.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindActiveForOrganisation(ctx context.Context, organisationID uuid.UUID) (*acquisition.Budget, error) {
	args := m.Called(ctx, organisationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acquisition.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Save(ctx context.Context, budget *acquisition.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

// MockAccountMetricsRepository is a mock implementation of AccountMetricsRepository
type MockAccountMetricsRepository struct {
	mock.Mock
}

func (m *MockAccountMetricsRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*acquisition.AccountMetrics, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acquisition.AccountMetrics), args.Error(1)
}

func (m *MockAccountMetricsRepository) Upsert(ctx context.Context, metrics *acquisition.AccountMetrics) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

func (m *MockAccountMetricsRepository) DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockOrderNotifier is a mock implementation of OrderNotifier
type MockOrderNotifier struct {
	mock.Mock
}

func (m *MockOrderNotifier) Dispatch(ctx context.Context, notification OrderNotification) (DispatchResult, error) {
	args := m.Called(ctx, notification)
	return args.Get(0).(DispatchResult), args.Error(1)
}

// MockEventPublisher records published domain events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fakeAccountRepo is an in-memory AccountRepository backed by a map. The
// fund transfer and metrics tests walk real parent chains and need child
// lookups that reflect earlier writes, which is awkward to express with
// static mock expectations.
type fakeAccountRepo struct {
	accounts     map[uuid.UUID]*acquisition.Account
	saveAllCalls int
	saveAllErr   error
}

func newFakeAccountRepo(accounts ...*acquisition.Account) *fakeAccountRepo {
	repo := &fakeAccountRepo{accounts: make(map[uuid.UUID]*acquisition.Account)}
	for _, account := range accounts {
		repo.accounts[account.ID] = account
	}
	return repo
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) FindByIDForOrganisation(ctx context.Context, organisationID, id uuid.UUID) (*acquisition.Account, error) {
	account, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.OrganisationID != organisationID {
		return nil, shared.ErrNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) FindAllForOrganisation(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) ([]acquisition.Account, error) {
	result := make([]acquisition.Account, 0)
	for _, account := range r.accounts {
		if account.OrganisationID == organisationID {
			result = append(result, *account)
		}
	}
	return result, nil
}

func (r *fakeAccountRepo) FindChildren(ctx context.Context, accountID uuid.UUID) ([]acquisition.Account, error) {
	children := make([]acquisition.Account, 0)
	for _, account := range r.accounts {
		if account.ParentID != nil && *account.ParentID == accountID {
			children = append(children, *account)
		}
	}
	return children, nil
}

func (r *fakeAccountRepo) CountChildren(ctx context.Context, accountID uuid.UUID) (int64, error) {
	children, _ := r.FindChildren(ctx, accountID)
	return int64(len(children)), nil
}

func (r *fakeAccountRepo) ListChildIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	children, _ := r.FindChildren(ctx, accountID)
	ids := make([]uuid.UUID, len(children))
	for i := range children {
		ids[i] = children[i].ID
	}
	return ids, nil
}

func (r *fakeAccountRepo) SumChildAllocations(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	children, _ := r.FindChildren(ctx, accountID)
	sum := decimal.Zero
	for i := range children {
		sum = sum.Add(children[i].AllocatedAmount)
	}
	return sum, nil
}

func (r *fakeAccountRepo) Save(ctx context.Context, account *acquisition.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) SaveAll(ctx context.Context, accounts []*acquisition.Account) error {
	r.saveAllCalls++
	if r.saveAllErr != nil {
		return r.saveAllErr
	}
	for _, account := range accounts {
		r.accounts[account.ID] = account
	}
	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.accounts, id)
	return nil
}

// rootAllocationSum adds up the allocations of the root accounts, the
// quantity a fund transfer must never change
func (r *fakeAccountRepo) rootAllocationSum() decimal.Decimal {
	sum := decimal.Zero
	for _, account := range r.accounts {
		if account.ParentID == nil {
			sum = sum.Add(account.AllocatedAmount)
		}
	}
	return sum
}
