package acquisition

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ils/backend/internal/domain/acquisition"
)

func createTestReceipt(t *testing.T, orderID uuid.UUID) *acquisition.Receipt {
	t.Helper()
	receipt, err := acquisition.NewReceipt(testOrgID, testLibraryID, orderID, decimal.NewFromInt(1))
	require.NoError(t, err)
	receipt.ClearDomainEvents()
	return receipt
}

func newTestReceiptService(receiptRepo *MockReceiptRepository, receiptLineRepo *MockReceiptLineRepository, orderRepo *MockOrderRepository, orderLineRepo *MockOrderLineRepository) *ReceiptService {
	accountRepo := newFakeAccountRepo(newTestAccountForOrders())
	return NewReceiptService(receiptRepo, receiptLineRepo, orderRepo, orderLineRepo, accountRepo)
}

func TestReceiptService_Create(t *testing.T) {
	t.Run("exchange rate defaults to one", func(t *testing.T) {
		order := createTestOrder(t)
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByIDForOrganisation", mock.Anything, testOrgID, order.ID).Return(order, nil)
		receiptRepo := new(MockReceiptRepository)
		receiptRepo.On("Save", mock.Anything, mock.AnythingOfType("*acquisition.Receipt")).Return(nil)

		service := newTestReceiptService(receiptRepo, new(MockReceiptLineRepository), orderRepo, new(MockOrderLineRepository))

		result, err := service.Create(context.Background(), testOrgID, CreateReceiptRequest{
			OrderID:   order.ID,
			LibraryID: testLibraryID,
		})

		assert.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1).Equal(result.ExchangeRate))
		receiptRepo.AssertExpectations(t)
	})
}

func TestReceiptService_ReceiveLines(t *testing.T) {
	setupLine := func(t *testing.T, orderID uuid.UUID, quantity int64) *acquisition.OrderLine {
		line := createTestOrderLine(t, orderID, quantity)
		line.MarkOrdered(time.Now())
		line.ClearDomainEvents()
		return line
	}

	t.Run("batch succeeds line by line", func(t *testing.T) {
		order := createTestOrder(t)
		receipt := createTestReceipt(t, order.ID)
		lineA := setupLine(t, order.ID, 5)
		lineB := setupLine(t, order.ID, 3)
		lineC := setupLine(t, order.ID, 2)
		lineD := setupLine(t, order.ID, 4)

		receiptRepo := new(MockReceiptRepository)
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		orderLineRepo := new(MockOrderLineRepository)
		for _, line := range []*acquisition.OrderLine{lineA, lineB, lineC, lineD} {
			orderLineRepo.On("FindByID", mock.Anything, line.ID).Return(line, nil)
		}
		orderLineRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		receiptLineRepo := new(MockReceiptLineRepository)
		receiptLineRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := newTestReceiptService(receiptRepo, receiptLineRepo, new(MockOrderRepository), orderLineRepo)

		result, err := service.ReceiveLines(context.Background(), testOrgID, receipt.ID, ReceiveLinesRequest{
			Lines: []ReceiveLineInput{
				{OrderLineID: lineA.ID, Quantity: 5, Amount: decimal.NewFromInt(10)},
				{OrderLineID: lineB.ID, Quantity: 1, Amount: decimal.NewFromInt(20)},
				{OrderLineID: lineC.ID, Quantity: 2, Amount: decimal.NewFromInt(15)},
				{OrderLineID: lineD.ID, Quantity: 4, Amount: decimal.NewFromInt(8)},
			},
		})

		assert.NoError(t, err)
		require.Len(t, result.Results, 4)
		for _, r := range result.Results {
			assert.Equal(t, "SUCCESS", r.Status)
			require.NotNil(t, r.Line)
		}
		assert.Equal(t, acquisition.OrderLineStatusReceived, lineA.Status())
		assert.Equal(t, acquisition.OrderLineStatusPartiallyReceived, lineB.Status())
		assert.Equal(t, int64(1), lineB.ReceivedQuantity)
	})

	t.Run("over reception fails its slot and leaves the line untouched", func(t *testing.T) {
		order := createTestOrder(t)
		receipt := createTestReceipt(t, order.ID)
		line := setupLine(t, order.ID, 5)

		receiptRepo := new(MockReceiptRepository)
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		orderLineRepo := new(MockOrderLineRepository)
		orderLineRepo.On("FindByID", mock.Anything, line.ID).Return(line, nil)
		receiptLineRepo := new(MockReceiptLineRepository)

		service := newTestReceiptService(receiptRepo, receiptLineRepo, new(MockOrderRepository), orderLineRepo)

		result, err := service.ReceiveLines(context.Background(), testOrgID, receipt.ID, ReceiveLinesRequest{
			Lines: []ReceiveLineInput{
				{OrderLineID: line.ID, Quantity: 12, Amount: decimal.NewFromInt(10)},
			},
		})

		assert.NoError(t, err)
		require.Len(t, result.Results, 1)
		assert.Equal(t, "FAILURE", result.Results[0].Status)
		assert.Contains(t, result.Results[0].Error, "QUANTITY_EXCEEDED")
		assert.Equal(t, int64(0), line.ReceivedQuantity)
		orderLineRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		receiptLineRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("one failing line does not abort its siblings", func(t *testing.T) {
		order := createTestOrder(t)
		receipt := createTestReceipt(t, order.ID)
		good := setupLine(t, order.ID, 5)
		bad := setupLine(t, order.ID, 2)

		receiptRepo := new(MockReceiptRepository)
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		orderLineRepo := new(MockOrderLineRepository)
		orderLineRepo.On("FindByID", mock.Anything, good.ID).Return(good, nil)
		orderLineRepo.On("FindByID", mock.Anything, bad.ID).Return(bad, nil)
		orderLineRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		receiptLineRepo := new(MockReceiptLineRepository)
		receiptLineRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := newTestReceiptService(receiptRepo, receiptLineRepo, new(MockOrderRepository), orderLineRepo)

		result, err := service.ReceiveLines(context.Background(), testOrgID, receipt.ID, ReceiveLinesRequest{
			Lines: []ReceiveLineInput{
				{OrderLineID: bad.ID, Quantity: 99, Amount: decimal.NewFromInt(10)},
				{OrderLineID: good.ID, Quantity: 3, Amount: decimal.NewFromInt(10)},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "FAILURE", result.Results[0].Status)
		assert.Equal(t, "SUCCESS", result.Results[1].Status)
		assert.Equal(t, int64(3), good.ReceivedQuantity)
	})

	t.Run("line of another order is rejected", func(t *testing.T) {
		order := createTestOrder(t)
		receipt := createTestReceipt(t, order.ID)
		foreign := setupLine(t, uuid.New(), 5)

		receiptRepo := new(MockReceiptRepository)
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		orderLineRepo := new(MockOrderLineRepository)
		orderLineRepo.On("FindByID", mock.Anything, foreign.ID).Return(foreign, nil)

		service := newTestReceiptService(receiptRepo, new(MockReceiptLineRepository), new(MockOrderRepository), orderLineRepo)

		result, err := service.ReceiveLines(context.Background(), testOrgID, receipt.ID, ReceiveLinesRequest{
			Lines: []ReceiveLineInput{
				{OrderLineID: foreign.ID, Quantity: 1, Amount: decimal.NewFromInt(10)},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "FAILURE", result.Results[0].Status)
		assert.Contains(t, result.Results[0].Error, "WRONG_ORDER")
	})
}

func TestReceiptService_AddAdjustment(t *testing.T) {
	t.Run("adjustments drive the receipt total", func(t *testing.T) {
		order := createTestOrder(t)
		receipt := createTestReceipt(t, order.ID)

		receiptRepo := new(MockReceiptRepository)
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		receiptRepo.On("Save", mock.Anything, receipt).Return(nil)
		receiptLineRepo := new(MockReceiptLineRepository)
		receiptLineRepo.On("FindByReceipt", mock.Anything, receipt.ID).Return([]acquisition.ReceiptLine{}, nil)

		service := newTestReceiptService(receiptRepo, receiptLineRepo, new(MockOrderRepository), new(MockOrderLineRepository))

		_, err := service.AddAdjustment(context.Background(), testOrgID, receipt.ID, AddAdjustmentRequest{
			AccountID: testAccountID,
			Label:     "shipping",
			Amount:    decimal.RequireFromString("12.504"),
		})
		require.NoError(t, err)

		result, err := service.AddAdjustment(context.Background(), testOrgID, receipt.ID, AddAdjustmentRequest{
			AccountID: testAccountID,
			Label:     "discount",
			Amount:    decimal.RequireFromString("-3.20"),
		})

		assert.NoError(t, err)
		assert.True(t, decimal.RequireFromString("9.30").Equal(result.TotalAmount), "total = %s", result.TotalAmount)
	})
}

func TestReceiptService_Delete(t *testing.T) {
	t.Run("receipt with lines cannot be deleted", func(t *testing.T) {
		order := createTestOrder(t)
		receipt := createTestReceipt(t, order.ID)

		receiptRepo := new(MockReceiptRepository)
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		receiptLineRepo := new(MockReceiptLineRepository)
		receiptLineRepo.On("CountByReceipt", mock.Anything, receipt.ID).Return(int64(2), nil)

		service := newTestReceiptService(receiptRepo, receiptLineRepo, new(MockOrderRepository), new(MockOrderLineRepository))

		err := service.Delete(context.Background(), testOrgID, receipt.ID)

		assert.Error(t, err)
		receiptRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("empty receipt is deleted", func(t *testing.T) {
		order := createTestOrder(t)
		receipt := createTestReceipt(t, order.ID)

		receiptRepo := new(MockReceiptRepository)
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		receiptRepo.On("Delete", mock.Anything, receipt.ID).Return(nil)
		receiptLineRepo := new(MockReceiptLineRepository)
		receiptLineRepo.On("CountByReceipt", mock.Anything, receipt.ID).Return(int64(0), nil)

		service := newTestReceiptService(receiptRepo, receiptLineRepo, new(MockOrderRepository), new(MockOrderLineRepository))

		err := service.Delete(context.Background(), testOrgID, receipt.ID)

		assert.NoError(t, err)
		receiptRepo.AssertExpectations(t)
	})
}
