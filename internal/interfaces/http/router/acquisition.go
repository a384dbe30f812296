package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ils/backend/internal/interfaces/http/handler"
)

// AcquisitionRoutes wires the acquisition handlers into the API group
type AcquisitionRoutes struct {
	accounts *handler.AccountHandler
	orders   *handler.OrderHandler
	receipts *handler.ReceiptHandler
	budgets  *handler.BudgetHandler
}

// NewAcquisitionRoutes creates the acquisition route registrar
func NewAcquisitionRoutes(
	accounts *handler.AccountHandler,
	orders *handler.OrderHandler,
	receipts *handler.ReceiptHandler,
	budgets *handler.BudgetHandler,
) *AcquisitionRoutes {
	return &AcquisitionRoutes{
		accounts: accounts,
		orders:   orders,
		receipts: receipts,
		budgets:  budgets,
	}
}

// RegisterRoutes implements RouteRegistrar
func (r *AcquisitionRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	acq := rg.Group("/acquisition")

	accounts := acq.Group("/accounts")
	accounts.POST("", r.accounts.Create)
	accounts.GET("", r.accounts.List)
	accounts.GET("/:id", r.accounts.GetByID)
	accounts.PUT("/:id/allocated-amount", r.accounts.UpdateAllocatedAmount)
	accounts.GET("/:id/metrics", r.accounts.Metrics)
	accounts.POST("/:id/transfer", r.accounts.Transfer)
	accounts.GET("/:id/deletion-blockers", r.accounts.DeletionBlockers)
	accounts.DELETE("/:id", r.accounts.Delete)

	orders := acq.Group("/orders")
	orders.POST("", r.orders.Create)
	orders.GET("", r.orders.List)
	orders.GET("/:id", r.orders.GetByID)
	orders.POST("/:id/lines", r.orders.AddLine)
	orders.POST("/:id/notes", r.orders.AddNote)
	orders.POST("/:id/send", r.orders.Send)
	orders.GET("/:id/receipts", r.receipts.ListByOrder)
	orders.DELETE("/:id", r.orders.Delete)

	lines := acq.Group("/order-lines")
	lines.PUT("/:id", r.orders.UpdateLine)
	lines.POST("/:id/cancel", r.orders.CancelLine)
	lines.POST("/:id/notes", r.orders.AddLineNote)
	lines.DELETE("/:id", r.orders.DeleteLine)

	receipts := acq.Group("/receipts")
	receipts.POST("", r.receipts.Create)
	receipts.GET("/:id", r.receipts.GetByID)
	receipts.POST("/:id/adjustments", r.receipts.AddAdjustment)
	receipts.POST("/:id/lines", r.receipts.ReceiveLines)
	receipts.DELETE("/:id", r.receipts.Delete)

	budgets := acq.Group("/budgets")
	budgets.POST("", r.budgets.Create)
	budgets.GET("/active", r.budgets.GetActive)
	budgets.GET("/:id", r.budgets.GetByID)
	budgets.POST("/:id/activate", r.budgets.Activate)
}
