package handler

import (
	"github.com/gin-gonic/gin"

	acqapp "github.com/ils/backend/internal/application/acquisition"
)

// ReceiptHandler handles receipt and reception API endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService *acqapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *acqapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// Create handles POST /acquisition/receipts
func (h *ReceiptHandler) Create(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	var req acqapp.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), organisationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// GetByID handles GET /acquisition/receipts/:id
func (h *ReceiptHandler) GetByID(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), organisationID, receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// ListByOrder handles GET /acquisition/orders/:id/receipts
func (h *ReceiptHandler) ListByOrder(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	receipts, err := h.receiptService.ListByOrder(c.Request.Context(), organisationID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipts)
}

// AddAdjustment handles POST /acquisition/receipts/:id/adjustments
func (h *ReceiptHandler) AddAdjustment(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	var req acqapp.AddAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.AddAdjustment(c.Request.Context(), organisationID, receiptID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// ReceiveLines handles POST /acquisition/receipts/:id/lines
func (h *ReceiptHandler) ReceiveLines(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	var req acqapp.ReceiveLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.receiptService.ReceiveLines(c.Request.Context(), organisationID, receiptID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete handles DELETE /acquisition/receipts/:id
func (h *ReceiptHandler) Delete(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), organisationID, receiptID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
