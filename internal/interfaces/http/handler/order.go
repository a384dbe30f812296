package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	acqapp "github.com/ils/backend/internal/application/acquisition"
	"github.com/ils/backend/internal/domain/shared"
	"github.com/ils/backend/internal/interfaces/http/dto"
)

// OrderHandler handles acquisition order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *acqapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *acqapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Create handles POST /acquisition/orders
func (h *OrderHandler) Create(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	var req acqapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), organisationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID handles GET /acquisition/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
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

	order, err := h.orderService.GetByID(c.Request.Context(), organisationID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List handles GET /acquisition/orders
func (h *OrderHandler) List(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq = listReq.WithDefaults()

	filter := shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
		Filters:  map[string]interface{}{},
	}
	if vendorID := c.Query("vendor_id"); vendorID != "" {
		id, err := uuid.Parse(vendorID)
		if err != nil {
			h.BadRequest(c, "Invalid vendor ID format")
			return
		}
		filter.Filters["vendor_id"] = id
	}
	if libraryID := c.Query("library_id"); libraryID != "" {
		id, err := uuid.Parse(libraryID)
		if err != nil {
			h.BadRequest(c, "Invalid library ID format")
			return
		}
		filter.Filters["library_id"] = id
	}
	if orderType := c.Query("type"); orderType != "" {
		filter.Filters["type"] = orderType
	}

	orders, err := h.orderService.List(c.Request.Context(), organisationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders.Items, orders.Total, filter.Page, filter.PageSize)
}

// AddLine handles POST /acquisition/orders/:id/lines
func (h *OrderHandler) AddLine(c *gin.Context) {
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

	var req acqapp.AddOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	line, err := h.orderService.AddLine(c.Request.Context(), organisationID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, line)
}

// UpdateLine handles PUT /acquisition/order-lines/:id
func (h *OrderHandler) UpdateLine(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	lineID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order line ID format")
		return
	}

	var req acqapp.UpdateOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	line, err := h.orderService.UpdateLine(c.Request.Context(), organisationID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, line)
}

// CancelLine handles POST /acquisition/order-lines/:id/cancel
func (h *OrderHandler) CancelLine(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	lineID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order line ID format")
		return
	}

	if err := h.orderService.CancelLine(c.Request.Context(), organisationID, lineID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeleteLine handles DELETE /acquisition/order-lines/:id
func (h *OrderHandler) DeleteLine(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	lineID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order line ID format")
		return
	}

	if err := h.orderService.DeleteLine(c.Request.Context(), organisationID, lineID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddNote handles POST /acquisition/orders/:id/notes
func (h *OrderHandler) AddNote(c *gin.Context) {
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

	var req acqapp.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.orderService.AddOrderNote(c.Request.Context(), organisationID, orderID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddLineNote handles POST /acquisition/order-lines/:id/notes
func (h *OrderHandler) AddLineNote(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	lineID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order line ID format")
		return
	}

	var req acqapp.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.orderService.AddLineNote(c.Request.Context(), organisationID, lineID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Send handles POST /acquisition/orders/:id/send
func (h *OrderHandler) Send(c *gin.Context) {
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

	var req acqapp.SendOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.Send(c.Request.Context(), organisationID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete handles DELETE /acquisition/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
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

	if err := h.orderService.Delete(c.Request.Context(), organisationID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
