package handler

import (
	"github.com/gin-gonic/gin"

	acqapp "github.com/ils/backend/internal/application/acquisition"
)

// BudgetHandler handles fiscal budget API endpoints
type BudgetHandler struct {
	BaseHandler
	budgetService *acqapp.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *acqapp.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// Create handles POST /acquisition/budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	var req acqapp.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	budget, err := h.budgetService.Create(c.Request.Context(), organisationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, budget)
}

// GetByID handles GET /acquisition/budgets/:id
func (h *BudgetHandler) GetByID(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	budgetID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	budget, err := h.budgetService.GetByID(c.Request.Context(), organisationID, budgetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// GetActive handles GET /acquisition/budgets/active
func (h *BudgetHandler) GetActive(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	budget, err := h.budgetService.GetActive(c.Request.Context(), organisationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// Activate handles POST /acquisition/budgets/:id/activate
func (h *BudgetHandler) Activate(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	budgetID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	if err := h.budgetService.Activate(c.Request.Context(), organisationID, budgetID); err != nil {
		h.HandleError(c, err)
		return
	}

	budget, err := h.budgetService.GetByID(c.Request.Context(), organisationID, budgetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}
