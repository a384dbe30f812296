package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	acqapp "github.com/ils/backend/internal/application/acquisition"
	"github.com/ils/backend/internal/domain/shared"
	"github.com/ils/backend/internal/interfaces/http/dto"
)

// AccountHandler handles budget account API endpoints
type AccountHandler struct {
	BaseHandler
	accountService *acqapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *acqapp.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Create handles POST /acquisition/accounts
func (h *AccountHandler) Create(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	var req acqapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), organisationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// GetByID handles GET /acquisition/accounts/:id
func (h *AccountHandler) GetByID(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), organisationID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// List handles GET /acquisition/accounts
func (h *AccountHandler) List(c *gin.Context) {
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
	if budgetID := c.Query("budget_id"); budgetID != "" {
		id, err := uuid.Parse(budgetID)
		if err != nil {
			h.BadRequest(c, "Invalid budget ID format")
			return
		}
		filter.Filters["budget_id"] = id
	}
	if libraryID := c.Query("library_id"); libraryID != "" {
		id, err := uuid.Parse(libraryID)
		if err != nil {
			h.BadRequest(c, "Invalid library ID format")
			return
		}
		filter.Filters["library_id"] = id
	}
	if parentID := c.Query("parent_id"); parentID != "" {
		id, err := uuid.Parse(parentID)
		if err != nil {
			h.BadRequest(c, "Invalid parent ID format")
			return
		}
		filter.Filters["parent_id"] = id
	}
	if c.Query("roots_only") == "true" {
		filter.Filters["roots_only"] = true
	}

	accounts, err := h.accountService.List(c.Request.Context(), organisationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}

// UpdateAllocatedAmount handles PUT /acquisition/accounts/:id/allocated-amount
func (h *AccountHandler) UpdateAllocatedAmount(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var req acqapp.UpdateAccountAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.accountService.UpdateAllocatedAmount(c.Request.Context(), organisationID, accountID, req.AllocatedAmount); err != nil {
		h.HandleError(c, err)
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), organisationID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Metrics handles GET /acquisition/accounts/:id/metrics
func (h *AccountHandler) Metrics(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	metrics, err := h.accountService.Metrics(c.Request.Context(), organisationID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, metrics)
}

// Transfer handles POST /acquisition/accounts/:id/transfer
func (h *AccountHandler) Transfer(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	sourceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var req acqapp.TransferFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.accountService.TransferFund(c.Request.Context(), organisationID, sourceID, req.TargetAccountID, req.Amount); err != nil {
		h.HandleError(c, err)
		return
	}

	source, err := h.accountService.GetByID(c.Request.Context(), organisationID, sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, source)
}

// DeletionBlockers handles GET /acquisition/accounts/:id/deletion-blockers
func (h *AccountHandler) DeletionBlockers(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	// Scope check before exposing counts
	if _, err := h.accountService.GetByID(c.Request.Context(), organisationID, accountID); err != nil {
		h.HandleError(c, err)
		return
	}

	blockers, err := h.accountService.DeletionBlockers(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, blockers)
}

// Delete handles DELETE /acquisition/accounts/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	organisationID, err := getOrganisationID(c)
	if err != nil {
		h.BadRequest(c, "Organisation not resolved")
		return
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), organisationID, accountID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
