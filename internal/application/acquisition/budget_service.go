package acquisition

import (
	"context"

	"github.com/google/uuid"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

// BudgetService handles fiscal budgets
type BudgetService struct {
	budgetRepo acquisition.BudgetRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo acquisition.BudgetRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo}
}

// Create creates a new budget
func (s *BudgetService) Create(ctx context.Context, organisationID uuid.UUID, req CreateBudgetRequest) (*BudgetResponse, error) {
	budget, err := acquisition.NewBudget(organisationID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, budget); err != nil {
		return nil, err
	}
	response := ToBudgetResponse(budget)
	return &response, nil
}

// GetByID retrieves a budget
func (s *BudgetService) GetByID(ctx context.Context, organisationID, budgetID uuid.UUID) (*BudgetResponse, error) {
	budget, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.OrganisationID != organisationID {
		return nil, shared.ErrNotFound
	}
	response := ToBudgetResponse(budget)
	return &response, nil
}

// GetActive retrieves the active budget of an organisation
func (s *BudgetService) GetActive(ctx context.Context, organisationID uuid.UUID) (*BudgetResponse, error) {
	budget, err := s.budgetRepo.FindActiveForOrganisation(ctx, organisationID)
	if err != nil {
		return nil, err
	}
	response := ToBudgetResponse(budget)
	return &response, nil
}

// Activate marks a budget as the active one
func (s *BudgetService) Activate(ctx context.Context, organisationID, budgetID uuid.UUID) error {
	budget, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return err
	}
	if budget.OrganisationID != organisationID {
		return shared.ErrNotFound
	}

	// Only one budget may be active at a time
	if current, err := s.budgetRepo.FindActiveForOrganisation(ctx, organisationID); err == nil && current.ID != budget.ID {
		current.Deactivate()
		if err := s.budgetRepo.Save(ctx, current); err != nil {
			return err
		}
	} else if err != nil && !IsNotFound(err) {
		return err
	}

	budget.Activate()
	return s.budgetRepo.Save(ctx, budget)
}
