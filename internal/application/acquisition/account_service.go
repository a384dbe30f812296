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

// ExpenditureSource computes the direct expenditure of a single account. The
// exact source of truth (invoice line items vs. receipt line amounts) is
// still being settled with the finance group, so the aggregation is kept
// behind this interface and the default implementation can be swapped out.
type ExpenditureSource interface {
	SelfExpenditure(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
}

// ReceiptExpenditureSource derives an account's direct expenditure from its
// receipt lines plus the signed receipt adjustments posted to it.
type ReceiptExpenditureSource struct {
	receiptLineRepo acquisition.ReceiptLineRepository
	receiptRepo     acquisition.ReceiptRepository
}

// NewReceiptExpenditureSource creates the default expenditure source
func NewReceiptExpenditureSource(receiptLineRepo acquisition.ReceiptLineRepository, receiptRepo acquisition.ReceiptRepository) *ReceiptExpenditureSource {
	return &ReceiptExpenditureSource{
		receiptLineRepo: receiptLineRepo,
		receiptRepo:     receiptRepo,
	}
}

// SelfExpenditure sums received amounts and adjustments for the account
func (s *ReceiptExpenditureSource) SelfExpenditure(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	received, err := s.receiptLineRepo.SumAmountsByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	adjustments, err := s.receiptRepo.SumAdjustmentsByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return received.Add(adjustments), nil
}

// AccountService handles the budget account tree: derived financial metrics,
// fund transfers across the forest, and the deletion guard.
type AccountService struct {
	accountRepo    acquisition.AccountRepository
	orderLineRepo  acquisition.OrderLineRepository
	receiptRepo    acquisition.ReceiptRepository
	budgetRepo     acquisition.BudgetRepository
	metricsRepo    acquisition.AccountMetricsRepository
	expenditure    ExpenditureSource
	eventPublisher shared.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo acquisition.AccountRepository,
	orderLineRepo acquisition.OrderLineRepository,
	receiptRepo acquisition.ReceiptRepository,
	budgetRepo acquisition.BudgetRepository,
	metricsRepo acquisition.AccountMetricsRepository,
	expenditure ExpenditureSource,
) *AccountService {
	return &AccountService{
		accountRepo:   accountRepo,
		orderLineRepo: orderLineRepo,
		receiptRepo:   receiptRepo,
		budgetRepo:    budgetRepo,
		metricsRepo:   metricsRepo,
		expenditure:   expenditure,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new account, optionally under a parent
func (s *AccountService) Create(ctx context.Context, organisationID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	budget, err := s.budgetRepo.FindByID(ctx, req.BudgetID)
	if err != nil {
		return nil, err
	}
	if budget.OrganisationID != organisationID {
		return nil, shared.NewDomainError("INVALID_BUDGET", "Budget belongs to another organisation")
	}

	var parentID *uuid.UUID
	if req.ParentID != nil {
		parent, err := s.accountRepo.FindByIDForOrganisation(ctx, organisationID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.BudgetID != req.BudgetID {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent account belongs to another budget")
		}
		parentID = &parent.ID
	}

	account, err := acquisition.NewAccount(organisationID, req.LibraryID, req.BudgetID,
		req.Name, req.Number, req.AllocatedAmount, parentID)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publish(ctx, account.GetDomainEvents())
	account.ClearDomainEvents()

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, organisationID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForOrganisation(ctx, organisationID, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves accounts for an organisation
func (s *AccountService) List(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) ([]AccountResponse, error) {
	accounts, err := s.accountRepo.FindAllForOrganisation(ctx, organisationID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses, nil
}

// UpdateAllocatedAmount manually revises an account's allocation
func (s *AccountService) UpdateAllocatedAmount(ctx context.Context, organisationID, accountID uuid.UUID, amount decimal.Decimal) error {
	account, err := s.accountRepo.FindByIDForOrganisation(ctx, organisationID, accountID)
	if err != nil {
		return err
	}
	if err := account.SetAllocatedAmount(amount); err != nil {
		return err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return err
	}
	s.publish(ctx, account.GetDomainEvents())
	account.ClearDomainEvents()
	return nil
}

// Ancestors returns the root-ward parent chain of an account, closest first
func (s *AccountService) Ancestors(ctx context.Context, account *acquisition.Account) ([]*acquisition.Account, error) {
	ancestors := make([]*acquisition.Account, 0)
	current := account
	for current.ParentID != nil {
		parent, err := s.accountRepo.FindByID(ctx, *current.ParentID)
		if err != nil {
			return nil, fmt.Errorf("resolving parent of account %s: %w", current.ID, err)
		}
		ancestors = append(ancestors, parent)
		current = parent
	}
	return ancestors, nil
}

// Depth returns the number of ancestors above the account: 0 for roots
func (s *AccountService) Depth(ctx context.Context, account *acquisition.Account) (int, error) {
	ancestors, err := s.Ancestors(ctx, account)
	if err != nil {
		return 0, err
	}
	return len(ancestors), nil
}

// Distribution sums the allocated amounts of the direct children only
func (s *AccountService) Distribution(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	return s.accountRepo.SumChildAllocations(ctx, accountID)
}

// Encumbrance computes the (self, children) encumbrance of an account. Self
// is the open order line total of the account itself; children aggregates the
// full subtrees below the direct children.
func (s *AccountService) Encumbrance(ctx context.Context, accountID uuid.UUID) (acquisition.AmountPair, error) {
	self, err := s.orderLineRepo.SumOpenAmounts(ctx, accountID)
	if err != nil {
		return acquisition.AmountPair{}, err
	}

	children, err := s.accountRepo.FindChildren(ctx, accountID)
	if err != nil {
		return acquisition.AmountPair{}, err
	}
	childrenTotal := decimal.Zero
	for i := range children {
		childPair, err := s.Encumbrance(ctx, children[i].ID)
		if err != nil {
			return acquisition.AmountPair{}, err
		}
		childrenTotal = childrenTotal.Add(childPair.Total())
	}

	return acquisition.AmountPair{Self: self, Children: childrenTotal}, nil
}

// Expenditure computes the (self, children) expenditure of an account
func (s *AccountService) Expenditure(ctx context.Context, accountID uuid.UUID) (acquisition.AmountPair, error) {
	self, err := s.expenditure.SelfExpenditure(ctx, accountID)
	if err != nil {
		return acquisition.AmountPair{}, err
	}

	children, err := s.accountRepo.FindChildren(ctx, accountID)
	if err != nil {
		return acquisition.AmountPair{}, err
	}
	childrenTotal := decimal.Zero
	for i := range children {
		childPair, err := s.Expenditure(ctx, children[i].ID)
		if err != nil {
			return acquisition.AmountPair{}, err
		}
		childrenTotal = childrenTotal.Add(childPair.Total())
	}

	return acquisition.AmountPair{Self: self, Children: childrenTotal}, nil
}

// RemainingBalance computes what the account can still spend. Self excludes
// the amounts already distributed to children; total covers the whole
// subtree.
func (s *AccountService) RemainingBalance(ctx context.Context, accountID uuid.UUID) (acquisition.Balance, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return acquisition.Balance{}, err
	}

	distribution, err := s.Distribution(ctx, accountID)
	if err != nil {
		return acquisition.Balance{}, err
	}
	encumbrance, err := s.Encumbrance(ctx, accountID)
	if err != nil {
		return acquisition.Balance{}, err
	}
	expenditure, err := s.Expenditure(ctx, accountID)
	if err != nil {
		return acquisition.Balance{}, err
	}

	return acquisition.Balance{
		Self: account.AllocatedAmount.
			Sub(distribution).
			Sub(encumbrance.Self).
			Sub(expenditure.Self),
		Total: account.AllocatedAmount.
			Sub(encumbrance.Total()).
			Sub(expenditure.Total()),
	}, nil
}

// ComputeMetrics assembles the full metrics projection of an account
func (s *AccountService) ComputeMetrics(ctx context.Context, account *acquisition.Account) (*acquisition.AccountMetrics, error) {
	depth, err := s.Depth(ctx, account)
	if err != nil {
		return nil, err
	}
	distribution, err := s.Distribution(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	encumbrance, err := s.Encumbrance(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	expenditure, err := s.Expenditure(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &acquisition.AccountMetrics{
		AccountID:           account.ID,
		OrganisationID:      account.OrganisationID,
		Depth:               depth,
		AllocatedAmount:     account.AllocatedAmount,
		Distribution:        distribution,
		SelfEncumbrance:     encumbrance.Self,
		ChildrenEncumbrance: encumbrance.Children,
		SelfExpenditure:     expenditure.Self,
		ChildrenExpenditure: expenditure.Children,
		BalanceSelf: account.AllocatedAmount.
			Sub(distribution).
			Sub(encumbrance.Self).
			Sub(expenditure.Self),
		BalanceTotal: account.AllocatedAmount.
			Sub(encumbrance.Total()).
			Sub(expenditure.Total()),
		ComputedAt: time.Now(),
	}, nil
}

// Metrics returns the derived financial view of an account. The projection
// is served when present; a missing or not yet built projection falls back
// to a live computation.
func (s *AccountService) Metrics(ctx context.Context, organisationID, accountID uuid.UUID) (*AccountMetricsResponse, error) {
	account, err := s.accountRepo.FindByIDForOrganisation(ctx, organisationID, accountID)
	if err != nil {
		return nil, err
	}

	if s.metricsRepo != nil {
		metrics, err := s.metricsRepo.FindByAccountID(ctx, accountID)
		if err == nil {
			response := ToAccountMetricsResponse(metrics)
			return &response, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}

	metrics, err := s.ComputeMetrics(ctx, account)
	if err != nil {
		return nil, err
	}
	response := ToAccountMetricsResponse(metrics)
	return &response, nil
}

// TransferFund moves an allocated amount from one account to another,
// anywhere in the forest. Three cases:
//
//  1. the target is an ancestor of the source: every node from the source up
//     to (excluding) the target is debited; nothing is credited, the amount
//     simply stops being distributed downward
//  2. source and target live in the same tree: debit from the source up to
//     (excluding) the lowest common ancestor, credit from the ancestor's
//     child on the target path down to (including) the target
//  3. disjoint trees: debit the source chain through its root, credit the
//     target chain from its root down
//
// Writes are ordered debit-closest-first then credit-top-down and committed
// as one atomic unit via AccountRepository.SaveAll, so the forest never holds
// a partially transferred amount.
func (s *AccountService) TransferFund(ctx context.Context, organisationID, sourceID, targetID uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Transfer amount must be positive")
	}
	if sourceID == targetID {
		return shared.NewDomainError("SELF_TRANSFER", "Cannot transfer fund to the same account")
	}

	source, err := s.accountRepo.FindByIDForOrganisation(ctx, organisationID, sourceID)
	if err != nil {
		return err
	}
	target, err := s.accountRepo.FindByIDForOrganisation(ctx, organisationID, targetID)
	if err != nil {
		return err
	}

	balance, err := s.RemainingBalance(ctx, sourceID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(balance.Self) {
		return shared.NewDomainError("INSUFFICIENT_BALANCE",
			fmt.Sprintf("Transfer amount %s exceeds the account available balance %s",
				amount.StringFixed(2), balance.Self.StringFixed(2)))
	}

	sourceAncestors, err := s.Ancestors(ctx, source)
	if err != nil {
		return err
	}
	targetAncestors, err := s.Ancestors(ctx, target)
	if err != nil {
		return err
	}

	// Paths are leaf-first: [node, parent, ..., root]
	sourcePath := append([]*acquisition.Account{source}, sourceAncestors...)
	targetPath := append([]*acquisition.Account{target}, targetAncestors...)

	touched := make([]*acquisition.Account, 0, len(sourcePath)+len(targetPath))

	if idx := indexOf(sourcePath, targetID); idx > 0 {
		// Case 1: target is an ancestor of the source
		for _, node := range sourcePath[:idx] {
			node.Debit(amount)
			touched = append(touched, node)
		}
	} else {
		lca := lowestCommonAncestor(sourcePath, targetPath)
		if lca != nil {
			// Case 2: same tree, disjoint branches. When the source is
			// itself the common ancestor the debit segment is empty: the
			// amount is distributed downward, not moved away.
			for _, node := range sourcePath {
				if node.ID == lca.ID {
					break
				}
				node.Debit(amount)
				touched = append(touched, node)
			}
			creditSegment := pathBelow(targetPath, lca.ID)
			for i := len(creditSegment) - 1; i >= 0; i-- {
				creditSegment[i].Credit(amount)
				touched = append(touched, creditSegment[i])
			}
		} else {
			// Case 3: disjoint trees
			for _, node := range sourcePath {
				node.Debit(amount)
				touched = append(touched, node)
			}
			for i := len(targetPath) - 1; i >= 0; i-- {
				targetPath[i].Credit(amount)
				touched = append(touched, targetPath[i])
			}
		}
	}

	if err := s.accountRepo.SaveAll(ctx, touched); err != nil {
		return err
	}

	events := []shared.DomainEvent{
		acquisition.NewFundsTransferredEvent(organisationID, sourceID, targetID, amount),
		acquisition.NewAccountDirtyEvent(organisationID, sourceID),
	}
	// When the target is an ancestor of the source the source reindex already
	// covers the whole touched chain
	if indexOf(sourcePath, targetID) <= 0 {
		events = append(events, acquisition.NewAccountDirtyEvent(organisationID, targetID))
	}
	s.publish(ctx, events)

	return nil
}

// DeletionBlockers returns the links preventing an account from being
// deleted: direct children, order lines charged to it, and receipt
// adjustments posted to it. An empty map means deletion is allowed.
func (s *AccountService) DeletionBlockers(ctx context.Context, accountID uuid.UUID) (map[string]int64, error) {
	blockers := make(map[string]int64)

	children, err := s.accountRepo.CountChildren(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if children > 0 {
		blockers["children"] = children
	}

	orderLines, err := s.orderLineRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if orderLines > 0 {
		blockers["order_lines"] = orderLines
	}

	adjustments, err := s.receiptRepo.CountAdjustmentsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if adjustments > 0 {
		blockers["adjustments"] = adjustments
	}

	return blockers, nil
}

// Delete removes an account after checking the deletion guard
func (s *AccountService) Delete(ctx context.Context, organisationID, accountID uuid.UUID) error {
	account, err := s.accountRepo.FindByIDForOrganisation(ctx, organisationID, accountID)
	if err != nil {
		return err
	}

	blockers, err := s.DeletionBlockers(ctx, accountID)
	if err != nil {
		return err
	}
	if len(blockers) > 0 {
		return shared.NewDomainError("LINKED_RECORDS",
			fmt.Sprintf("Account cannot be deleted: %s", formatBlockers(blockers)))
	}

	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return err
	}

	if account.ParentID != nil {
		s.publish(ctx, []shared.DomainEvent{
			acquisition.NewAccountDirtyEvent(organisationID, *account.ParentID),
		})
	}
	return nil
}

func (s *AccountService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Event delivery is best-effort: the reindex consumer is idempotent and
	// projections are eventually consistent
	_ = s.eventPublisher.Publish(ctx, events...)
}

// indexOf returns the position of an account ID in a path, or -1
func indexOf(path []*acquisition.Account, id uuid.UUID) int {
	for i, node := range path {
		if node.ID == id {
			return i
		}
	}
	return -1
}

// lowestCommonAncestor finds the deepest node shared by two leaf-first paths
// by walking their common root-side suffix. Returns nil for disjoint trees.
func lowestCommonAncestor(a, b []*acquisition.Account) *acquisition.Account {
	var lca *acquisition.Account
	i, j := len(a)-1, len(b)-1
	for i >= 0 && j >= 0 && a[i].ID == b[j].ID {
		lca = a[i]
		i--
		j--
	}
	return lca
}

// pathBelow returns the leaf-first prefix of a path strictly below the given
// ancestor
func pathBelow(path []*acquisition.Account, ancestorID uuid.UUID) []*acquisition.Account {
	for i, node := range path {
		if node.ID == ancestorID {
			return path[:i]
		}
	}
	return path
}

func formatBlockers(blockers map[string]int64) string {
	msg := ""
	for _, key := range []string{"children", "order_lines", "adjustments"} {
		if count, ok := blockers[key]; ok {
			if msg != "" {
				msg += ", "
			}
			msg += fmt.Sprintf("%d %s", count, key)
		}
	}
	return msg
}

// IsNotFound reports whether the error is the shared not-found sentinel
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
