package acquisition

import (
	"time"

	"github.com/google/uuid"

	"github.com/ils/backend/internal/domain/shared"
)

// Budget is a time-bounded funding period. Accounts belong to exactly one
// budget; only accounts of the active budget accept new order lines.
type Budget struct {
	shared.BaseAggregateRoot
	OrganisationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(200);not null"`
	StartDate      time.Time `gorm:"not null"`
	EndDate        time.Time `gorm:"not null"`
	IsActive       bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Budget) TableName() string {
	return "acq_budgets"
}

// NewBudget creates a new funding period
func NewBudget(organisationID uuid.UUID, name string, startDate, endDate time.Time) (*Budget, error) {
	if organisationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANISATION", "Organisation ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Budget name cannot be empty")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Budget end date must be after its start date")
	}

	return &Budget{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrganisationID:    organisationID,
		Name:              name,
		StartDate:         startDate,
		EndDate:           endDate,
	}, nil
}

// Activate marks the budget as the active funding period
func (b *Budget) Activate() {
	b.IsActive = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Deactivate closes the funding period
func (b *Budget) Deactivate() {
	b.IsActive = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Contains reports whether the given date falls inside the funding period
func (b *Budget) Contains(date time.Time) bool {
	return !date.Before(b.StartDate) && !date.After(b.EndDate)
}
