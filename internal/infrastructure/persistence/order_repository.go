package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ils/backend/internal/domain/acquisition"
	"github.com/ils/backend/internal/domain/shared"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*acquisition.Order, error) {
	var order acquisition.Order
	if err := r.db.WithContext(ctx).
		Preload("Notes").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForOrganisation finds an order by ID within an organisation
func (r *GormOrderRepository) FindByIDForOrganisation(ctx context.Context, organisationID, id uuid.UUID) (*acquisition.Order, error) {
	var order acquisition.Order
	if err := r.db.WithContext(ctx).
		Preload("Notes").
		Where("organisation_id = ? AND id = ?", organisationID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForOrganisation finds all orders for an organisation
func (r *GormOrderRepository) FindAllForOrganisation(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) ([]acquisition.Order, error) {
	var orders []acquisition.Order
	query := r.db.WithContext(ctx).Model(&acquisition.Order{}).
		Where("organisation_id = ?", organisationID)
	query = r.applyFilter(query, filter)

	if err := query.Preload("Notes").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountForOrganisation counts orders for an organisation
func (r *GormOrderRepository) CountForOrganisation(ctx context.Context, organisationID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&acquisition.Order{}).
		Where("organisation_id = ?", organisationID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber generates a unique order number for an organisation.
// Format: YYYY-NNNNN (e.g., 2026-00001)
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, organisationID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%d-", year)

	var lastOrder acquisition.Order
	err := r.db.WithContext(ctx).
		Model(&acquisition.Order{}).
		Where("organisation_id = ? AND order_number LIKE ?", organisationID, prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 2 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[1], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	orderNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Walk forward on collision, e.g. after a concurrent insert
	for i := 0; i < 100; i++ {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&acquisition.Order{}).
			Where("organisation_id = ? AND order_number = ?", organisationID, orderNumber).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			break
		}
		nextNum++
		orderNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
	}

	return orderNumber, nil
}

// Save creates or updates an order together with its notes
func (r *GormOrderRepository) Save(ctx context.Context, order *acquisition.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Notes").Save(order).Error; err != nil {
			return err
		}
		for i := range order.Notes {
			if err := tx.Save(&order.Notes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes an order together with its lines and notes
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lineIDs []uuid.UUID
		if err := tx.Model(&acquisition.OrderLine{}).
			Where("order_id = ?", id).
			Pluck("id", &lineIDs).Error; err != nil {
			return err
		}
		if len(lineIDs) > 0 {
			if err := tx.Where("parent_id IN ?", lineIDs).Delete(&acquisition.Note{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", id).Delete(&acquisition.OrderLine{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("parent_id = ?", id).Delete(&acquisition.Note{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&acquisition.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("order_number LIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "library_id":
			query = query.Where("library_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ acquisition.OrderRepository = (*GormOrderRepository)(nil)
