package query

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"customer-orders-api/internal/models"
)

// CustomerOrders is a page of one customer's orders.
type CustomerOrders struct {
	Customer models.Customer
	Orders   Page[models.OrderWithOwner]
}

// ListOrdersFilter restricts ListOrders. An empty Status matches every order.
type ListOrdersFilter struct {
	Status string
}

// ListOrdersForCustomer checks that the customer exists and then returns one
// page of its orders, newest first.
func (q *Querier) ListOrdersForCustomer(ctx context.Context, rawID string, req PageRequest) (CustomerOrders, error) {
	id, ok := parseID(rawID)
	if !ok {
		return CustomerOrders{}, invalidID(entityCustomer, "id", rawID)
	}

	owner, err := q.findCustomer(ctx, id)
	if err != nil {
		return CustomerOrders{}, err
	}

	var rows []models.OrderWithOwner
	if offset, ok := req.Offset(); ok {
		err := q.ordersWithOwner(ctx).
			Where("orders.user_id = ?", id).
			Limit(req.Limit).
			Offset(offset).
			Scan(&rows).Error
		if err != nil {
			return CustomerOrders{}, internal(entityOrder, "list customer orders", err)
		}
	}

	var total int64
	err = q.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", id).
		Count(&total).Error
	if err != nil {
		return CustomerOrders{}, internal(entityOrder, "count customer orders", err)
	}

	return CustomerOrders{Customer: owner, Orders: newPage(req, rows, total)}, nil
}

// GetOrder returns the order with the given id and its full owner record.
// Customer is nil when the owner row is missing.
func (q *Querier) GetOrder(ctx context.Context, rawID string) (models.OrderDetail, error) {
	id, ok := parseID(rawID)
	if !ok {
		return models.OrderDetail{}, invalidID(entityOrder, "orderId", rawID)
	}

	var order models.Order
	err := q.db.WithContext(ctx).Take(&order, "order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.OrderDetail{}, notFound(entityOrder, "orderId", id)
	}
	if err != nil {
		return models.OrderDetail{}, internal(entityOrder, "get order", err)
	}

	detail := models.OrderDetail{Order: order}

	var owner models.Customer
	err = q.db.WithContext(ctx).Take(&owner, "id = ?", order.UserID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// dangling user_id; the order is still returned
	case err != nil:
		return models.OrderDetail{}, internal(entityCustomer, "get order owner", err)
	default:
		detail.Customer = &owner
	}

	return detail, nil
}

// ListOrders returns one page of all orders, newest first, optionally only
// those whose status equals filter.Status exactly.
func (q *Querier) ListOrders(ctx context.Context, req PageRequest, filter ListOrdersFilter) (Page[models.OrderWithOwner], error) {
	var rows []models.OrderWithOwner

	if offset, ok := req.Offset(); ok {
		tx := q.ordersWithOwner(ctx)
		if filter.Status != "" {
			tx = tx.Where(q.statusEquals("orders.status"), filter.Status)
		}
		if err := tx.Limit(req.Limit).Offset(offset).Scan(&rows).Error; err != nil {
			return Page[models.OrderWithOwner]{}, internal(entityOrder, "list orders", err)
		}
	}

	var total int64
	tx := q.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		tx = tx.Where(q.statusEquals("status"), filter.Status)
	}
	if err := tx.Count(&total).Error; err != nil {
		return Page[models.OrderWithOwner]{}, internal(entityOrder, "count orders", err)
	}

	return newPage(req, rows, total), nil
}

func (q *Querier) ordersWithOwner(ctx context.Context) *gorm.DB {
	return q.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("orders.*, users.first_name, users.last_name, users.email").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Order("orders.order_id DESC")
}

// statusEquals compares case-sensitively. MySQL's default collations do not,
// so the comparison is forced to binary there.
func (q *Querier) statusEquals(column string) string {
	if q.db.Dialector.Name() == "mysql" {
		return "BINARY " + column + " = ?"
	}
	return column + " = ?"
}
