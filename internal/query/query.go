// Package query turns list and detail requests into bounded reads against the
// customer and order tables.
//
// Every list operation issues two independent statements, one for the page
// and one for the total. They do not share a transaction, so a concurrent
// writer could make the total and the page disagree by up to one page. The
// tables are only written by the bulk import, which makes the gap acceptable.
//
// Nothing in this package logs; failures come back as *Error.
package query

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"customer-orders-api/internal/models"
)

const (
	entityCustomer = "Customer"
	entityOrder    = "Order"
)

const customerSummaryColumns = "users.id, users.first_name, users.last_name, users.email, users.age, " +
	"users.gender, users.state, users.city, users.country, COUNT(orders.order_id) AS order_count"

const customerDetailColumns = "users.*, COUNT(orders.order_id) AS total_orders, " +
	"COUNT(CASE WHEN orders.status = ? THEN 1 END) AS delivered_orders, " +
	"COUNT(CASE WHEN orders.status = ? THEN 1 END) AS cancelled_orders"

// Querier runs the read operations against an injected gorm handle.
type Querier struct {
	db     *gorm.DB
	limits Limits
}

func New(db *gorm.DB, limits Limits) *Querier {
	return &Querier{db: db, limits: limits.normalized()}
}

// Limits reports the page size bounds requests are parsed with.
func (q *Querier) Limits() Limits {
	return q.limits
}

// ListCustomers returns one page of customers in ascending id order, each with
// the number of orders it owns.
func (q *Querier) ListCustomers(ctx context.Context, req PageRequest) (Page[models.CustomerSummary], error) {
	var rows []models.CustomerSummary

	if offset, ok := req.Offset(); ok {
		err := q.db.WithContext(ctx).
			Model(&models.Customer{}).
			Select(customerSummaryColumns).
			Joins("LEFT JOIN orders ON orders.user_id = users.id").
			Group("users.id").
			Order("users.id ASC").
			Limit(req.Limit).
			Offset(offset).
			Scan(&rows).Error
		if err != nil {
			return Page[models.CustomerSummary]{}, internal(entityCustomer, "list customers", err)
		}
	}

	var total int64
	if err := q.db.WithContext(ctx).Model(&models.Customer{}).Count(&total).Error; err != nil {
		return Page[models.CustomerSummary]{}, internal(entityCustomer, "count customers", err)
	}

	return newPage(req, rows, total), nil
}

// GetCustomer returns the customer with the given id and its order breakdown,
// computed in a single grouped join.
func (q *Querier) GetCustomer(ctx context.Context, rawID string) (models.CustomerDetail, error) {
	id, ok := parseID(rawID)
	if !ok {
		return models.CustomerDetail{}, invalidID(entityCustomer, "id", rawID)
	}

	var detail models.CustomerDetail
	res := q.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select(customerDetailColumns, models.StatusDelivered, models.StatusCancelled).
		Joins("LEFT JOIN orders ON orders.user_id = users.id").
		Where("users.id = ?", id).
		Group("users.id").
		Scan(&detail)
	if res.Error != nil {
		return models.CustomerDetail{}, internal(entityCustomer, "get customer", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.CustomerDetail{}, notFound(entityCustomer, "id", id)
	}

	return detail, nil
}

// findCustomer loads the identifying columns of a customer, failing with
// KindNotFound when the row is absent.
func (q *Querier) findCustomer(ctx context.Context, id int64) (models.Customer, error) {
	var c models.Customer
	err := q.db.WithContext(ctx).
		Select("id", "first_name", "last_name").
		Take(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Customer{}, notFound(entityCustomer, "id", id)
	}
	if err != nil {
		return models.Customer{}, internal(entityCustomer, "find customer", err)
	}
	return c, nil
}
