package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-orders-api/internal/models"
	"customer-orders-api/internal/store/storetest"
)

func newQuerier(t *testing.T) (*Querier, func(...models.Order)) {
	t.Helper()
	db := storetest.NewDB(t)
	q := New(db, DefaultLimits)
	seedOrders := func(orders ...models.Order) {
		storetest.SeedOrders(t, db, orders...)
	}
	return q, seedOrders
}

func TestListCustomers_ThirdPageOfTwentyFive(t *testing.T) {
	q, _ := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 25)

	page, err := q.ListCustomers(context.Background(), PageRequest{Page: 3, Limit: 10})
	require.NoError(t, err)

	require.Len(t, page.Items, 5)
	for i, c := range page.Items {
		assert.Equal(t, int64(21+i), c.ID)
	}
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, 10, page.Limit)
}

func TestListCustomers_PageLength(t *testing.T) {
	tests := []struct {
		total int
		page  int
		limit int
	}{
		{total: 0, page: 1, limit: 10},
		{total: 7, page: 1, limit: 10},
		{total: 10, page: 1, limit: 10},
		{total: 11, page: 2, limit: 10},
		{total: 12, page: 4, limit: 3},
		{total: 12, page: 5, limit: 3},
		{total: 5, page: 1, limit: 1},
		{total: 5, page: 9, limit: 2},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			q, _ := newQuerier(t)
			storetest.SeedCustomers(t, q.db, tt.total)

			page, err := q.ListCustomers(context.Background(), PageRequest{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)

			want := min(tt.limit, max(0, tt.total-(tt.page-1)*tt.limit))
			assert.Len(t, page.Items, want)
			assert.NotNil(t, page.Items)
			assert.Equal(t, int64(tt.total), page.Total)
			assert.Equal(t, TotalPages(int64(tt.total), tt.limit), page.TotalPages)
		})
	}
}

func TestListCustomers_OrderCounts(t *testing.T) {
	q, seedOrders := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 3)
	seedOrders(
		storetest.Order(100, 1, "Delivered", 1),
		storetest.Order(101, 1, "Shipped", 2),
		storetest.Order(102, 1, "Cancelled", 3),
		storetest.Order(103, 3, "Processing", 4),
	)

	page, err := q.ListCustomers(context.Background(), PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)

	counts := map[int64]int64{}
	for _, c := range page.Items {
		counts[c.ID] = c.OrderCount
	}
	assert.Equal(t, map[int64]int64{1: 3, 2: 0, 3: 1}, counts)

	first := page.Items[0]
	assert.Equal(t, "First001", *first.FirstName)
	assert.Equal(t, "customer001@example.com", *first.Email)
	assert.Equal(t, "Austin", *first.City)
}

func TestListCustomers_OffsetOverflow(t *testing.T) {
	q, _ := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 2)

	page, err := q.ListCustomers(context.Background(), PageRequest{Page: 1 << 40, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(1), page.TotalPages)
}

func TestGetCustomer_OrderStatistics(t *testing.T) {
	q, seedOrders := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 2)
	seedOrders(
		storetest.Order(1, 1, "Delivered", 1),
		storetest.Order(2, 1, "Delivered", 2),
		storetest.Order(3, 1, "Cancelled", 3),
		storetest.Order(4, 1, "Shipped", 4),
		storetest.Order(5, 1, "delivered", 5),
		storetest.Order(6, 2, "Delivered", 6),
	)

	detail, err := q.GetCustomer(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), detail.ID)
	assert.Equal(t, "Last001", *detail.LastName)
	assert.Equal(t, "1 Main St", *detail.StreetAddress)
	assert.Equal(t, models.OrderStatistics{TotalOrders: 5, DeliveredOrders: 2, CancelledOrders: 1}, detail.OrderStatistics)
	assert.LessOrEqual(t, detail.DeliveredOrders+detail.CancelledOrders, detail.TotalOrders)
}

func TestGetCustomer_NoOrders(t *testing.T) {
	q, _ := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 1)

	detail, err := q.GetCustomer(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatistics{}, detail.OrderStatistics)
}

func TestGetCustomer_Failures(t *testing.T) {
	q, _ := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 1)

	_, err := q.GetCustomer(context.Background(), "999")
	assert.ErrorIs(t, err, ErrNotFound)

	var qe *Error
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "Customer", qe.Entity)
	assert.Equal(t, "999", qe.Value)

	for _, raw := range []string{"abc", "", "-1", "1.5", "12abc", " 1", "99999999999999999999"} {
		_, err := q.GetCustomer(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidArgument, "id %q", raw)
		assert.NotErrorIs(t, err, ErrNotFound)
	}
}

func TestListOrdersForCustomer(t *testing.T) {
	q, seedOrders := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 2)
	seedOrders(
		storetest.Order(10, 1, "Delivered", 10),
		storetest.Order(11, 1, "Cancelled", 30),
		storetest.Order(12, 1, "Shipped", 20),
		storetest.Order(13, 2, "Shipped", 40),
	)

	result, err := q.ListOrdersForCustomer(context.Background(), "1", PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Customer.ID)
	assert.Equal(t, "First001", *result.Customer.FirstName)
	assert.Equal(t, int64(3), result.Orders.Total)
	assert.Equal(t, int64(2), result.Orders.TotalPages)

	require.Len(t, result.Orders.Items, 2)
	assert.Equal(t, int64(11), result.Orders.Items[0].OrderID)
	assert.Equal(t, int64(12), result.Orders.Items[1].OrderID)
	for _, o := range result.Orders.Items {
		assert.Equal(t, int64(1), o.UserID)
		assert.Equal(t, "customer001@example.com", *o.Email)
		assert.Equal(t, "Last001", *o.LastName)
	}

	second, err := q.ListOrdersForCustomer(context.Background(), "1", PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, second.Orders.Items, 1)
	assert.Equal(t, int64(10), second.Orders.Items[0].OrderID)
}

func TestListOrdersForCustomer_NoOrders(t *testing.T) {
	q, _ := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 1)

	result, err := q.ListOrdersForCustomer(context.Background(), "1", PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Orders.Items)
	assert.NotNil(t, result.Orders.Items)
	assert.Equal(t, int64(0), result.Orders.Total)
	assert.Equal(t, int64(0), result.Orders.TotalPages)
}

func TestListOrdersForCustomer_UnknownCustomer(t *testing.T) {
	q, seedOrders := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 1)
	seedOrders(storetest.Order(1, 42, "Shipped", 1))

	for _, req := range []PageRequest{{1, 10}, {3, 1}, {1 << 40, 100}} {
		_, err := q.ListOrdersForCustomer(context.Background(), "42", req)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	_, err := q.ListOrdersForCustomer(context.Background(), "x", PageRequest{1, 10})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGetOrder_EmbedsOwner(t *testing.T) {
	q, seedOrders := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 3)
	seedOrders(
		storetest.Order(7, 2, "Delivered", 5),
		storetest.Order(8, 2, "Returned", 6),
	)

	order, err := q.GetOrder(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), order.OrderID)
	assert.Equal(t, "Delivered", *order.Status)
	require.NotNil(t, order.Customer)

	owner, err := q.GetCustomer(context.Background(), "2")
	require.NoError(t, err)
	got := order.Customer
	assert.Equal(t, owner.ID, got.ID)
	assert.Equal(t, owner.Email, got.Email)
	assert.Equal(t, owner.StreetAddress, got.StreetAddress)
	assert.Equal(t, owner.Latitude, got.Latitude)
	require.NotNil(t, got.CreatedAt)
	assert.True(t, owner.CreatedAt.Equal(*got.CreatedAt))
}

func TestGetOrder_DanglingOwner(t *testing.T) {
	q, seedOrders := newQuerier(t)
	seedOrders(storetest.Order(9, 77, "Shipped", 1))

	order, err := q.GetOrder(context.Background(), "9")
	require.NoError(t, err)
	assert.Nil(t, order.Customer)
}

func TestGetOrder_Failures(t *testing.T) {
	q, _ := newQuerier(t)

	_, err := q.GetOrder(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = q.GetOrder(context.Background(), "four")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var qe *Error
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "orderId", qe.Param)
	assert.Equal(t, "Order", qe.Entity)
}

func TestListOrders_StatusFilter(t *testing.T) {
	q, seedOrders := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 2)
	seedOrders(
		storetest.Order(1, 1, "Cancelled", 1),
		storetest.Order(2, 2, "Delivered", 2),
		storetest.Order(3, 2, "cancelled", 3),
		storetest.Order(4, 1, "Cancelled", 4),
		storetest.Order(5, 1, "Shipped", 5),
	)

	page, err := q.ListOrders(context.Background(), PageRequest{Page: 1, Limit: 10}, ListOrdersFilter{Status: "Cancelled"})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	for _, o := range page.Items {
		assert.Equal(t, "Cancelled", *o.Status)
	}
	assert.Equal(t, int64(4), page.Items[0].OrderID)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(1), page.TotalPages)

	all, err := q.ListOrders(context.Background(), PageRequest{Page: 1, Limit: 2}, ListOrdersFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), all.Total)
	assert.Equal(t, int64(3), all.TotalPages)
	require.Len(t, all.Items, 2)
	assert.Equal(t, int64(5), all.Items[0].OrderID)
	assert.Equal(t, int64(4), all.Items[1].OrderID)
	assert.Equal(t, "First001", *all.Items[0].FirstName)

	none, err := q.ListOrders(context.Background(), PageRequest{Page: 1, Limit: 10}, ListOrdersFilter{Status: "Lost"})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.Equal(t, int64(0), none.TotalPages)
}

func TestListOrders_PastLastPage(t *testing.T) {
	q, seedOrders := newQuerier(t)
	storetest.SeedCustomers(t, q.db, 1)
	seedOrders(
		storetest.Order(1, 1, "Shipped", 1),
		storetest.Order(2, 1, "Shipped", 2),
		storetest.Order(3, 1, "Shipped", 3),
	)

	page, err := q.ListOrders(context.Background(), PageRequest{Page: 5, Limit: 2}, ListOrdersFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.Equal(t, 5, page.Number)
}

func TestQuerier_StoreFailure(t *testing.T) {
	q, _ := newQuerier(t)
	require.NoError(t, q.db.Migrator().DropTable("orders"))

	_, err := q.ListOrders(context.Background(), PageRequest{Page: 1, Limit: 10}, ListOrdersFilter{})
	assert.ErrorIs(t, err, ErrInternal)

	_, err = q.GetCustomer(context.Background(), "1")
	assert.ErrorIs(t, err, ErrInternal)
}
