package handlers

import "customer-orders-api/internal/models"

type CustomerPagination struct {
	CurrentPage    int   `json:"current_page"`
	TotalPages     int64 `json:"total_pages"`
	TotalCustomers int64 `json:"total_customers"`
	Limit          int   `json:"limit"`
}

type OrderPagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int64 `json:"total_pages"`
	TotalOrders int64 `json:"total_orders"`
	Limit       int   `json:"limit"`
}

type CustomerListResponse struct {
	Customers  []models.CustomerSummary `json:"customers"`
	Pagination CustomerPagination       `json:"pagination"`
}

type CustomerDetailBody struct {
	models.Customer
	OrderStatistics models.OrderStatistics `json:"order_statistics"`
}

type CustomerDetailResponse struct {
	Customer CustomerDetailBody `json:"customer"`
}

// CustomerRef identifies the owner of a customer order listing.
type CustomerRef struct {
	ID        int64   `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type CustomerOrdersResponse struct {
	Customer   CustomerRef             `json:"customer"`
	Orders     []models.OrderWithOwner `json:"orders"`
	Pagination OrderPagination         `json:"pagination"`
}

type OrderDetailResponse struct {
	Order models.OrderDetail `json:"order"`
}

type OrderFilters struct {
	Status *string `json:"status"`
}

type OrderListResponse struct {
	Orders     []models.OrderWithOwner `json:"orders"`
	Pagination OrderPagination         `json:"pagination"`
	Filters    OrderFilters            `json:"filters"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
