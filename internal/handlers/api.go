package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apperrors "customer-orders-api/internal/errors"
	"customer-orders-api/internal/models"
	"customer-orders-api/internal/observability"
	"customer-orders-api/internal/query"
)

const listCacheControl = "public, max-age=60"

// Querier is the read side the handlers depend on.
type Querier interface {
	Limits() query.Limits
	ListCustomers(ctx context.Context, req query.PageRequest) (query.Page[models.CustomerSummary], error)
	GetCustomer(ctx context.Context, rawID string) (models.CustomerDetail, error)
	ListOrdersForCustomer(ctx context.Context, rawID string, req query.PageRequest) (query.CustomerOrders, error)
	GetOrder(ctx context.Context, rawID string) (models.OrderDetail, error)
	ListOrders(ctx context.Context, req query.PageRequest, filter query.ListOrdersFilter) (query.Page[models.OrderWithOwner], error)
}

type APIHandlers struct {
	querier Querier
	logger  *slog.Logger
	now     func() time.Time
}

func NewAPIHandlers(querier Querier, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		querier: querier,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *APIHandlers) pageRequest(r *http.Request) query.PageRequest {
	q := r.URL.Query()
	return h.querier.Limits().ParsePageRequest(q.Get("page"), q.Get("limit"))
}

func (h *APIHandlers) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := h.querier.ListCustomers(r.Context(), h.pageRequest(r))
	if err != nil {
		h.writeQueryError(w, r, err, "Failed to retrieve customers")
		return
	}

	resp := CustomerListResponse{
		Customers: page.Items,
		Pagination: CustomerPagination{
			CurrentPage:    page.Number,
			TotalPages:     page.TotalPages,
			TotalCustomers: page.Total,
			Limit:          page.Limit,
		},
	}
	h.writeSuccess(w, r, resp, listCacheControl)
}

func (h *APIHandlers) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	detail, err := h.querier.GetCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeQueryError(w, r, err, "Failed to retrieve customer details")
		return
	}

	resp := CustomerDetailResponse{
		Customer: CustomerDetailBody{
			Customer:        detail.Customer,
			OrderStatistics: detail.OrderStatistics,
		},
	}
	h.writeSuccess(w, r, resp, "")
}

func (h *APIHandlers) HandleListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.querier.ListOrdersForCustomer(r.Context(), r.PathValue("id"), h.pageRequest(r))
	if err != nil {
		h.writeQueryError(w, r, err, "Failed to retrieve customer orders")
		return
	}

	resp := CustomerOrdersResponse{
		Customer: CustomerRef{
			ID:        result.Customer.ID,
			FirstName: result.Customer.FirstName,
			LastName:  result.Customer.LastName,
		},
		Orders:     result.Orders.Items,
		Pagination: orderPagination(result.Orders),
	}
	h.writeSuccess(w, r, resp, listCacheControl)
}

func (h *APIHandlers) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	detail, err := h.querier.GetOrder(r.Context(), r.PathValue("orderId"))
	if err != nil {
		h.writeQueryError(w, r, err, "Failed to retrieve order details")
		return
	}

	h.writeSuccess(w, r, OrderDetailResponse{Order: detail}, "")
}

func (h *APIHandlers) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	filter := query.ListOrdersFilter{Status: r.URL.Query().Get("status")}

	page, err := h.querier.ListOrders(r.Context(), h.pageRequest(r), filter)
	if err != nil {
		h.writeQueryError(w, r, err, "Failed to retrieve orders")
		return
	}

	resp := OrderListResponse{
		Orders:     page.Items,
		Pagination: orderPagination(page),
	}
	if filter.Status != "" {
		resp.Filters.Status = &filter.Status
	}
	h.writeSuccess(w, r, resp, listCacheControl)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "OK",
		Message:   "Customer API is running",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	}
	h.writeSuccess(w, r, resp, "no-store")
}

// HandleNotFound answers any request no route matched.
func (h *APIHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	err := apperrors.NotFound(fmt.Sprintf("The requested endpoint %s does not exist", r.URL.RequestURI()))
	apperrors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func orderPagination(page query.Page[models.OrderWithOwner]) OrderPagination {
	return OrderPagination{
		CurrentPage: page.Number,
		TotalPages:  page.TotalPages,
		TotalOrders: page.Total,
		Limit:       page.Limit,
	}
}

func (h *APIHandlers) writeSuccess(w http.ResponseWriter, r *http.Request, data any, cacheControl string) {
	headers := map[string]string{}
	if cacheControl != "" {
		headers["Cache-Control"] = cacheControl
	}
	if err := apperrors.WriteSuccessWithHeaders(w, data, headers); err != nil {
		h.logger.Error("failed to write response",
			"error", err,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
}

// writeQueryError maps a query failure to its status and envelope. internalMsg
// is what the client sees when the store itself failed.
func (h *APIHandlers) writeQueryError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	appErr := apperrors.InternalWrap(err, internalMsg)

	var qe *query.Error
	if errors.As(err, &qe) {
		switch qe.Kind {
		case query.KindInvalidArgument:
			appErr = apperrors.InvalidArgumentWrap(err,
				fmt.Sprintf("Invalid %s: %s ID must be a valid number, got %q", qe.Param, qe.Entity, qe.Value))
		case query.KindNotFound:
			appErr = apperrors.NotFoundWrap(err,
				fmt.Sprintf("%s with ID %s does not exist", qe.Entity, qe.Value))
		}
	}

	if span := observability.GetSpan(r.Context()); span != nil {
		span.SetError(err)
	}

	apperrors.WriteError(w, h.logger, appErr, observability.GetRequestID(r.Context()))
}
