package server

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"customer-orders-api/internal/handlers"
	"customer-orders-api/internal/ui"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

func NewServer(querier handlers.Querier, logger *slog.Logger) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(querier, logger),
		sseHandlers: handlers.NewSSEHandlers(querier, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)

	// Customers
	s.mux.HandleFunc("GET /customers", s.apiHandlers.HandleListCustomers)
	s.mux.HandleFunc("GET /customers/{id}", s.apiHandlers.HandleGetCustomer)
	s.mux.HandleFunc("GET /customers/{id}/orders", s.apiHandlers.HandleListCustomerOrders)

	// Orders
	s.mux.HandleFunc("GET /orders", s.apiHandlers.HandleListOrders)
	s.mux.HandleFunc("GET /orders/{orderId}", s.apiHandlers.HandleGetOrder)

	// Customer list page
	s.mux.Handle("GET /{$}", templ.Handler(ui.Dashboard()))
	s.mux.HandleFunc("GET /sse/customers", s.sseHandlers.HandleCustomers)

	s.mux.HandleFunc("/", s.apiHandlers.HandleNotFound)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
