package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/goccy/go-json"
	"github.com/starfederation/datastar-go/datastar"

	"customer-orders-api/internal/models"
	"customer-orders-api/internal/observability"
	"customer-orders-api/internal/query"
	"customer-orders-api/internal/ui"
)

// listViewLimit is the page size of the customer list page.
const listViewLimit = 20

type listSignals struct {
	Page   int    `json:"page"`
	Search string `json:"search"`
}

type SSEHandlers struct {
	querier Querier
	logger  *slog.Logger
}

func NewSSEHandlers(querier Querier, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		querier: querier,
		logger:  logger,
	}
}

// HandleCustomers loads the requested page of customers, narrows it to the
// search term and patches the card grid and the paging signals.
func (h *SSEHandlers) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var signals listSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("read signals", "error", err, "request_id", requestID)
	}
	if signals.Page < 1 {
		signals.Page = 1
	}

	page, err := h.querier.ListCustomers(r.Context(), query.PageRequest{Page: signals.Page, Limit: listViewLimit})

	sse := datastar.NewSSE(w, r)

	if err != nil {
		h.logger.Error("list customers for view", "error", err, "request_id", requestID)
		h.patch(r, sse, ui.ErrorNotice("Failed to fetch customers. Please try again."), requestID)
		return
	}

	// Clamp the view back onto the last page when the set shrank under it.
	if page.TotalPages > 0 && int64(signals.Page) > page.TotalPages {
		signals.Page = int(page.TotalPages)
		page, err = h.querier.ListCustomers(r.Context(), query.PageRequest{Page: signals.Page, Limit: listViewLimit})
		if err != nil {
			h.logger.Error("list customers for view", "error", err, "request_id", requestID)
			h.patch(r, sse, ui.ErrorNotice("Failed to fetch customers. Please try again."), requestID)
			return
		}
	}

	search := strings.TrimSpace(signals.Search)
	h.patch(r, sse, ui.CustomerCards(FilterCustomers(page.Items, search), search), requestID)

	payload, err := json.Marshal(map[string]any{
		"page":           signals.Page,
		"totalPages":     page.TotalPages,
		"totalCustomers": page.Total,
	})
	if err != nil {
		h.logger.Error("marshal list signals", "error", err, "request_id", requestID)
		return
	}
	if err := sse.PatchSignals(payload); err != nil {
		h.logger.Warn("patch signals", "error", err, "request_id", requestID)
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) patch(r *http.Request, sse *datastar.ServerSentEventGenerator, c templ.Component, requestID string) {
	var buf strings.Builder
	if err := c.Render(r.Context(), &buf); err != nil {
		h.logger.Error("render customer list", "error", err, "request_id", requestID)
		return
	}
	if err := sse.PatchElements(buf.String()); err != nil {
		h.logger.Warn("patch elements", "error", err, "request_id", requestID)
	}
}

// FilterCustomers keeps the customers whose first name, last name or email
// contains term, ignoring case. An empty term keeps everything.
func FilterCustomers(customers []models.CustomerSummary, term string) []models.CustomerSummary {
	term = strings.ToLower(term)
	if term == "" {
		return customers
	}

	out := make([]models.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		if containsFold(c.FirstName, term) || containsFold(c.LastName, term) || containsFold(c.Email, term) {
			out = append(out, c)
		}
	}
	return out
}

func containsFold(field *string, lowerTerm string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), lowerTerm)
}
