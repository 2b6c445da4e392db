package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-orders-api/internal/models"
)

func str(s string) *string { return &s }

func TestCustomerCards(t *testing.T) {
	customers := []models.CustomerSummary{
		{ID: 1, FirstName: str("Ada"), LastName: str("Lovelace"), Email: str("ada@example.com"), City: str("London"), Country: str("United Kingdom"), OrderCount: 4},
		{ID: 2, Email: str("<script>@example.com")},
	}

	var b strings.Builder
	require.NoError(t, CustomerCards(customers, "").Render(context.Background(), &b))
	html := b.String()

	assert.True(t, strings.HasPrefix(html, `<div id="customer-list" class="grid">`))
	assert.Contains(t, html, "<h3>Ada Lovelace</h3>")
	assert.Contains(t, html, "London, United Kingdom")
	assert.Contains(t, html, "4 orders")
	assert.Contains(t, html, "Customer #2")
	assert.Contains(t, html, "&lt;script&gt;@example.com")
	assert.NotContains(t, html, "<script>")
	assert.Equal(t, 2, strings.Count(html, `class="card"`))
}

func TestCustomerCards_Empty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, CustomerCards(nil, "").Render(context.Background(), &b))
	assert.Contains(t, b.String(), "No customers on this page.")

	b.Reset()
	require.NoError(t, CustomerCards(nil, "zed").Render(context.Background(), &b))
	assert.Contains(t, b.String(), "No customers match")
	assert.Contains(t, b.String(), "zed")
}

func TestErrorNotice(t *testing.T) {
	var b strings.Builder
	require.NoError(t, ErrorNotice("Failed <now>").Render(context.Background(), &b))

	assert.Equal(t, `<div id="customer-list" class="grid"><p class="muted">Failed &lt;now&gt;</p></div>`, b.String())
}

func TestDashboard(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Dashboard().Render(context.Background(), &b))

	html := b.String()
	assert.Contains(t, html, datastarScript)
	assert.Contains(t, html, `data-on-load="@get('/sse/customers')"`)
	assert.Contains(t, html, `id="`+CustomerListID+`"`)
	assert.Contains(t, html, "data-bind-search")
}
