package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"customer-orders-api/internal/models"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

// CustomerListID is the element the card grid is patched into.
const CustomerListID = "customer-list"

// Dashboard is the customer list page. Cards arrive over /sse/customers.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Customer Directory</title>
<script type="module" src="`+datastarScript+`"></script>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f5f6fa;color:#222}
header{padding:1.5rem 2rem;background:#2d3a4a;color:#fff}
main{padding:1.5rem 2rem}
.toolbar{display:flex;gap:1rem;align-items:center;margin-bottom:1rem}
.toolbar input{flex:1;padding:.5rem .75rem;font-size:1rem}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(240px,1fr));gap:1rem}
.card{background:#fff;border-radius:8px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.card h3{margin:0 0 .25rem}
.muted{color:#666;font-size:.9rem}
.badge{display:inline-block;margin-top:.5rem;padding:.1rem .5rem;border-radius:999px;background:#e3ecf7}
.pager{display:flex;gap:1rem;align-items:center;justify-content:center;margin-top:1.5rem}
</style>
</head>
<body data-signals="{page: 1, search: '', totalPages: 0, totalCustomers: 0}" data-on-load="@get('/sse/customers')">
<header>
<h1>Customer Directory</h1>
<p data-text="$totalCustomers + ' customers'"></p>
</header>
<main>
<div class="toolbar">
<input type="search" placeholder="Search this page by name or email" data-bind-search data-on-input__debounce.300ms="@get('/sse/customers')">
</div>
<div id="`+CustomerListID+`" class="grid"><p class="muted">Loading customers...</p></div>
<div class="pager">
<button data-attr-disabled="$page <= 1" data-on-click="$page = $page - 1; @get('/sse/customers')">Previous</button>
<span data-text="'Page ' + $page + ' of ' + $totalPages"></span>
<button data-attr-disabled="$page >= $totalPages" data-on-click="$page = $page + 1; @get('/sse/customers')">Next</button>
</div>
</main>
</body>
</html>
`)
		return err
	})
}

// CustomerCards renders the card grid for one page of customers.
func CustomerCards(customers []models.CustomerSummary, search string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div id="%s" class="grid">`, CustomerListID)

		if len(customers) == 0 {
			msg := "No customers on this page."
			if search != "" {
				msg = fmt.Sprintf("No customers match %q.", search)
			}
			fmt.Fprintf(&b, `<p class="muted">%s</p>`, templ.EscapeString(msg))
		}

		for _, c := range customers {
			b.WriteString(`<div class="card">`)
			fmt.Fprintf(&b, `<h3>%s</h3>`, templ.EscapeString(fullName(c)))
			fmt.Fprintf(&b, `<div class="muted">%s</div>`, templ.EscapeString(deref(c.Email)))
			if loc := location(c); loc != "" {
				fmt.Fprintf(&b, `<div class="muted">%s</div>`, templ.EscapeString(loc))
			}
			fmt.Fprintf(&b, `<span class="badge">%d orders</span>`, c.OrderCount)
			b.WriteString(`</div>`)
		}

		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorNotice replaces the card grid when the page could not be loaded.
func ErrorNotice(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="%s" class="grid"><p class="muted">%s</p></div>`,
			CustomerListID, templ.EscapeString(message))
		return err
	})
}

func fullName(c models.CustomerSummary) string {
	name := strings.TrimSpace(deref(c.FirstName) + " " + deref(c.LastName))
	if name == "" {
		return fmt.Sprintf("Customer #%d", c.ID)
	}
	return name
}

func location(c models.CustomerSummary) string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{c.City, c.State, c.Country} {
		if v := deref(p); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
