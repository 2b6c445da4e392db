package query

import (
	"math"
	"strconv"
	"strings"
)

// Limits holds the page size applied when a request names none and the
// largest page size a request may ask for.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

var DefaultLimits = Limits{DefaultLimit: 10, MaxLimit: 100}

// PageRequest is a 1-indexed page number and page size.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest turns raw page and limit parameters into a PageRequest.
// Missing, malformed or non-positive values fall back to page 1 and the
// default limit; limits above MaxLimit are clamped.
func (l Limits) ParsePageRequest(pageRaw, limitRaw string) PageRequest {
	l = l.normalized()
	req := PageRequest{
		Page:  positiveOr(pageRaw, 1),
		Limit: positiveOr(limitRaw, l.DefaultLimit),
	}
	if req.Limit > l.MaxLimit {
		req.Limit = l.MaxLimit
	}
	return req
}

func (l Limits) normalized() Limits {
	if l.MaxLimit <= 0 {
		l.MaxLimit = DefaultLimits.MaxLimit
	}
	if l.DefaultLimit <= 0 {
		l.DefaultLimit = DefaultLimits.DefaultLimit
	}
	if l.DefaultLimit > l.MaxLimit {
		l.DefaultLimit = l.MaxLimit
	}
	return l
}

// Offset returns (Page-1)*Limit. ok is false when the offset does not fit in
// an int, in which case the page is necessarily past the end of any result.
func (p PageRequest) Offset() (offset int, ok bool) {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0, true
	}
	if p.Page-1 > math.MaxInt32/p.Limit {
		return 0, false
	}
	return (p.Page - 1) * p.Limit, true
}

// Page is one slice of an ordered result set together with the size of the
// whole set.
type Page[T any] struct {
	Items      []T
	Number     int
	Limit      int
	Total      int64
	TotalPages int64
}

func newPage[T any](req PageRequest, items []T, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Number:     req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: TotalPages(total, req.Limit),
	}
}

// TotalPages is ceil(total/limit), 0 for an empty set.
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
