package crud

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

const (
	// DefaultPerPage is applied when the caller does not specify a page size.
	DefaultPerPage = 20
	// MaxPerPage caps the page size.
	MaxPerPage = 100
)

// Filters represents the recognized listing parameters. Unknown query
// fields are ignored.
type Filters struct {
	Page      int
	PerPage   int
	Search    string
	Status    string
	Category  string
	Tags      []string
	SortBy    string
	SortOrder string
}

// FiltersFromQuery parses listing filters from a request query.
func FiltersFromQuery(q url.Values) Filters {
	f := Filters{
		Search:    strings.TrimSpace(q.Get("search")),
		Status:    strings.TrimSpace(q.Get("status")),
		Category:  strings.TrimSpace(q.Get("category")),
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortOrder: strings.ToLower(strings.TrimSpace(q.Get("sortOrder"))),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("pageSize"))
	if raw := strings.TrimSpace(q.Get("tags")); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}
	return f.Normalize()
}

// Normalize clamps pagination and sort order into valid ranges.
func (f Filters) Normalize() Filters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		f.SortOrder = ""
	}
	return f
}

// Offset returns the row offset, 1-indexed pages.
func (f Filters) Offset() int {
	offset := (f.Page - 1) * f.PerPage
	if offset < 0 {
		return 0
	}
	return offset
}

// Page is the envelope returned by every listing query.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
}

// NewPage assembles a page envelope from a row slice and total count.
func NewPage[T any](rows []T, total int, f Filters) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	p := shared.NewPagination(f.Page, f.PerPage, total)
	return Page[T]{
		Data:       rows,
		Total:      p.Total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: p.TotalPages,
	}
}
