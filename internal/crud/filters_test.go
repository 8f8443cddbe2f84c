package crud

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFiltersFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("page", "3")
	q.Set("pageSize", "50")
	q.Set("search", "  coffee ")
	q.Set("status", "published")
	q.Set("category", "dining")
	q.Set("tags", "sale, new , ,vip")
	q.Set("sortBy", "title")
	q.Set("sortOrder", "DESC")

	f := FiltersFromQuery(q)
	require.Equal(t, 3, f.Page)
	require.Equal(t, 50, f.PerPage)
	require.Equal(t, "coffee", f.Search)
	require.Equal(t, "published", f.Status)
	require.Equal(t, "dining", f.Category)
	require.Equal(t, []string{"sale", "new", "vip"}, f.Tags)
	require.Equal(t, "title", f.SortBy)
	require.Equal(t, "desc", f.SortOrder)
}

func TestFiltersNormalizeClampsRanges(t *testing.T) {
	f := Filters{Page: -2, PerPage: 0, SortOrder: "sideways"}.Normalize()
	require.Equal(t, 1, f.Page)
	require.Equal(t, DefaultPerPage, f.PerPage)
	require.Empty(t, f.SortOrder)

	f = Filters{Page: 1, PerPage: 10_000}.Normalize()
	require.Equal(t, MaxPerPage, f.PerPage)
}

func TestFiltersOffset(t *testing.T) {
	f := Filters{Page: 4, PerPage: 25}
	require.Equal(t, 75, f.Offset())
	require.Equal(t, 0, Filters{Page: 1, PerPage: 25}.Offset())
}

func TestNewPageNeverReturnsNilData(t *testing.T) {
	page := NewPage[int](nil, 0, Filters{}.Normalize())
	require.NotNil(t, page.Data)
	require.Empty(t, page.Data)
	require.Equal(t, 0, page.TotalPages)
}
