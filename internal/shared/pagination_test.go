package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPaginationCeilsTotalPages(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		perPage    int
		total      int
		totalPages int
	}{
		{"exact multiple", 1, 10, 40, 4},
		{"remainder rounds up", 1, 10, 41, 5},
		{"empty set", 1, 10, 0, 0},
		{"single row", 1, 20, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.perPage, tc.total)
			require.Equal(t, tc.totalPages, p.TotalPages)
			require.Equal(t, tc.total, p.Total)
		})
	}
}

func TestNewPaginationDefaultsInvalidInput(t *testing.T) {
	p := NewPagination(0, 0, 100)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 5, p.TotalPages)
}

func TestPaginationOffset(t *testing.T) {
	require.Equal(t, 40, Pagination{Page: 3, PerPage: 20}.Offset())
	require.Equal(t, 0, Pagination{Page: 1, PerPage: 20}.Offset())
}
