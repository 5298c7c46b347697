package persistence

import (
	"testing"

	"github.com/cabinetquote/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestSortDescending(t *testing.T) {
	tests := []struct {
		input string
		desc  bool
	}{
		{"", true},
		{"ASC", false},
		{"asc", false},
		{"  asc  ", false},
		{"desc", true},
		{"sideways", true},
		{"ASC; DROP TABLE quotes;--", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.desc, sortDescending(tt.input))
		})
	}
}

func TestSortColumn(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"allowed column", "client_name", "client_name"},
		{"whitespace around column", "  project_name ", "project_name"},
		{"unknown column returns default", "email", "created_at"},
		{"case sensitive", "CLIENT_NAME", "created_at"},
		{"injection returns default", "id; DROP TABLE quotes;--", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sortColumn(tt.input, quoteSortColumns, defaultQuoteSortColumn))
		})
	}
}

func TestQuoteOrder(t *testing.T) {
	order := quoteOrder(shared.Filter{OrderBy: "client_name", OrderDir: "asc"})
	if assert.Len(t, order.Columns, 2) {
		assert.Equal(t, "client_name", order.Columns[0].Column.Name)
		assert.False(t, order.Columns[0].Desc)
		assert.Equal(t, "id", order.Columns[1].Column.Name)
		assert.False(t, order.Columns[1].Desc)
	}

	order = quoteOrder(shared.Filter{})
	assert.Equal(t, "created_at", order.Columns[0].Column.Name)
	assert.True(t, order.Columns[0].Desc)
}
