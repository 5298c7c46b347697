package persistence

import (
	"strings"

	"github.com/cabinetquote/backend/internal/domain/shared"
	"gorm.io/gorm/clause"
)

const defaultQuoteSortColumn = "created_at"

// quoteSortColumns are the quotes columns a listing may be ordered by
var quoteSortColumns = map[string]struct{}{
	"id":           {},
	"created_at":   {},
	"updated_at":   {},
	"client_name":  {},
	"project_name": {},
}

// sortColumn returns field if it is one of allowed, otherwise fallback.
// Matching is exact after trimming.
func sortColumn(field string, allowed map[string]struct{}, fallback string) string {
	field = strings.TrimSpace(field)
	if _, ok := allowed[field]; ok {
		return field
	}
	return fallback
}

// sortDescending reports whether dir requests descending order.
// Anything other than "asc" sorts descending.
func sortDescending(dir string) bool {
	return !strings.EqualFold(strings.TrimSpace(dir), "asc")
}

// quoteOrder builds the ORDER BY clause for a quote listing; id breaks ties
func quoteOrder(filter shared.Filter) clause.OrderBy {
	desc := sortDescending(filter.OrderDir)
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: sortColumn(filter.OrderBy, quoteSortColumns, defaultQuoteSortColumn)}, Desc: desc},
		{Column: clause.Column{Name: "id"}, Desc: desc},
	}}
}
