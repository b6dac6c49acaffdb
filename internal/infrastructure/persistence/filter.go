package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/invoicely/backend/internal/domain/shared"
)

// Columns allowed in ORDER BY clauses. Anything else falls back to
// created_at to keep filter input out of raw SQL.
var orderableColumns = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"sku":            true,
	"issue_date":     true,
	"due_date":       true,
	"invoice_number": true,
	"total_amount":   true,
	"status":         true,
}

// applyFilter applies ordering and pagination from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if !orderableColumns[orderBy] {
		orderBy = "created_at"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	return query
}
