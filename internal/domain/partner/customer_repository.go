package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/invoicely/backend/internal/domain/shared"
)

// CustomerWithStats is a customer joined with aggregate usage data.
type CustomerWithStats struct {
	Customer
	InvoiceCount int64 `gorm:"column:invoice_count"`
}

// CustomerRepository defines the interface for customer persistence.
// Every operation is scoped to a tenant; implementations must filter
// all reads and writes by the tenant ID.
type CustomerRepository interface {
	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindAllForTenant finds all customers for a tenant, newest first,
	// each carrying the count of invoices that reference it
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CustomerWithStats, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// DeleteForTenant deletes a customer owned by the tenant.
	// Deleting an ID that does not exist for the tenant is a no-op.
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts customers for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
