package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/invoicely/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// All operations are tenant-scoped.
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindBySKUForTenant finds a product by SKU within a tenant
	FindBySKUForTenant(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)

	// FindAllForTenant finds all products for a tenant, newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product. A SKU collision within the
	// tenant surfaces as shared.ErrAlreadyExists.
	Save(ctx context.Context, product *Product) error

	// DeleteForTenant deletes a product owned by the tenant.
	// Deleting an ID that does not exist for the tenant is a no-op.
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts products for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
