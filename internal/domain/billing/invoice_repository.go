package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invoicely/backend/internal/domain/shared"
)

// InvoiceSummary is an invoice header joined with its customer for listing
type InvoiceSummary struct {
	ID            uuid.UUID       `gorm:"column:id"`
	InvoiceNumber string          `gorm:"column:invoice_number"`
	CustomerID    uuid.UUID       `gorm:"column:customer_id"`
	CustomerName  string          `gorm:"column:customer_name"`
	CustomerEmail string          `gorm:"column:customer_email"`
	IssueDate     time.Time       `gorm:"column:issue_date"`
	DueDate       *time.Time      `gorm:"column:due_date"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal"`
	TaxAmount     decimal.Decimal `gorm:"column:tax_amount"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount"`
	Status        InvoiceStatus   `gorm:"column:status"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

// InvoiceRepository defines the interface for invoice persistence.
// All operations are tenant-scoped.
type InvoiceRepository interface {
	// CreateWithItems persists the invoice header and all of its items in
	// a single transaction, assigning the invoice number from the
	// tenant's atomic sequence. Either everything is written or nothing.
	CreateWithItems(ctx context.Context, invoice *Invoice) error

	// FindByIDForTenant finds an invoice with its items within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindAllForTenant lists invoice summaries for a tenant, newest
	// first, joined with the referenced customer's name and email
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InvoiceSummary, error)

	// CountForTenant counts invoices for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// CountByCustomerForTenant counts invoices referencing a customer
	CountByCustomerForTenant(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)

	// UpdateStatusForTenant sets the status of an invoice owned by the
	// tenant; returns shared.ErrNotFound when no row matches
	UpdateStatusForTenant(ctx context.Context, tenantID, id uuid.UUID, status InvoiceStatus) error

	// DeleteForTenant deletes an invoice and its items.
	// Deleting an ID that does not exist for the tenant is a no-op.
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// InvoiceSequence backs per-tenant invoice numbering. One row per tenant,
// advanced atomically inside the invoice creation transaction.
type InvoiceSequence struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	NextValue int64     `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
