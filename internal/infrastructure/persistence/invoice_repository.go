package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/shared"
)

// Attempts to persist an invoice before giving up. The per-tenant
// sequence makes number collisions impossible in normal operation; the
// retry is a backstop behind the unique (tenant_id, invoice_number) index.
const invoiceCreateAttempts = 3

// Upsert that atomically claims the next invoice number for a tenant.
// Runs inside the creation transaction so a rollback releases nothing
// visible to other tenants' sequences.
const nextInvoiceNumberSQL = `
INSERT INTO invoice_sequences (tenant_id, next_value)
VALUES (?, 1)
ON CONFLICT (tenant_id) DO UPDATE SET next_value = invoice_sequences.next_value + 1
RETURNING next_value`

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// CreateWithItems persists the invoice header and its items in a single
// transaction, assigning the invoice number from the tenant's sequence.
// A failure at any step rolls back everything, including the sequence
// advance.
func (r *GormInvoiceRepository) CreateWithItems(ctx context.Context, invoice *billing.Invoice) error {
	if !invoice.HasItems() {
		return shared.NewValidationError("At least one item is required")
	}

	var err error
	for attempt := 0; attempt < invoiceCreateAttempts; attempt++ {
		err = r.createOnce(ctx, invoice)
		if err == nil || !isDuplicateKey(err) {
			return err
		}
	}
	return err
}

func (r *GormInvoiceRepository) createOnce(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int64
		if err := tx.Raw(nextInvoiceNumberSQL, invoice.TenantID).Scan(&next).Error; err != nil {
			return err
		}
		invoice.InvoiceNumber = billing.FormatInvoiceNumber(next)

		// Create inserts the header and all association rows; either
		// everything lands or the transaction rolls back.
		return tx.Create(invoice).Error
	})
}

// FindByIDForTenant finds an invoice with its items within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForTenant lists invoice summaries joined with customer name and
// email, newest first
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.InvoiceSummary, error) {
	var summaries []billing.InvoiceSummary
	query := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select(`invoices.id, invoices.invoice_number, invoices.customer_id,
			customers.name AS customer_name, customers.email AS customer_email,
			invoices.issue_date, invoices.due_date, invoices.subtotal,
			invoices.tax_amount, invoices.total_amount, invoices.status, invoices.created_at`).
		Joins("LEFT JOIN customers ON customers.id = invoices.customer_id AND customers.tenant_id = invoices.tenant_id").
		Where("invoices.tenant_id = ?", tenantID)

	if err := applyFilter(query, filter).Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// CountForTenant counts invoices for a tenant
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCustomerForTenant counts invoices referencing a customer
func (r *GormInvoiceRepository) CountByCustomerForTenant(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatusForTenant sets the status of an invoice owned by the tenant
func (r *GormInvoiceRepository) UpdateStatusForTenant(ctx context.Context, tenantID, id uuid.UUID, status billing.InvoiceStatus) error {
	result := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForTenant deletes an invoice and its items in one transaction.
// Unknown or foreign-tenant IDs are a no-op.
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&billing.Invoice{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Idempotent delete, nothing to clean up.
			return nil
		}
		return tx.Where("invoice_id = ?", id).Delete(&billing.InvoiceItem{}).Error
	})
}
