package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invoicely/backend/internal/domain/shared"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid reports whether the status is one of the known states
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusSent,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the invoice lifecycle.
// Paid and cancelled invoices accept no further transitions.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// FormatInvoiceNumber renders a tenant-scoped sequence value as a
// display number, e.g. 1 -> INV-0001.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%04d", seq)
}

// Invoice is the aggregate root for billing. It owns its items: items are
// created with the invoice and cannot outlive or be reassigned from it.
type Invoice struct {
	shared.TenantEntity
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_tenant_number,priority:2"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	IssueDate     time.Time       `gorm:"not null"`
	DueDate       *time.Time      ``
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes         string          `gorm:"type:text"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is a line on an invoice. Unit price and product name are
// snapshots taken at creation time; later product edits do not alter them.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoice creates an invoice header. The invoice number is left empty;
// the repository assigns it from the tenant sequence inside the creation
// transaction. Totals start at zero until ApplyTotals is called.
func NewInvoice(tenantID, customerID uuid.UUID, issueDate time.Time, dueDate *time.Time, taxRate decimal.Decimal, status InvoiceStatus, notes string) (*Invoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Valid customer is required")
	}
	if issueDate.IsZero() {
		return nil, shared.NewValidationError("Valid issue date is required")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("Tax rate must be between 0 and 100")
	}
	if status == "" {
		status = InvoiceStatusPending
	}
	if !status.IsValid() {
		return nil, shared.NewValidationError("Invalid invoice status")
	}

	return &Invoice{
		TenantEntity: shared.NewTenantEntity(tenantID),
		CustomerID:   customerID,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		TaxRate:      taxRate,
		Subtotal:     decimal.Zero,
		TaxAmount:    decimal.Zero,
		TotalAmount:  decimal.Zero,
		Status:       status,
		Notes:        notes,
	}, nil
}

// NewInvoiceItem creates a line item for the invoice. The total price is
// always recomputed from quantity and unit price, never taken from input.
func (i *Invoice) NewInvoiceItem(productID uuid.UUID, productName string, quantity int64, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Valid product is required")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be a positive integer")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	item := &InvoiceItem{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   i.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  decimal.NewFromInt(quantity).Mul(unitPrice),
	}
	i.Items = append(i.Items, *item)
	return item, nil
}

// ApplyTotals sets the server-computed monetary summary on the header
func (i *Invoice) ApplyTotals(totals Totals) {
	i.Subtotal = totals.Subtotal
	i.TaxAmount = totals.TaxAmount
	i.TotalAmount = totals.Total
}

// HasItems reports whether the invoice carries at least one line
func (i *Invoice) HasItems() bool {
	return len(i.Items) > 0
}

// UpdateStatus transitions the invoice to a new status. Setting the
// current status again is a no-op; terminal invoices reject any change.
func (i *Invoice) UpdateStatus(status InvoiceStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid invoice status")
	}
	if status == i.Status {
		return nil
	}
	if i.Status.IsTerminal() {
		return shared.NewDomainError("CONFLICT",
			fmt.Sprintf("Cannot change status of a %s invoice", i.Status))
	}
	i.Status = status
	i.UpdatedAt = time.Now()
	return nil
}

// MarkSent marks the invoice as sent to the customer
func (i *Invoice) MarkSent() error {
	return i.UpdateStatus(InvoiceStatusSent)
}

// MarkPaid settles the invoice
func (i *Invoice) MarkPaid() error {
	return i.UpdateStatus(InvoiceStatusPaid)
}

// Cancel voids the invoice
func (i *Invoice) Cancel() error {
	return i.UpdateStatus(InvoiceStatusCancelled)
}

// LineTotals returns the per-item totals in item order
func (i *Invoice) LineTotals() []decimal.Decimal {
	totals := make([]decimal.Decimal, len(i.Items))
	for idx, item := range i.Items {
		totals[idx] = item.TotalPrice
	}
	return totals
}
