package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/catalog"
	"github.com/invoicely/backend/internal/domain/partner"
	"github.com/invoicely/backend/internal/domain/shared"
)

// Tolerance for comparing a client-supplied line total against the
// server-computed quantity * unit_price.
var lineTotalTolerance = decimal.NewFromFloat(0.01)

// InvoiceService orchestrates invoice creation and queries. Creation
// validates fail-fast in a fixed order, recomputes all monetary values
// server-side and persists header plus items in one transaction.
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, customerRepo partner.CustomerRepository, productRepo catalog.ProductRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// Create validates the request, computes authoritative totals and
// persists the invoice atomically. The first validation failure wins.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customerID, err := s.resolveCustomer(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return nil, shared.NewValidationError("Valid issue date is required")
	}

	// An omitted due date falls back to the issue date.
	dueDate := issueDate
	if req.DueDate != "" {
		dueDate, err = parseDate(req.DueDate)
		if err != nil {
			return nil, shared.NewValidationError("Valid due date is required")
		}
	}

	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("At least one item is required")
	}

	lines, err := s.validateItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}

	taxRate := billing.SanitizeDecimal(req.TaxRate)
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("Tax rate must be between 0 and 100")
	}

	invoice, err := billing.NewInvoice(tenantID, customerID, issueDate, &dueDate, taxRate, billing.InvoiceStatus(req.Status), req.Notes)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if _, err := invoice.NewInvoiceItem(line.product.ID, line.product.Name, line.quantity, line.unitPrice); err != nil {
			return nil, err
		}
	}
	invoice.ApplyTotals(billing.ComputeTotals(invoice.LineTotals(), taxRate))

	if err := s.invoiceRepo.CreateWithItems(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice with its items
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoice summaries for a tenant, newest first
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InvoiceSummaryResponse, error) {
	summaries, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceSummaryResponse, len(summaries))
	for i := range summaries {
		responses[i] = ToInvoiceSummaryResponse(&summaries[i])
	}
	return responses, nil
}

// UpdateStatus transitions an invoice to a new status. The current
// invoice is loaded first so the domain can refuse transitions out of
// terminal states.
func (s *InvoiceService) UpdateStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdateInvoiceStatusRequest) error {
	status := billing.InvoiceStatus(req.Status)
	if !status.IsValid() {
		return shared.NewValidationError("Invalid invoice status")
	}

	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if err := invoice.UpdateStatus(status); err != nil {
		return err
	}
	return s.invoiceRepo.UpdateStatusForTenant(ctx, tenantID, invoiceID, status)
}

// Delete removes an invoice and its items. Deleting an unknown or
// foreign-tenant ID is a silent no-op.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, invoiceID)
}

func (s *InvoiceService) resolveCustomer(ctx context.Context, tenantID uuid.UUID, rawID string) (uuid.UUID, error) {
	if rawID == "" {
		return uuid.Nil, shared.NewValidationError("Valid customer is required")
	}
	customerID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, shared.NewValidationError("Valid customer is required")
	}
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		if err == shared.ErrNotFound {
			return uuid.Nil, shared.NewValidationError("Valid customer is required")
		}
		return uuid.Nil, err
	}
	return customerID, nil
}

type validatedLine struct {
	product   *catalog.Product
	quantity  int64
	unitPrice decimal.Decimal
}

// validateItems checks every requested line in order. Failures name the
// 1-based item index and the failing field.
func (s *InvoiceService) validateItems(ctx context.Context, tenantID uuid.UUID, items []CreateInvoiceItemRequest) ([]validatedLine, error) {
	lines := make([]validatedLine, 0, len(items))
	for i, item := range items {
		idx := i + 1

		productID, err := uuid.Parse(item.ProductID)
		if item.ProductID == "" || err != nil {
			return nil, shared.NewValidationError(fmt.Sprintf("Item %d: Valid product is required", idx))
		}
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
		if err != nil {
			if err == shared.ErrNotFound {
				return nil, shared.NewValidationError(fmt.Sprintf("Item %d: Valid product is required", idx))
			}
			return nil, err
		}

		quantity := billing.SanitizeQuantity(item.Quantity)
		if quantity <= 0 {
			return nil, shared.NewValidationError(fmt.Sprintf("Item %d: Valid quantity is required", idx))
		}

		unitPrice := billing.SanitizeDecimal(item.UnitPrice)
		if unitPrice.IsNegative() {
			return nil, shared.NewValidationError(fmt.Sprintf("Item %d: Valid unit price is required", idx))
		}

		// A client-supplied line total must agree with quantity * unit
		// price; when absent it is simply recomputed.
		if item.TotalPrice != nil {
			claimed := billing.SanitizeDecimal(item.TotalPrice)
			expected := decimal.NewFromInt(quantity).Mul(unitPrice)
			if claimed.IsNegative() || claimed.Sub(expected).Abs().GreaterThan(lineTotalTolerance) {
				return nil, shared.NewValidationError(fmt.Sprintf("Item %d: Valid total price is required", idx))
			}
		}

		lines = append(lines, validatedLine{product: product, quantity: quantity, unitPrice: unitPrice})
	}
	return lines, nil
}

// parseDate accepts plain dates and RFC 3339 timestamps
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
