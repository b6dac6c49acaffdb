package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invoicely/backend/internal/domain/billing"
)

// CreateInvoiceRequest represents a request to create an invoice together
// with its items. Numeric fields are deliberately untyped: clients send
// them as strings, integers or floats and they are sanitized before any
// business logic sees them. Client-supplied subtotal, tax amount and
// total are ignored; the server recomputes all monetary values.
type CreateInvoiceRequest struct {
	CustomerID string                     `json:"customer_id"`
	IssueDate  string                     `json:"issue_date"`
	DueDate    string                     `json:"due_date"`
	TaxRate    any                        `json:"tax_rate"`
	Status     string                     `json:"status"`
	Notes      string                     `json:"notes"`
	Items      []CreateInvoiceItemRequest `json:"items"`
}

// CreateInvoiceItemRequest represents one requested invoice line
type CreateInvoiceItemRequest struct {
	ProductID  string `json:"product_id"`
	Quantity   any    `json:"quantity"`
	UnitPrice  any    `json:"unit_price"`
	TotalPrice any    `json:"total_price"`
}

// UpdateInvoiceStatusRequest represents a status transition request
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,invoicestatus"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// InvoiceResponse represents a full invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	IssueDate     time.Time             `json:"issue_date"`
	DueDate       *time.Time            `json:"due_date,omitempty"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxRate       decimal.Decimal       `json:"tax_rate"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes"`
	Items         []InvoiceItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
}

// InvoiceSummaryResponse represents an invoice row in list responses,
// joined with the referenced customer
type InvoiceSummaryResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		Status:        string(inv.Status),
		Notes:         inv.Notes,
		Items:         items,
		CreatedAt:     inv.CreatedAt,
	}
}

// ToInvoiceSummaryResponse converts a repository summary row to a DTO
func ToInvoiceSummaryResponse(s *billing.InvoiceSummary) InvoiceSummaryResponse {
	return InvoiceSummaryResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		CustomerEmail: s.CustomerEmail,
		IssueDate:     s.IssueDate,
		DueDate:       s.DueDate,
		Subtotal:      s.Subtotal,
		TaxAmount:     s.TaxAmount,
		TotalAmount:   s.TotalAmount,
		Status:        string(s.Status),
		CreatedAt:     s.CreatedAt,
	}
}
