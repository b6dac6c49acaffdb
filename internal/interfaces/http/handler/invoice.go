package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/invoicely/backend/internal/application/billing"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// invoiceHeaderPayload carries the header fields of an invoice creation
// request. Numeric fields stay untyped; the application layer sanitizes
// them.
type invoiceHeaderPayload struct {
	CustomerID string `json:"customer_id"`
	IssueDate  string `json:"issue_date"`
	DueDate    string `json:"due_date"`
	TaxRate    any    `json:"tax_rate"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

// createInvoicePayload accepts both accepted request shapes: header
// fields at the top level, or nested under an "invoice" key with items
// alongside.
type createInvoicePayload struct {
	invoiceHeaderPayload
	Invoice *invoiceHeaderPayload                 `json:"invoice"`
	Items   []billingapp.CreateInvoiceItemRequest `json:"items"`
}

// normalize flattens the payload into the canonical application request
func (p *createInvoicePayload) normalize() billingapp.CreateInvoiceRequest {
	header := p.invoiceHeaderPayload
	if p.Invoice != nil {
		header = *p.Invoice
	}
	return billingapp.CreateInvoiceRequest{
		CustomerID: header.CustomerID,
		IssueDate:  header.IssueDate,
		DueDate:    header.DueDate,
		TaxRate:    header.TaxRate,
		Status:     header.Status,
		Notes:      header.Notes,
		Items:      p.Items,
	}
}

// Create creates an invoice with its items. All monetary values are
// recomputed server side; the invoice number is assigned atomically from
// the tenant's sequence.
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var payload createInvoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, payload.normalize())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// List returns invoice summaries joined with customer details
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), tenantID, listFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoices)
}

// GetByID returns one invoice with its items
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// UpdateStatus transitions an invoice to a new status
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.invoiceService.UpdateStatus(c.Request.Context(), tenantID, invoiceID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"status": req.Status})
}

// Delete removes an invoice and its items
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.GetByID)
		invoices.PATCH("/:id/status", h.UpdateStatus)
		invoices.PUT("/:id/status", h.UpdateStatus)
		invoices.DELETE("/:id", h.Delete)
	}
}
