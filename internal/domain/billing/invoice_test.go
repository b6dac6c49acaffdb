package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicely/backend/internal/domain/shared"
)

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-0001", FormatInvoiceNumber(1))
	assert.Equal(t, "INV-0042", FormatInvoiceNumber(42))
	assert.Equal(t, "INV-12345", FormatInvoiceNumber(12345))
}

func TestNewInvoice(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()
	issueDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("creates pending invoice by default", func(t *testing.T) {
		inv, err := NewInvoice(tenantID, customerID, issueDate, nil, decimal.NewFromInt(10), "", "")

		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assert.Empty(t, inv.InvoiceNumber, "number is assigned by the repository")
		assert.True(t, inv.Subtotal.IsZero())
	})

	t.Run("accepts explicit status", func(t *testing.T) {
		inv, err := NewInvoice(tenantID, customerID, issueDate, nil, decimal.Zero, InvoiceStatusDraft, "")

		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
	})

	t.Run("rejects nil customer", func(t *testing.T) {
		_, err := NewInvoice(tenantID, uuid.Nil, issueDate, nil, decimal.Zero, "", "")

		assert.Error(t, err)
	})

	t.Run("rejects zero issue date", func(t *testing.T) {
		_, err := NewInvoice(tenantID, customerID, time.Time{}, nil, decimal.Zero, "", "")

		assert.Error(t, err)
	})

	t.Run("rejects tax rate above 100", func(t *testing.T) {
		_, err := NewInvoice(tenantID, customerID, issueDate, nil, decimal.NewFromInt(101), "", "")

		assert.Error(t, err)
	})

	t.Run("rejects negative tax rate", func(t *testing.T) {
		_, err := NewInvoice(tenantID, customerID, issueDate, nil, decimal.NewFromInt(-1), "", "")

		assert.Error(t, err)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewInvoice(tenantID, customerID, issueDate, nil, decimal.Zero, "archived", "")

		assert.Error(t, err)
	})
}

func TestInvoice_NewInvoiceItem(t *testing.T) {
	inv := mustInvoice(t)
	productID := uuid.New()

	t.Run("computes total price from quantity and unit price", func(t *testing.T) {
		item, err := inv.NewInvoiceItem(productID, "Widget", 2, decimal.NewFromFloat(50.00))

		require.NoError(t, err)
		assert.Equal(t, inv.ID, item.InvoiceID)
		assert.Equal(t, "100", item.TotalPrice.String())
		assert.True(t, inv.HasItems())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := inv.NewInvoiceItem(productID, "Widget", 0, decimal.NewFromInt(1))

		assert.Error(t, err)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		_, err := inv.NewInvoiceItem(productID, "Widget", 1, decimal.NewFromInt(-1))

		assert.Error(t, err)
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := inv.NewInvoiceItem(uuid.Nil, "Widget", 1, decimal.NewFromInt(1))

		assert.Error(t, err)
	})
}

func TestInvoice_ApplyTotals(t *testing.T) {
	inv := mustInvoice(t)
	_, err := inv.NewInvoiceItem(uuid.New(), "Widget", 2, decimal.NewFromFloat(50.00))
	require.NoError(t, err)

	totals := ComputeTotals(inv.LineTotals(), inv.TaxRate)
	inv.ApplyTotals(totals)

	assert.Equal(t, "100.00", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", inv.TaxAmount.StringFixed(2))
	assert.Equal(t, "110.00", inv.TotalAmount.StringFixed(2))
}

func TestInvoice_UpdateStatus(t *testing.T) {
	t.Run("moves through the open states", func(t *testing.T) {
		inv := mustInvoice(t)

		require.NoError(t, inv.MarkSent())
		assert.Equal(t, InvoiceStatusSent, inv.Status)

		require.NoError(t, inv.MarkPaid())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		inv := mustInvoice(t)

		assert.Error(t, inv.UpdateStatus("bogus"))
		assert.Equal(t, InvoiceStatusPending, inv.Status)
	})

	t.Run("setting the current status is a no-op", func(t *testing.T) {
		inv := mustInvoice(t)

		require.NoError(t, inv.UpdateStatus(InvoiceStatusPending))
		assert.Equal(t, InvoiceStatusPending, inv.Status)
	})

	t.Run("cancelled invoices stay cancelled", func(t *testing.T) {
		inv := mustInvoice(t)
		require.NoError(t, inv.Cancel())

		err := inv.UpdateStatus(InvoiceStatusPending)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	})

	t.Run("paid invoices stay paid", func(t *testing.T) {
		inv := mustInvoice(t)
		require.NoError(t, inv.MarkPaid())

		assert.Error(t, inv.UpdateStatus(InvoiceStatusSent))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})
}

func mustInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), uuid.New(),
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), nil,
		decimal.NewFromInt(10), "", "")
	require.NoError(t, err)
	return inv
}
