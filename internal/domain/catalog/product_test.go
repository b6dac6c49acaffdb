package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicely/backend/internal/domain/shared/valueobject"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates product with valid fields", func(t *testing.T) {
		product, err := NewProduct(tenantID, "Widget", "wdg-001", "Hardware", valueobject.NewMoneyUSDFromFloat(19.99), 100, "A widget")

		require.NoError(t, err)
		assert.Equal(t, "Widget", product.Name)
		assert.Equal(t, "WDG-001", product.SKU, "SKU should be normalized to upper case")
		assert.Equal(t, tenantID, product.TenantID)
		assert.Equal(t, 100, product.StockQuantity)
		assert.Equal(t, valueobject.USD, product.UnitPrice.Currency())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct(tenantID, "", "SKU-1", "", valueobject.ZeroUSD(), 0, "")

		assert.Error(t, err)
	})

	t.Run("rejects empty SKU", func(t *testing.T) {
		_, err := NewProduct(tenantID, "Widget", "  ", "", valueobject.ZeroUSD(), 0, "")

		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct(tenantID, "Widget", "SKU-1", "", valueobject.NewMoneyUSDFromFloat(-1), 0, "")

		assert.Error(t, err)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewProduct(tenantID, "Widget", "SKU-1", "", valueobject.ZeroUSD(), -5, "")

		assert.Error(t, err)
	})
}

func TestProduct_Update(t *testing.T) {
	tenantID := uuid.New()
	product, err := NewProduct(tenantID, "Widget", "WDG-001", "Hardware", valueobject.NewMoneyUSDFromFloat(19.99), 10, "")
	require.NoError(t, err)

	t.Run("updates fields", func(t *testing.T) {
		err := product.Update("Gadget", "gdt-002", "Electronics", valueobject.NewMoneyUSDFromFloat(29.99), 5, "Updated")

		require.NoError(t, err)
		assert.Equal(t, "Gadget", product.Name)
		assert.Equal(t, "GDT-002", product.SKU)
		assert.Equal(t, "29.99", product.UnitPrice.Amount().String())
	})

	t.Run("rejects invalid update and keeps state", func(t *testing.T) {
		err := product.Update("", "GDT-002", "", valueobject.ZeroUSD(), 0, "")

		assert.Error(t, err)
		assert.Equal(t, "Gadget", product.Name)
	})
}
