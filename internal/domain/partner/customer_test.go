package partner

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicely/backend/internal/domain/shared"
)

func TestNewCustomer(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates customer with valid fields", func(t *testing.T) {
		customer, err := NewCustomer(tenantID, "Acme Corp", "billing@acme.com", "555-0100", "1 Main St")

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", customer.Name)
		assert.Equal(t, "billing@acme.com", customer.Email)
		assert.Equal(t, tenantID, customer.TenantID)
		assert.NotEqual(t, uuid.Nil, customer.ID)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		_, err := NewCustomer(tenantID, "Walk-in", "", "555-0100", "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects missing phone", func(t *testing.T) {
		_, err := NewCustomer(tenantID, "Walk-in", "walkin@acme.com", "", "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCustomer(tenantID, "   ", "a@b.com", "", "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewCustomer(tenantID, "Acme", "not-an-email", "", "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	})

	t.Run("rejects email with spaces", func(t *testing.T) {
		_, err := NewCustomer(tenantID, "Acme", "a b@acme.com", "", "")

		assert.Error(t, err)
	})

	t.Run("rejects overly long name", func(t *testing.T) {
		_, err := NewCustomer(tenantID, strings.Repeat("x", 201), "", "", "")

		assert.Error(t, err)
	})
}

func TestCustomer_Update(t *testing.T) {
	tenantID := uuid.New()
	customer, err := NewCustomer(tenantID, "Old Name", "old@acme.com", "555-0100", "")
	require.NoError(t, err)

	t.Run("updates all mutable fields", func(t *testing.T) {
		err := customer.Update("New Name", "new@acme.com", "555-0199", "2 Side St")

		require.NoError(t, err)
		assert.Equal(t, "New Name", customer.Name)
		assert.Equal(t, "new@acme.com", customer.Email)
		assert.Equal(t, "555-0199", customer.Phone)
		assert.Equal(t, "2 Side St", customer.Address)
	})

	t.Run("rejects invalid email on update", func(t *testing.T) {
		err := customer.Update("New Name", "bad@", "", "")

		assert.Error(t, err)
		assert.Equal(t, "new@acme.com", customer.Email)
	})
}
