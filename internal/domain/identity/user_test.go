package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicely/backend/internal/domain/shared"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user and hashes password", func(t *testing.T) {
		user, err := NewUser("Alice@Example.com", "secret1", "Alice")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email, "email should be lowercased")
		assert.NotEqual(t, "secret1", user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret1"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("user ID doubles as tenant ID", func(t *testing.T) {
		user, err := NewUser("bob@example.com", "secret1", "")

		require.NoError(t, err)
		assert.Equal(t, user.ID, user.TenantID())
	})

	t.Run("rejects missing email", func(t *testing.T) {
		_, err := NewUser("", "secret1", "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewUser("no-at-sign", "secret1", "")

		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("c@example.com", "12345", "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	})
}

func TestUser_RecordLogin(t *testing.T) {
	user, err := NewUser("d@example.com", "secret1", "")
	require.NoError(t, err)
	require.Nil(t, user.LastLoginAt)

	now := time.Now()
	user.RecordLogin(now)

	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, now, *user.LastLoginAt, time.Second)
}
