package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoicePayload_Normalize(t *testing.T) {
	t.Run("accepts the flat shape", func(t *testing.T) {
		body := `{
			"customer_id": "d2c9e9a6-1111-4a7b-9e0a-000000000001",
			"issue_date": "2026-01-15",
			"tax_rate": "8.5",
			"notes": "January retainer",
			"items": [
				{"product_id": "d2c9e9a6-2222-4a7b-9e0a-000000000002", "quantity": 2, "unit_price": "50.00"}
			]
		}`

		var payload createInvoicePayload
		require.NoError(t, json.Unmarshal([]byte(body), &payload))

		req := payload.normalize()
		assert.Equal(t, "d2c9e9a6-1111-4a7b-9e0a-000000000001", req.CustomerID)
		assert.Equal(t, "2026-01-15", req.IssueDate)
		assert.Equal(t, "8.5", req.TaxRate)
		assert.Equal(t, "January retainer", req.Notes)
		require.Len(t, req.Items, 1)
		assert.Equal(t, "50.00", req.Items[0].UnitPrice)
	})

	t.Run("accepts the nested invoice shape", func(t *testing.T) {
		body := `{
			"invoice": {
				"customer_id": "d2c9e9a6-1111-4a7b-9e0a-000000000001",
				"issue_date": "2026-01-15",
				"due_date": "2026-02-15",
				"tax_rate": 10,
				"status": "draft"
			},
			"items": [
				{"product_id": "d2c9e9a6-2222-4a7b-9e0a-000000000002", "quantity": "3", "unit_price": 19.99}
			]
		}`

		var payload createInvoicePayload
		require.NoError(t, json.Unmarshal([]byte(body), &payload))

		req := payload.normalize()
		assert.Equal(t, "d2c9e9a6-1111-4a7b-9e0a-000000000001", req.CustomerID)
		assert.Equal(t, "2026-02-15", req.DueDate)
		assert.Equal(t, "draft", req.Status)
		require.Len(t, req.Items, 1)
		assert.Equal(t, "3", req.Items[0].Quantity)
	})

	t.Run("nested header wins over stray top-level fields", func(t *testing.T) {
		body := `{
			"customer_id": "ignored",
			"invoice": {"customer_id": "d2c9e9a6-1111-4a7b-9e0a-000000000001", "issue_date": "2026-01-15"},
			"items": []
		}`

		var payload createInvoicePayload
		require.NoError(t, json.Unmarshal([]byte(body), &payload))

		req := payload.normalize()
		assert.Equal(t, "d2c9e9a6-1111-4a7b-9e0a-000000000001", req.CustomerID)
	})
}
