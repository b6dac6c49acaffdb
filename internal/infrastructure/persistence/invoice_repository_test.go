package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/shared"
)

// newMockInvoiceRepository creates a GormInvoiceRepository with a mocked SQL connection
func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func newTestInvoice(t *testing.T, tenantID uuid.UUID) *billing.Invoice {
	invoice, err := billing.NewInvoice(tenantID, uuid.New(), time.Now(), nil, decimal.NewFromInt(10), billing.InvoiceStatusPending, "")
	require.NoError(t, err)

	_, err = invoice.NewInvoiceItem(uuid.New(), "Widget", 2, decimal.NewFromInt(50))
	require.NoError(t, err)

	invoice.ApplyTotals(billing.ComputeTotals(invoice.LineTotals(), invoice.TaxRate))
	return invoice
}

func TestGormInvoiceRepository_CreateWithItems(t *testing.T) {
	t.Run("assigns number from sequence and commits header with items", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoice := newTestInvoice(t, tenantID)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO invoice_sequences`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(7))
		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "invoice_items"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateWithItems(context.Background(), invoice)

		assert.NoError(t, err)
		assert.Equal(t, "INV-0007", invoice.InvoiceNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the header insert fails", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoice := newTestInvoice(t, tenantID)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO invoice_sequences`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(1))
		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnError(gorm.ErrInvalidData)
		mock.ExpectRollback()

		err := repo.CreateWithItems(context.Background(), invoice)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an invoice without items before touching the database", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoice, err := billing.NewInvoice(uuid.New(), uuid.New(), time.Now(), nil, decimal.Zero, billing.InvoiceStatusPending, "")
		require.NoError(t, err)

		err = repo.CreateWithItems(context.Background(), invoice)

		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries when the invoice number collides", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoice := newTestInvoice(t, tenantID)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO invoice_sequences`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(7))
		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnError(gorm.ErrDuplicatedKey)
		mock.ExpectRollback()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO invoice_sequences`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(8))
		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "invoice_items"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateWithItems(context.Background(), invoice)

		assert.NoError(t, err)
		assert.Equal(t, "INV-0008", invoice.InvoiceNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindByIDForTenant(t *testing.T) {
	t.Run("loads the invoice with its items", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoiceID := uuid.New()
		itemID := uuid.New()

		invoiceRows := sqlmock.NewRows([]string{"id", "tenant_id", "invoice_number", "customer_id", "issue_date", "status", "total_amount"}).
			AddRow(invoiceID, tenantID, "INV-0001", uuid.New(), time.Now(), "pending", decimal.NewFromInt(110))

		itemRows := sqlmock.NewRows([]string{"id", "invoice_id", "product_id", "product_name", "quantity", "unit_price", "total_price"}).
			AddRow(itemID, invoiceID, uuid.New(), "Widget", 2, decimal.NewFromInt(50), decimal.NewFromInt(100))

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, invoiceID, 1).
			WillReturnRows(invoiceRows)
		mock.ExpectQuery(`SELECT \* FROM "invoice_items" WHERE "invoice_items"\."invoice_id" = \$1`).
			WithArgs(invoiceID).
			WillReturnRows(itemRows)

		invoice, err := repo.FindByIDForTenant(context.Background(), tenantID, invoiceID)

		assert.NoError(t, err)
		require.NotNil(t, invoice)
		assert.Equal(t, "INV-0001", invoice.InvoiceNumber)
		require.Len(t, invoice.Items, 1)
		assert.Equal(t, int64(2), invoice.Items[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for foreign tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoiceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, invoiceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByIDForTenant(context.Background(), tenantID, invoiceID)

		assert.Error(t, err)
		assert.Nil(t, invoice)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindAllForTenant(t *testing.T) {
	t.Run("lists summaries joined with customer details", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "invoice_number", "customer_id", "customer_name", "customer_email", "issue_date", "status", "total_amount"}).
			AddRow(uuid.New(), "INV-0002", uuid.New(), "Acme Corp", "billing@acme.test", time.Now(), "pending", decimal.NewFromInt(110)).
			AddRow(uuid.New(), "INV-0001", uuid.New(), "Globex", "", time.Now(), "paid", decimal.NewFromInt(55))

		mock.ExpectQuery(`SELECT invoices\.id, invoices\.invoice_number,.*FROM "invoices" LEFT JOIN customers .* WHERE invoices\.tenant_id = \$1 ORDER BY .*`).
			WillReturnRows(rows)

		summaries, err := repo.FindAllForTenant(context.Background(), tenantID, shared.DefaultFilter())

		assert.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "Acme Corp", summaries[0].CustomerName)
		assert.Equal(t, "INV-0001", summaries[1].InvoiceNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_UpdateStatusForTenant(t *testing.T) {
	t.Run("updates the status", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoiceID := uuid.New()

		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatusForTenant(context.Background(), tenantID, invoiceID, billing.InvoiceStatusPaid)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no row matches", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoiceID := uuid.New()

		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatusForTenant(context.Background(), tenantID, invoiceID, billing.InvoiceStatusPaid)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_CountByCustomerForTenant(t *testing.T) {
	t.Run("counts invoices referencing the customer", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		customerID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE tenant_id = \$1 AND customer_id = \$2`).
			WithArgs(tenantID, customerID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := repo.CountByCustomerForTenant(context.Background(), tenantID, customerID)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_DeleteForTenant(t *testing.T) {
	t.Run("deletes header and items in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoiceID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "invoices" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "invoice_items" WHERE invoice_id = \$1`).
			WithArgs(invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.DeleteForTenant(context.Background(), tenantID, invoiceID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("is a no-op for unknown invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoiceID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "invoices" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.DeleteForTenant(context.Background(), tenantID, invoiceID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
