package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/partner"
	"github.com/invoicely/backend/internal/domain/shared"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.CustomerWithStats, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.CustomerWithStats), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateWithItems(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.InvoiceSummary, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.InvoiceSummary), args.Error(1)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByCustomerForTenant(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateStatusForTenant(ctx context.Context, tenantID, id uuid.UUID, status billing.InvoiceStatus) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		customerRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)
		service := NewCustomerService(customerRepo, new(MockInvoiceRepository))

		resp, err := service.Create(ctx, tenantID, CreateCustomerRequest{
			Name:  "Acme Corp",
			Email: "billing@acme.com",
			Phone: "555-0100",
		})

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", resp.Name)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		customerRepo.AssertExpectations(t)
	})

	t.Run("rejects invalid email without touching the repository", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewCustomerService(customerRepo, new(MockInvoiceRepository))

		_, err := service.Create(ctx, tenantID, CreateCustomerRequest{
			Name:  "Acme",
			Email: "not-an-email",
			Phone: "555-0100",
		})

		assert.Error(t, err)
		customerRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects missing email and phone without touching the repository", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewCustomerService(customerRepo, new(MockInvoiceRepository))

		_, err := service.Create(ctx, tenantID, CreateCustomerRequest{Name: "Acme"})
		assert.Error(t, err)

		_, err = service.Create(ctx, tenantID, CreateCustomerRequest{
			Name:  "Acme",
			Email: "billing@acme.com",
		})
		assert.Error(t, err)
		customerRepo.AssertNotCalled(t, "Save")
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		customerRepo.On("Save", ctx, mock.Anything).Return(errors.New("db down"))
		service := NewCustomerService(customerRepo, new(MockInvoiceRepository))

		_, err := service.Create(ctx, tenantID, CreateCustomerRequest{
			Name:  "Acme",
			Email: "billing@acme.com",
			Phone: "555-0100",
		})

		assert.Error(t, err)
	})
}

func TestCustomerService_GetByID(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("returns customer scoped to tenant", func(t *testing.T) {
		customer, err := partner.NewCustomer(tenantID, "Acme", "a@acme.com", "555-0100", "")
		require.NoError(t, err)

		customerRepo := new(MockCustomerRepository)
		customerRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		service := NewCustomerService(customerRepo, new(MockInvoiceRepository))

		resp, err := service.GetByID(ctx, tenantID, customer.ID)

		require.NoError(t, err)
		assert.Equal(t, customer.ID, resp.ID)
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		customerRepo.On("FindByIDForTenant", ctx, tenantID, mock.Anything).Return(nil, shared.ErrNotFound)
		service := NewCustomerService(customerRepo, new(MockInvoiceRepository))

		_, err := service.GetByID(ctx, tenantID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	customer, err := partner.NewCustomer(tenantID, "Acme", "a@acme.com", "555-0100", "")
	require.NoError(t, err)

	customerRepo := new(MockCustomerRepository)
	customerRepo.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]partner.CustomerWithStats{
		{Customer: *customer, InvoiceCount: 3},
	}, nil)
	service := NewCustomerService(customerRepo, new(MockInvoiceRepository))

	resps, err := service.List(ctx, tenantID, shared.DefaultFilter())

	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Equal(t, int64(3), resps[0].InvoiceCount)
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("updates existing customer", func(t *testing.T) {
		customer, err := partner.NewCustomer(tenantID, "Old", "old@acme.com", "555-0100", "")
		require.NoError(t, err)

		customerRepo := new(MockCustomerRepository)
		customerRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		customerRepo.On("Save", ctx, customer).Return(nil)
		service := NewCustomerService(customerRepo, new(MockInvoiceRepository))

		resp, err := service.Update(ctx, tenantID, customer.ID, UpdateCustomerRequest{
			Name:  "New",
			Email: "new@acme.com",
			Phone: "555-0199",
		})

		require.NoError(t, err)
		assert.Equal(t, "New", resp.Name)
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		customerRepo.On("FindByIDForTenant", ctx, tenantID, mock.Anything).Return(nil, shared.ErrNotFound)
		service := NewCustomerService(customerRepo, new(MockInvoiceRepository))

		_, err := service.Update(ctx, tenantID, uuid.New(), UpdateCustomerRequest{
			Name:  "New",
			Email: "new@acme.com",
			Phone: "555-0199",
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := uuid.New()

	t.Run("deletes customer without invoices", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		invoiceRepo := new(MockInvoiceRepository)
		invoiceRepo.On("CountByCustomerForTenant", ctx, tenantID, customerID).Return(int64(0), nil)
		customerRepo.On("DeleteForTenant", ctx, tenantID, customerID).Return(nil)
		service := NewCustomerService(customerRepo, invoiceRepo)

		err := service.Delete(ctx, tenantID, customerID)

		require.NoError(t, err)
		customerRepo.AssertExpectations(t)
	})

	t.Run("rejects delete while invoices reference the customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		invoiceRepo := new(MockInvoiceRepository)
		invoiceRepo.On("CountByCustomerForTenant", ctx, tenantID, customerID).Return(int64(2), nil)
		service := NewCustomerService(customerRepo, invoiceRepo)

		err := service.Delete(ctx, tenantID, customerID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
		customerRepo.AssertNotCalled(t, "DeleteForTenant")
	})
}
