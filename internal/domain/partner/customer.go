package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invoicely/backend/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Customer represents a billable party owned by a single tenant.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.TenantEntity
	Name    string `gorm:"type:varchar(200);not null"`
	Email   string `gorm:"type:varchar(200);index"`
	Phone   string `gorm:"type:varchar(50)"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(tenantID uuid.UUID, name, email, phone, address string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateCustomerEmail(email); err != nil {
		return nil, err
	}
	if err := validateCustomerPhone(phone); err != nil {
		return nil, err
	}

	return &Customer{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		Phone:        strings.TrimSpace(phone),
		Address:      strings.TrimSpace(address),
	}, nil
}

// Update updates the customer's mutable fields
func (c *Customer) Update(name, email, phone, address string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if err := validateCustomerEmail(email); err != nil {
		return err
	}
	if err := validateCustomerPhone(phone); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Email = strings.TrimSpace(email)
	c.Phone = strings.TrimSpace(phone)
	c.Address = strings.TrimSpace(address)
	c.UpdatedAt = time.Now()

	return nil
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Customer name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

// validateCustomerEmail requires an address. Customer emails are not
// unique, multiple customers may share one mailbox.
func validateCustomerEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewValidationError("Customer email is required")
	}
	if len(email) > 200 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateCustomerPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return shared.NewValidationError("Customer phone is required")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer phone cannot exceed 50 characters")
	}
	return nil
}
