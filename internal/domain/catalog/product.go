package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
)

// Product represents a sellable item in a tenant's catalog.
// SKU is unique per tenant, enforced by a composite unique index.
type Product struct {
	shared.TenantEntity
	Name          string          `gorm:"type:varchar(200);not null"`
	SKU           string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_tenant_sku,priority:2"`
	Category      string          `gorm:"type:varchar(100);index"`
	UnitPrice     valueobject.Money `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity int               `gorm:"not null;default:0"`
	Description   string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with required fields
func NewProduct(tenantID uuid.UUID, name, sku, category string, unitPrice valueobject.Money, stockQuantity int, description string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}
	if stockQuantity < 0 {
		return nil, shared.NewValidationError("Stock quantity cannot be negative")
	}

	return &Product{
		TenantEntity:  shared.NewTenantEntity(tenantID),
		Name:          strings.TrimSpace(name),
		SKU:           strings.ToUpper(strings.TrimSpace(sku)),
		Category:      strings.TrimSpace(category),
		UnitPrice:     unitPrice,
		StockQuantity: stockQuantity,
		Description:   description,
	}, nil
}

// Update updates the product's mutable fields
func (p *Product) Update(name, sku, category string, unitPrice valueobject.Money, stockQuantity int, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateSKU(sku); err != nil {
		return err
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("Unit price cannot be negative")
	}
	if stockQuantity < 0 {
		return shared.NewValidationError("Stock quantity cannot be negative")
	}

	p.Name = strings.TrimSpace(name)
	p.SKU = strings.ToUpper(strings.TrimSpace(sku))
	p.Category = strings.TrimSpace(category)
	p.UnitPrice = unitPrice
	p.StockQuantity = stockQuantity
	p.Description = description
	p.UpdatedAt = time.Now()

	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Product name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewValidationError("SKU is required")
	}
	if len(sku) > 100 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}
	return nil
}
