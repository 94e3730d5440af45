package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a reusable line-item template: its name, price and
// description prefill invoice items at authoring time. The category link
// is a weak reference by id and may dangle after a category is deleted.
type Product struct {
	shared.OwnedAggregateRoot
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	DeletedAt   *time.Time      `json:"deleted_at"`
}

// NewProduct creates a new product
func NewProduct(userID uuid.UUID, name, description string, unitPrice decimal.Decimal, categoryID *uuid.UUID) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}

	product := &Product{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               strings.TrimSpace(name),
		Description:        description,
		UnitPrice:          unitPrice,
		CategoryID:         categoryID,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's details
func (p *Product) Update(name, description string, unitPrice decimal.Decimal, categoryID *uuid.UUID) error {
	if p.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a deleted product")
	}
	if err := validateProductName(name); err != nil {
		return err
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UnitPrice = unitPrice
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// MarkDeleted soft-deletes the product
func (p *Product) MarkDeleted() error {
	if p.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Product is already deleted")
	}
	now := time.Now()
	p.DeletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Restore clears the soft-delete marker
func (p *Product) Restore() error {
	if !p.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Product is not deleted")
	}
	p.DeletedAt = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsDeleted returns true if the product has been soft-deleted
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
