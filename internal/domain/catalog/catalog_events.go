package catalog

import (
	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CategoryCreatedEvent is raised when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// EventType returns the event type name
func (e *CategoryCreatedEvent) EventType() string {
	return "CategoryCreated"
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(c *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CategoryCreated", "Category", c.ID, c.UserID),
		CategoryID:      c.ID,
		Name:            c.Name,
	}
}

// ProductCreatedEvent is raised when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return "ProductCreated"
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ProductCreated", "Product", p.ID, p.UserID),
		ProductID:       p.ID,
		Name:            p.Name,
		UnitPrice:       p.UnitPrice,
	}
}
