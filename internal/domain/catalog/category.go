package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
)

// Category groups products for authoring convenience.
// Deleting a category is a visibility toggle, not a removal: products keep
// their weak reference and the category can be restored at any time.
type Category struct {
	shared.OwnedAggregateRoot
	Name        string     `json:"name"`
	Description string     `json:"description"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// NewCategory creates a new category
func NewCategory(userID uuid.UUID, name, description string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               strings.TrimSpace(name),
		Description:        description,
	}

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// Update updates the category's name and description
func (c *Category) Update(name, description string) error {
	if c.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a deleted category")
	}
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// MarkDeleted soft-deletes the category
func (c *Category) MarkDeleted() error {
	if c.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Category is already deleted")
	}
	now := time.Now()
	c.DeletedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// Restore clears the soft-delete marker
func (c *Category) Restore() error {
	if !c.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Category is not deleted")
	}
	c.DeletedAt = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsDeleted returns true if the category has been soft-deleted
func (c *Category) IsDeleted() bool {
	return c.DeletedAt != nil
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
