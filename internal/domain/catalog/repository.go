package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
)

// CatalogFilter defines filtering options shared by catalog queries.
// IncludeDeleted turns the soft-delete filter into a visibility toggle.
type CatalogFilter struct {
	shared.Filter
	IncludeDeleted bool
	CategoryID     *uuid.UUID // Products only
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByIDForUser finds a category by ID for a specific user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Category, error)

	// FindAllForUser finds all categories for a user with filtering
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter CatalogFilter) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// CountForUser counts categories for a user
	CountForUser(ctx context.Context, userID uuid.UUID, filter CatalogFilter) (int64, error)

	// ExistsByName checks if an active category with the name exists for a user
	ExistsByName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUser finds a product by ID for a specific user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Product, error)

	// FindAllForUser finds all products for a user with filtering
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter CatalogFilter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// CountForUser counts products for a user
	CountForUser(ctx context.Context, userID uuid.UUID, filter CatalogFilter) (int64, error)

	// ExistsByName checks if an active product with the name exists for a user
	ExistsByName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
}
