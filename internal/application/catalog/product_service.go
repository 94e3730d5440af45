package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/catalog"
	"github.com/invoicing/backend/internal/domain/shared"
)

// ProductService handles product application logic
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, userID uuid.UUID, req *CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByName(ctx, userID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this name already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForUser(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(userID, req.Name, req.Description, req.UnitPrice, req.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, userID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List retrieves products with pagination
func (s *ProductService) List(ctx context.Context, userID uuid.UUID, filter *CatalogListFilter) (*shared.Paginated[ProductResponse], error) {
	repoFilter, err := buildCatalogFilter(filter)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindAllForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.CountForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToProductResponses(products), total, repoFilter.Page, repoFilter.PageSize)
	return &result, nil
}

// Update updates an existing product
func (s *ProductService) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	unitPrice := product.UnitPrice
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}
	categoryID := product.CategoryID
	if req.CategoryID != nil {
		if *req.CategoryID == uuid.Nil {
			categoryID = nil
		} else {
			if _, err := s.categoryRepo.FindByIDForUser(ctx, userID, *req.CategoryID); err != nil {
				return nil, err
			}
			categoryID = req.CategoryID
		}
	}

	if req.Name != nil && name != product.Name {
		exists, err := s.productRepo.ExistsByName(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this name already exists")
		}
	}

	if err := product.Update(name, description, unitPrice, categoryID); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// Delete soft-deletes a product. Existing invoice lines are snapshots and
// keep their text and price.
func (s *ProductService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	product, err := s.productRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := product.MarkDeleted(); err != nil {
		return err
	}

	return s.productRepo.Save(ctx, product)
}

// Restore restores a soft-deleted product
func (s *ProductService) Restore(ctx context.Context, userID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := product.Restore(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}
