package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/catalog"
	"github.com/invoicing/backend/internal/domain/shared"
)

// CategoryService handles category application logic
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req *CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, userID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
	}

	category, err := catalog.NewCategory(userID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, userID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// List retrieves categories with pagination
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID, filter *CatalogListFilter) (*shared.Paginated[CategoryResponse], error) {
	repoFilter, err := buildCatalogFilter(filter)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.FindAllForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.categoryRepo.CountForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToCategoryResponses(categories), total, repoFilter.Page, repoFilter.PageSize)
	return &result, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name := category.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := category.Description
	if req.Description != nil {
		description = *req.Description
	}

	if req.Name != nil && name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
		}
	}

	if err := category.Update(name, description); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// Delete soft-deletes a category. Products keep their reference; the
// category simply stops appearing in default listings.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := category.MarkDeleted(); err != nil {
		return err
	}

	return s.categoryRepo.Save(ctx, category)
}

// Restore restores a soft-deleted category
func (s *CategoryService) Restore(ctx context.Context, userID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := category.Restore(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

func buildCatalogFilter(filter *CatalogListFilter) (catalog.CatalogFilter, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repoFilter := catalog.CatalogFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  filter.SortBy,
			OrderDir: filter.SortOrder,
		},
		IncludeDeleted: filter.IncludeDeleted,
	}
	if filter.CategoryID != "" {
		categoryID, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return repoFilter, shared.NewDomainError("INVALID_CATEGORY", "Category ID is not a valid UUID")
		}
		repoFilter.CategoryID = &categoryID
	}
	return repoFilter, nil
}
