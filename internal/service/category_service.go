package service

import (
	"context"
	"time"

	"cookie-shop/internal/domain"
	"cookie-shop/internal/repository"

	"github.com/google/uuid"
)

// CategoryExport is the portable form of a category: its fields plus the
// ids of the products linked to it.
type CategoryExport struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ProductIDs  []uuid.UUID `json:"productIds"`
}

// CategoryService defines the interface for category business logic
type CategoryService interface {
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name, description string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ExportCategories(ctx context.Context) ([]CategoryExport, error)
	ImportCategories(ctx context.Context, exports []CategoryExport) ([]*domain.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// CreateCategory adds a new category. Names are unique.
func (s *categoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategoryByID retrieves a category by its id
func (s *categoryService) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// ListCategories retrieves all categories
func (s *categoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// UpdateCategory replaces a category's name and description
func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name, description string) (*domain.Category, error) {
	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:          existing.ID,
		Name:        name,
		Description: description,
		CreatedAt:   existing.CreatedAt,
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category, leaving its products in place
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// ExportCategories returns every category together with the ids of its
// linked products
func (s *categoryService) ExportCategories(ctx context.Context) ([]CategoryExport, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	exports := make([]CategoryExport, 0, len(categories))
	for _, category := range categories {
		productIDs, err := s.categoryRepo.ProductIDs(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		exports = append(exports, CategoryExport{
			Name:        category.Name,
			Description: category.Description,
			ProductIDs:  productIDs,
		})
	}
	return exports, nil
}

// ImportCategories creates one category per entry and re-links the listed
// product ids. Entries are always inserted fresh; an importing round trip
// of an export restores the same product-id sets.
func (s *categoryService) ImportCategories(ctx context.Context, exports []CategoryExport) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(exports))
	for _, export := range exports {
		category, err := s.CreateCategory(ctx, export.Name, export.Description)
		if err != nil {
			return nil, err
		}
		for _, productID := range export.ProductIDs {
			if err := s.categoryRepo.LinkProduct(ctx, category.ID, productID); err != nil {
				return nil, err
			}
		}
		categories = append(categories, category)
	}
	return categories, nil
}
