package service

import (
	"context"
	"errors"
	"time"

	"cookie-shop/internal/domain"
	"cookie-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice  = errors.New("price must be positive")
	ErrInvalidWeight = errors.New("weight must be positive")
	ErrInvalidStock  = errors.New("stock must not be negative")
)

// ProductInput carries the writable fields of a product
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Weight      *decimal.Decimal
	ImageURL    string
	Stock       int
	CategoryIDs []uuid.UUID
}

// ProductService defines the interface for product catalog business logic
type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, categoryID *uuid.UUID, search string) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ImportProducts(ctx context.Context, inputs []ProductInput) ([]*domain.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func validateProductInput(input ProductInput) error {
	if !input.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if input.Weight != nil && !input.Weight.IsPositive() {
		return ErrInvalidWeight
	}
	if input.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// CreateProduct adds a product to the catalog and links it to the given
// categories. Every category id must name an existing category.
func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	categories, err := s.resolveCategories(ctx, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Weight:      input.Weight,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		Categories:  categories,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	if err := s.productRepo.ReplaceCategories(ctx, product.ID, input.CategoryIDs); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProductByID retrieves a product with its categories
func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListProducts retrieves products, optionally filtered by category and by a
// case-insensitive name substring
func (s *productService) ListProducts(ctx context.Context, categoryID *uuid.UUID, search string) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, categoryID, search)
}

// UpdateProduct replaces a product's fields and category links
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categories, err := s.resolveCategories(ctx, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          existing.ID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Weight:      input.Weight,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		Categories:  categories,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	if err := s.productRepo.ReplaceCategories(ctx, product.ID, input.CategoryIDs); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product. Deletion is refused while any order
// item still references the product; cart lines are removed in cascade.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// ImportProducts creates one catalog entry per element. Entries are always
// inserted fresh, never merged with existing products of the same name.
func (s *productService) ImportProducts(ctx context.Context, inputs []ProductInput) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(inputs))
	for _, input := range inputs {
		product, err := s.CreateProduct(ctx, input)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (s *productService) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		category, err := s.categoryRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, nil
}
