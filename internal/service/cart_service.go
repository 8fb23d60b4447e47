package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cookie-shop/internal/domain"
	"cookie-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// CartService defines the interface for cart business logic
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
}

type cartService struct {
	db          *sql.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(db *sql.DB, cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
// Repeated calls return the same cart.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, err
	}

	cart = &domain.Cart{
		ID:         uuid.New(),
		UserID:     userID,
		TotalPrice: decimal.Zero,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		// Lost a race against a concurrent first access; the cart exists now.
		existing, findErr := s.cartRepo.FindByUserID(ctx, userID)
		if findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem puts a product line into the cart. Adding a product already in
// the cart increments its quantity instead of creating a second line. The
// line's unit price is snapshotted from the product at add time.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cartRepo := s.cartRepo.WithTx(tx)

	var existing *domain.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			existing = &cart.Items[i]
			break
		}
	}

	if existing != nil {
		if err := cartRepo.IncrementItemQuantity(ctx, cart.ID, productID, quantity); err != nil {
			return nil, err
		}
	} else {
		item := &domain.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.Price,
		}
		if err := cartRepo.AddItem(ctx, item); err != nil {
			return nil, err
		}
	}

	return s.refreshTotal(ctx, tx, cartRepo, userID)
}

// UpdateItemQuantity replaces the quantity of an existing cart line
func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cartRepo := s.cartRepo.WithTx(tx)
	if err := cartRepo.SetItemQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}

	return s.refreshTotal(ctx, tx, cartRepo, userID)
}

// RemoveItem deletes a product line from the cart
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cartRepo := s.cartRepo.WithTx(tx)
	if err := cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}

	return s.refreshTotal(ctx, tx, cartRepo, userID)
}

// ClearCart removes every line from the cart and zeroes its total
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cartRepo := s.cartRepo.WithTx(tx)
	if err := cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}

	return s.refreshTotal(ctx, tx, cartRepo, userID)
}

// refreshTotal recomputes the cart total from its lines inside tx and
// commits. The stored total always equals the sum over quantity*unitPrice.
func (s *cartService) refreshTotal(ctx context.Context, tx *sql.Tx, cartRepo repository.CartRepository, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.TotalPrice = domain.ComputeTotal(cart.Items)
	if err := cartRepo.UpdateTotal(ctx, cart.ID, cart.TotalPrice); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cart update: %w", err)
	}
	return cart, nil
}
