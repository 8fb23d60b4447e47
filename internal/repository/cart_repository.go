package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cookie-shop/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("product not found in cart")
)

// CartRepository defines the interface for cart data access. A cart is
// unique per user; items live in cart_items and are loaded eagerly.
type CartRepository interface {
	Create(ctx context.Context, cart *domain.Cart) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	UpdateTotal(ctx context.Context, cartID uuid.UUID, total decimal.Decimal) error
	AddItem(ctx context.Context, item *domain.CartItem) error
	IncrementItemQuantity(ctx context.Context, cartID, productID uuid.UUID, delta int) error
	SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	WithTx(tx *sql.Tx) CartRepository
}

type cartRepository struct {
	db DBTX
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db DBTX) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *sql.Tx) CartRepository {
	return &cartRepository{db: tx}
}

// Create inserts a new empty cart for a user
func (r *cartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		cart.ID,
		cart.UserID,
		cart.TotalPrice,
		cart.CreatedAt,
		cart.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

// FindByUserID retrieves a user's cart with its items materialized
func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	query := `
		SELECT id, user_id, total_price, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalPrice,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	items, err := r.itemsByCartID(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

// UpdateTotal persists a recomputed cart total
func (r *cartRepository) UpdateTotal(ctx context.Context, cartID uuid.UUID, total decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE carts SET total_price = $2, updated_at = NOW() WHERE id = $1`,
		cartID, total,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart total: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartNotFound
	}

	return nil
}

// AddItem inserts a new cart line
func (r *cartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.CartID,
		item.ProductID,
		item.Quantity,
		item.UnitPrice,
	)

	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// IncrementItemQuantity adds delta to an existing line's quantity
func (r *cartRepository) IncrementItemQuantity(ctx context.Context, cartID, productID uuid.UUID, delta int) error {
	query := `
		UPDATE cart_items
		SET quantity = quantity + $3
		WHERE cart_id = $1 AND product_id = $2
	`

	return r.execItemUpdate(ctx, query, cartID, productID, delta)
}

// SetItemQuantity replaces an existing line's quantity
func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2
	`

	return r.execItemUpdate(ctx, query, cartID, productID, quantity)
}

// RemoveItem deletes a cart line
func (r *cartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	result, err := r.db.ExecContext(ctx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// ClearItems deletes all lines of a cart
func (r *cartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	return nil
}

func (r *cartRepository) execItemUpdate(ctx context.Context, query string, cartID, productID uuid.UUID, arg int) error {
	result, err := r.db.ExecContext(ctx, query, cartID, productID, arg)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepository) itemsByCartID(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, unit_price
		FROM cart_items
		WHERE cart_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item := domain.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}
