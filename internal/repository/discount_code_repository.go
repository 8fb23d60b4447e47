package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cookie-shop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrDiscountCodeNotFound      = errors.New("discount code not found")
	ErrDiscountCodeAlreadyExists = errors.New("discount code with this value already exists")
)

// DiscountCodeRepository defines the interface for discount code data access
type DiscountCodeRepository interface {
	Create(ctx context.Context, code *domain.DiscountCode) error
	Update(ctx context.Context, code *domain.DiscountCode) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error)
	FindByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	List(ctx context.Context) ([]*domain.DiscountCode, error)
}

type discountCodeRepository struct {
	db DBTX
}

// NewDiscountCodeRepository creates a new instance of DiscountCodeRepository
func NewDiscountCodeRepository(db DBTX) DiscountCodeRepository {
	return &discountCodeRepository{db: db}
}

const discountCodeColumns = `id, code, type, value, expires_at, created_at`

// Create inserts a new discount code using parameterized queries
func (r *discountCodeRepository) Create(ctx context.Context, code *domain.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (id, code, type, value, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		code.ID,
		code.Code,
		code.Type,
		code.Value,
		code.ExpiresAt,
		code.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "discount_codes_code_key") {
			return ErrDiscountCodeAlreadyExists
		}
		return fmt.Errorf("failed to create discount code: %w", err)
	}

	return nil
}

// Update updates an existing discount code
func (r *discountCodeRepository) Update(ctx context.Context, code *domain.DiscountCode) error {
	query := `
		UPDATE discount_codes
		SET code = $2, type = $3, value = $4, expires_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, code.ID, code.Code, code.Type, code.Value, code.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err, "discount_codes_code_key") {
			return ErrDiscountCodeAlreadyExists
		}
		return fmt.Errorf("failed to update discount code: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDiscountCodeNotFound
	}

	return nil
}

// Delete removes a discount code by ID
func (r *discountCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM discount_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete discount code: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDiscountCodeNotFound
	}

	return nil
}

// FindByID retrieves a discount code by ID
func (r *discountCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error) {
	query := `SELECT ` + discountCodeColumns + ` FROM discount_codes WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByCode retrieves a discount code by its code string
func (r *discountCodeRepository) FindByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	query := `SELECT ` + discountCodeColumns + ` FROM discount_codes WHERE code = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, code))
}

// List retrieves all discount codes
func (r *discountCodeRepository) List(ctx context.Context) ([]*domain.DiscountCode, error) {
	query := `SELECT ` + discountCodeColumns + ` FROM discount_codes ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}
	defer rows.Close()

	codes := []*domain.DiscountCode{}
	for rows.Next() {
		code := &domain.DiscountCode{}
		err := rows.Scan(
			&code.ID,
			&code.Code,
			&code.Type,
			&code.Value,
			&code.ExpiresAt,
			&code.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount code: %w", err)
		}
		codes = append(codes, code)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discount codes: %w", err)
	}

	return codes, nil
}

func (r *discountCodeRepository) scanOne(row *sql.Row) (*domain.DiscountCode, error) {
	code := &domain.DiscountCode{}
	err := row.Scan(
		&code.ID,
		&code.Code,
		&code.Type,
		&code.Value,
		&code.ExpiresAt,
		&code.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDiscountCodeNotFound
		}
		return nil, fmt.Errorf("failed to find discount code: %w", err)
	}

	return code, nil
}
