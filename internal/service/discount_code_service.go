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
	ErrDiscountCodeExpired = errors.New("discount code has expired")
	ErrInvalidDiscountType = errors.New("invalid discount type")
	ErrInvalidDiscount     = errors.New("discount value must be positive")
)

// DiscountCodeInput carries the writable fields of a discount code
type DiscountCodeInput struct {
	Code      string
	Type      string
	Value     decimal.Decimal
	ExpiresAt time.Time
}

// DiscountCodeService defines the interface for discount code business logic
type DiscountCodeService interface {
	CreateDiscountCode(ctx context.Context, input DiscountCodeInput) (*domain.DiscountCode, error)
	GetDiscountCodeByID(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error)
	GetDiscountCodeByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	ListDiscountCodes(ctx context.Context) ([]*domain.DiscountCode, error)
	UpdateDiscountCode(ctx context.Context, id uuid.UUID, input DiscountCodeInput) (*domain.DiscountCode, error)
	DeleteDiscountCode(ctx context.Context, id uuid.UUID) error
}

type discountCodeService struct {
	discountCodeRepo repository.DiscountCodeRepository
}

// NewDiscountCodeService creates a new instance of DiscountCodeService
func NewDiscountCodeService(discountCodeRepo repository.DiscountCodeRepository) DiscountCodeService {
	return &discountCodeService{discountCodeRepo: discountCodeRepo}
}

func (s *discountCodeService) buildCode(id uuid.UUID, createdAt time.Time, input DiscountCodeInput) (*domain.DiscountCode, error) {
	discountType, err := domain.ParseDiscountType(input.Type)
	if err != nil {
		return nil, ErrInvalidDiscountType
	}
	if !input.Value.IsPositive() {
		return nil, ErrInvalidDiscount
	}

	return &domain.DiscountCode{
		ID:        id,
		Code:      input.Code,
		Type:      discountType,
		Value:     input.Value,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: createdAt,
	}, nil
}

// CreateDiscountCode adds a new discount code. Codes are unique.
func (s *discountCodeService) CreateDiscountCode(ctx context.Context, input DiscountCodeInput) (*domain.DiscountCode, error) {
	code, err := s.buildCode(uuid.New(), time.Now(), input)
	if err != nil {
		return nil, err
	}
	if err := s.discountCodeRepo.Create(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// GetDiscountCodeByID retrieves a discount code by its id
func (s *discountCodeService) GetDiscountCodeByID(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error) {
	return s.discountCodeRepo.FindByID(ctx, id)
}

// GetDiscountCodeByCode looks up a discount code by its code string.
// Expired codes are rejected at lookup time, not deleted.
func (s *discountCodeService) GetDiscountCodeByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	discountCode, err := s.discountCodeRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if discountCode.Expired(time.Now()) {
		return nil, ErrDiscountCodeExpired
	}
	return discountCode, nil
}

// ListDiscountCodes retrieves all discount codes, expired ones included
func (s *discountCodeService) ListDiscountCodes(ctx context.Context) ([]*domain.DiscountCode, error) {
	return s.discountCodeRepo.List(ctx)
}

// UpdateDiscountCode replaces a discount code's fields
func (s *discountCodeService) UpdateDiscountCode(ctx context.Context, id uuid.UUID, input DiscountCodeInput) (*domain.DiscountCode, error) {
	existing, err := s.discountCodeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	code, err := s.buildCode(existing.ID, existing.CreatedAt, input)
	if err != nil {
		return nil, err
	}
	if err := s.discountCodeRepo.Update(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// DeleteDiscountCode removes a discount code
func (s *discountCodeService) DeleteDiscountCode(ctx context.Context, id uuid.UUID) error {
	return s.discountCodeRepo.Delete(ctx, id)
}
