package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates how a discount code is applied.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "PERCENTAGE"
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT"
)

// ParseDiscountType maps a type token to a DiscountType, case-insensitively.
func ParseDiscountType(s string) (DiscountType, error) {
	switch DiscountType(strings.ToUpper(s)) {
	case DiscountTypePercentage:
		return DiscountTypePercentage, nil
	case DiscountTypeFixedAmount:
		return DiscountTypeFixedAmount, nil
	default:
		return "", fmt.Errorf("invalid discount type: %s", s)
	}
}

// DiscountCode represents a discount code. Validity is evaluated at lookup
// time: a code whose expiry date has passed rejects usage.
type DiscountCode struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Code      string          `json:"code" db:"code"`
	Type      DiscountType    `json:"type" db:"type"`
	Value     decimal.Decimal `json:"value" db:"value"`
	ExpiresAt time.Time       `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Expired reports whether the code's expiry date is strictly before now.
func (d *DiscountCode) Expired(now time.Time) bool {
	return d.ExpiresAt.Before(now)
}
