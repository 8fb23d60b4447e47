package service

import (
	"context"
	"errors"
	"testing"

	"cookie-shop/internal/domain"
	"cookie-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCart_CreatesOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService()
	user := createTestUser(t, domain.RoleUser)

	cart, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalPrice.IsZero())

	// Second access returns the same cart
	again, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddItem_SameProductIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService()
	user := createTestUser(t, domain.RoleUser)
	product := createTestProduct(t, "Waffles", decimal.NewFromFloat(2.50), 100)

	_, err := svc.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)

	// One line per product, quantities merged
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.NewFromFloat(2.50)))
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(12.50)))
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc := newTestCartService()
	user := createTestUser(t, domain.RoleUser)

	_, err := svc.AddItem(context.Background(), user.ID, uuid.New(), 1)
	assert.True(t, errors.Is(err, repository.ErrProductNotFound))
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestCartService()
	user := createTestUser(t, domain.RoleUser)
	product := createTestProduct(t, "Muffins", decimal.NewFromFloat(3.00), 10)

	for _, quantity := range []int{0, -1} {
		_, err := svc.AddItem(context.Background(), user.ID, product.ID, quantity)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestUpdateItemQuantity_ReplacesQuantity(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService()
	user := createTestUser(t, domain.RoleUser)
	product := createTestProduct(t, "Croissants", decimal.NewFromFloat(1.80), 100)

	_, err := svc.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpdateItemQuantity(ctx, user.ID, product.ID, 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(12.60)))
}

func TestUpdateItemQuantity_MissingLine(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService()
	user := createTestUser(t, domain.RoleUser)
	product := createTestProduct(t, "Pretzels", decimal.NewFromFloat(2.00), 10)

	_, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(ctx, user.ID, product.ID, 3)
	assert.True(t, errors.Is(err, repository.ErrCartItemNotFound))
}

func TestRemoveItem_DropsLineAndRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService()
	user := createTestUser(t, domain.RoleUser)
	keep := createTestProduct(t, "Donuts", decimal.NewFromFloat(2.20), 50)
	drop := createTestProduct(t, "Bagels", decimal.NewFromFloat(1.50), 50)

	fillCart(t, svc, user.ID, map[uuid.UUID]int{keep.ID: 2, drop.ID: 4})

	cart, err := svc.RemoveItem(ctx, user.ID, drop.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, keep.ID, cart.Items[0].ProductID)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(4.40)))
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService()
	user := createTestUser(t, domain.RoleUser)
	product := createTestProduct(t, "Scones", decimal.NewFromFloat(2.75), 50)

	fillCart(t, svc, user.ID, map[uuid.UUID]int{product.ID: 3})

	cart, err := svc.ClearCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalPrice.IsZero())
}

// The stored cart total always equals the sum over quantity times unit
// price, whatever sequence of adds and updates produced the cart.
func TestProperty_CartTotalMatchesLines(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	svc := newTestCartService()
	ctx := context.Background()

	properties.Property("total equals sum of quantity*unitPrice", prop.ForAll(
		func(quantities []int) bool {
			user := createTestUser(t, domain.RoleUser)

			for i, quantity := range quantities {
				price := decimal.NewFromInt(int64(i%7 + 1)).Div(decimal.NewFromInt(2))
				product := createTestProduct(t, "Cookie box", price, 1000)
				if _, err := svc.AddItem(ctx, user.ID, product.ID, quantity); err != nil {
					t.Logf("FAIL: AddItem returned %v", err)
					return false
				}
			}

			cart, err := svc.GetCart(ctx, user.ID)
			if err != nil {
				t.Logf("FAIL: GetCart returned %v", err)
				return false
			}

			expected := domain.ComputeTotal(cart.Items)
			if !cart.TotalPrice.Equal(expected) {
				t.Logf("FAIL: stored total %s, expected %s", cart.TotalPrice, expected)
				return false
			}
			return true
		},
		gen.SliceOfN(4, gen.IntRange(1, 9)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
