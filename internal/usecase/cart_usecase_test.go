package usecase_test

import (
	"context"
	"sync"
	"testing"

	"shopapi/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_GetCartCreatesLazily(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	cart, err := uc.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, f.userID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalPrice.IsZero())

	again, err := uc.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCart_GetCartUnknownUser(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)

	_, err := uc.GetCart(context.Background(), "nobody")
	assertKind(t, err, usecase.ErrNotFound, "user not found")
}

func TestCart_AddItemTwiceAddsQuantity(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 2})
	require.NoError(t, err)
	cart, err := uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(5), cart.Items[0].Quantity)
	assert.Equal(t, "Product A", cart.Items[0].ProductName)
	assert.True(t, decimal.NewFromInt(50).Equal(cart.Items[0].Subtotal))
	assert.True(t, decimal.NewFromInt(50).Equal(cart.TotalPrice))
}

func TestCart_AddItemValidation(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	for _, qty := range []int64{0, -1} {
		_, err := uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: qty})
		assertKind(t, err, usecase.ErrInvalidArgument, "quantity")
	}

	_, err := uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: 9999, Quantity: 1})
	assertKind(t, err, usecase.ErrNotFound, "product not found")

	_, err = uc.AddItem(ctx, "nobody", usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 1})
	assertKind(t, err, usecase.ErrNotFound, "user not found")
}

func TestCart_UpdateItemRequiresExistingCart(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	_, err := uc.UpdateItem(ctx, f.userID, usecase.UpdateCartItemInput{ProductID: f.productA.ID, Quantity: 1})
	assertKind(t, err, usecase.ErrNotFound, "cart not found")
}

func TestCart_UpdateItemOverwritesQuantity(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 4})
	require.NoError(t, err)

	cart, err := uc.UpdateItem(ctx, f.userID, usecase.UpdateCartItemInput{ProductID: f.productA.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1), cart.Items[0].Quantity)

	_, err = uc.UpdateItem(ctx, f.userID, usecase.UpdateCartItemInput{ProductID: f.productB.ID, Quantity: 1})
	assertKind(t, err, usecase.ErrNotFound, "cart item not found")

	_, err = uc.UpdateItem(ctx, f.userID, usecase.UpdateCartItemInput{ProductID: f.productA.ID, Quantity: 0})
	assertKind(t, err, usecase.ErrInvalidArgument, "quantity")
}

func TestCart_RemoveItemIsNoOpWhenAbsent(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := uc.RemoveItem(ctx, f.userID, f.productB.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	cart, err = uc.RemoveItem(ctx, f.userID, f.productA.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCart_Clear(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	_, err := uc.Clear(ctx, f.userID)
	assertKind(t, err, usecase.ErrNotFound, "cart not found")

	_, err = uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productB.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := uc.Clear(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalPrice.IsZero())
}

func TestCart_TotalFollowsCurrentPrice(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 2})
	require.NoError(t, err)

	f.setPrice(t, f.productA.ID, decimal.RequireFromString("12.50"))

	cart, err := uc.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", cart.TotalPrice.StringFixed(2))
}

func TestCart_ConcurrentAddsKeepEveryUnit(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	cart, err := uc.GetCart(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(n), cart.Items[0].Quantity)
}
