package service

import (
	"context"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

func TestCartCreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCartService(f.store.Cart(), f.store.Products())
	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)

	line, err := svc.Create(ctx, f.alice, &CartItemRequest{Product: prod.ID, Amount: 3})
	require.NoError(t, err)
	assertDecimal(t, 30, line.TotalPrice)

	_, err = svc.Create(ctx, f.alice, &CartItemRequest{Product: prod.ID, Amount: 1})
	require.NoError(t, err)

	page, err := svc.List(ctx, f.alice, repository.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Phone", page.Items[0].ProductName)

	others, err := svc.List(ctx, f.bob, repository.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, others.Items)
}

func TestCartValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCartService(f.store.Cart(), f.store.Products())
	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)

	_, err := svc.Create(ctx, f.alice, &CartItemRequest{Amount: 1})
	assert.ErrorIs(t, err, utils.ErrProductRequired)
	_, err = svc.Create(ctx, f.alice, &CartItemRequest{Product: prod.ID})
	assertStatus(t, err, http.StatusBadRequest)
	_, err = svc.Create(ctx, f.alice, &CartItemRequest{Product: prod.ID, Amount: maxCartAmount + 1})
	assertStatus(t, err, http.StatusBadRequest)
	_, err = svc.Create(ctx, f.alice, &CartItemRequest{Product: prod.ID, Amount: math.MaxInt32})
	assertStatus(t, err, http.StatusBadRequest)
	_, err = svc.Create(ctx, f.alice, &CartItemRequest{Product: 8080, Amount: 1})
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
	_, err = svc.List(ctx, f.anon, repository.ListParams{})
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestCartOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCartService(f.store.Cart(), f.store.Products())
	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	line := f.cartItem(t, f.alice, prod.ID, 1)

	_, err := svc.UpdateAmount(ctx, f.bob, line.ID, 5)
	assertStatus(t, err, http.StatusForbidden)
	assertStatus(t, svc.Delete(ctx, f.admin, line.ID), http.StatusForbidden)
	_, err = svc.Get(ctx, f.alice, 7777)
	assertStatus(t, err, http.StatusNotFound)
	_, err = svc.UpdateAmount(ctx, f.alice, line.ID, 0)
	assertStatus(t, err, http.StatusBadRequest)
	_, err = svc.UpdateAmount(ctx, f.alice, line.ID, maxCartAmount+1)
	assertStatus(t, err, http.StatusBadRequest)

	updated, err := svc.UpdateAmount(ctx, f.alice, line.ID, 4)
	require.NoError(t, err)
	assertDecimal(t, 40, updated.TotalPrice)

	require.NoError(t, svc.Delete(ctx, f.alice, line.ID))
	_, err = svc.Get(ctx, f.alice, line.ID)
	assertStatus(t, err, http.StatusNotFound)
}
