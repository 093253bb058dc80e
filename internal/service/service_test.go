package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/market_api/internal/memstore"
	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/utils"
)

type fixture struct {
	store *memstore.Store

	alice, bob, admin policy.Principal
	anon              policy.Principal

	brand   models.Brand
	phones  models.Category
	laptops models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memstore.New(), anon: policy.Anonymous()}

	f.alice = f.user(t, "alice", false)
	f.bob = f.user(t, "bob", false)
	f.admin = f.user(t, "root", true)

	f.brand = models.Brand{Name: "Acme"}
	require.NoError(t, f.store.Brands().Create(ctx, &f.brand))
	f.phones = models.Category{Name: "Phones"}
	require.NoError(t, f.store.Categories().Create(ctx, &f.phones))
	f.laptops = models.Category{Name: "Laptops"}
	require.NoError(t, f.store.Categories().Create(ctx, &f.laptops))
	return f
}

func (f *fixture) user(t *testing.T, name string, admin bool) policy.Principal {
	t.Helper()
	u := &models.User{Username: name, IsAdmin: admin}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return policy.Principal{UserID: u.ID, IsAdmin: admin}
}

func (f *fixture) product(t *testing.T, seller policy.Principal, name string, price int64, category int64) models.Product {
	t.Helper()
	p := models.Product{
		Name:       name,
		Price:      decimal.NewFromInt(price),
		BrandID:    f.brand.ID,
		CategoryID: category,
		UserID:     seller.UserID,
		IsCash:     true,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), &p))
	return p
}

func (f *fixture) cartItem(t *testing.T, owner policy.Principal, productID int64, amount int) models.CartItem {
	t.Helper()
	c := models.CartItem{UserID: owner.UserID, ProductID: productID, Amount: amount}
	require.NoError(t, f.store.Cart().Create(context.Background(), &c))
	return c
}

func (f *fixture) productService() *ProductService {
	return NewProductService(ProductDeps{
		Products:   f.store.Products(),
		Brands:     f.store.Brands(),
		Categories: f.store.Categories(),
		Galleries:  f.store.Galleries(),
		Images:     f.store.Images(),
		Properties: f.store.Properties(),
		Liked:      f.store.Liked(),
		Cart:       f.store.Cart(),
		Versus:     f.store.Versus(),
	})
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, status, appErr.Status, appErr.Message)
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got)
}
