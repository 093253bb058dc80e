package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/repository"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBuildProductFilter(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]interface{}
		want   repository.ProductFilter
	}{
		{
			name:   "prices and category ids",
			params: map[string]interface{}{"minPrice": 100, "maxPrice": "500", "category": []interface{}{"5"}},
			want:   repository.ProductFilter{MinPrice: dec("100"), MaxPrice: dec("500"), CategoryIDs: []int64{5}},
		},
		{
			name:   "category names",
			params: map[string]interface{}{"category": []interface{}{"Phones"}},
			want:   repository.ProductFilter{CategoryNames: []string{"Phones"}},
		},
		{
			name:   "mixed list matches names",
			params: map[string]interface{}{"brand": []interface{}{"3", "Acme"}},
			want:   repository.ProductFilter{BrandNames: []string{"3", "Acme"}},
		},
		{
			name:   "scalar json numbers",
			params: map[string]interface{}{"brand": float64(7), "minPrice": json.Number("9.5")},
			want:   repository.ProductFilter{BrandIDs: []int64{7}, MinPrice: dec("9.5")},
		},
		{
			name:   "zero and garbage prices are absent",
			params: map[string]interface{}{"minPrice": 0, "maxPrice": "cheap", "category": []interface{}{}},
			want:   repository.ProductFilter{},
		},
		{
			name:   "empty bag",
			params: map[string]interface{}{},
			want:   repository.ProductFilter{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildProductFilter(tt.params)
			assert.Equal(t, tt.want.CategoryIDs, got.CategoryIDs)
			assert.Equal(t, tt.want.CategoryNames, got.CategoryNames)
			assert.Equal(t, tt.want.BrandIDs, got.BrandIDs)
			assert.Equal(t, tt.want.BrandNames, got.BrandNames)
			assertPrice(t, tt.want.MinPrice, got.MinPrice)
			assertPrice(t, tt.want.MaxPrice, got.MaxPrice)
		})
	}
}

func assertPrice(t *testing.T, want, got *decimal.Decimal) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
}

func TestProjectPicksMainImage(t *testing.T) {
	p := models.Product{ID: 1, Name: "Phone"}
	rel := Relations{
		Images: map[int64][]models.Image{1: {
			{ID: 10, ProductID: 1},
			{ID: 11, ProductID: 1, Main: true},
			{ID: 12, ProductID: 1, Main: true},
		}},
		Types:      map[int64][]models.PropertyType{1: {{ID: 5, ProductID: 1, Title: "Color"}}},
		Properties: map[int64][]models.Property{5: {{ID: 6, PropertyTypeID: 5, Title: "Body", Value: "Black"}}},
	}

	v := Project(p, rel)
	require.NotNil(t, v.MainImage)
	assert.Equal(t, int64(11), v.MainImage.ID)
	assert.Len(t, v.Images, 3)
	require.Len(t, v.Properties, 1)
	assert.Equal(t, "Color", v.Properties[0].Title)
	assert.Equal(t, "Black", v.Properties[0].Properties[0].Value)
	assert.False(t, v.IsLiked)
	assert.Nil(t, v.LikedItemID)
	assert.False(t, v.IsInCart)
	assert.False(t, v.IsInVersus)
}

func TestProjectWithoutRelations(t *testing.T) {
	v := Project(models.Product{ID: 2}, Relations{})
	assert.Nil(t, v.MainImage)
	assert.NotNil(t, v.Images)
	assert.NotNil(t, v.Properties)
}

func TestProductViewPerPrincipal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.productService()
	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	require.NoError(t, f.store.Images().Create(ctx, &models.Image{ProductID: prod.ID, URL: "https://cdn/p.png", Main: true}))
	liked, _, err := f.store.Liked().GetOrCreate(ctx, f.alice.UserID, prod.ID)
	require.NoError(t, err)
	f.cartItem(t, f.alice, prod.ID, 1)

	anon, err := svc.Get(ctx, f.anon, prod.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsLiked)
	assert.False(t, anon.IsInCart)
	require.NotNil(t, anon.MainImage)
	assert.Equal(t, "https://cdn/p.png", anon.MainImage.URL)

	mine, err := svc.Get(ctx, f.alice, prod.ID)
	require.NoError(t, err)
	assert.True(t, mine.IsLiked)
	require.NotNil(t, mine.LikedItemID)
	assert.Equal(t, liked.ID, *mine.LikedItemID)
	assert.True(t, mine.IsInCart)
	assert.False(t, mine.IsInVersus)

	_, err = svc.Get(ctx, f.anon, 31337)
	assertStatus(t, err, http.StatusNotFound)
}

func TestProductListAndFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.productService()
	f.product(t, f.bob, "Budget phone", 50, f.phones.ID)
	mid := f.product(t, f.bob, "Mid phone", 300, f.phones.ID)
	f.product(t, f.bob, "Mid laptop", 400, f.laptops.ID)

	views, err := svc.Filter(ctx, f.anon, map[string]interface{}{
		"minPrice": 100, "maxPrice": 500, "category": []interface{}{"Phones"},
	})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, mid.ID, views[0].ID)

	page, err := svc.List(ctx, f.anon, repository.ProductQuery{
		ListParams: repository.ListParams{Search: "mid"},
		Ordering:   "-price",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Mid laptop", page.Items[0].Name)
}

func productRequest(f *fixture, name string, price int64) *ProductRequest {
	return &ProductRequest{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Brand:    f.brand.ID,
		Category: f.phones.ID,
	}
}

func TestProductWriteRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.productService()

	created, err := svc.Create(ctx, f.alice, productRequest(f, "Phone", 100))
	require.NoError(t, err)
	assert.Equal(t, f.alice.UserID, created.UserID)

	_, err = svc.Create(ctx, f.anon, productRequest(f, "Phone", 100))
	assertStatus(t, err, http.StatusUnauthorized)

	bad := productRequest(f, "Phone", 100)
	bad.Brand = 8888
	_, err = svc.Create(ctx, f.alice, bad)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, f.alice, productRequest(f, "  ", 100))
	assertStatus(t, err, http.StatusBadRequest)

	_, err = svc.Update(ctx, f.bob, created.ID, productRequest(f, "Stolen", 1))
	assertStatus(t, err, http.StatusForbidden)

	updated, err := svc.Update(ctx, f.admin, created.ID, productRequest(f, "Moderated", 120))
	require.NoError(t, err)
	assert.Equal(t, "Moderated", updated.Name)
	assert.Equal(t, f.alice.UserID, updated.UserID)

	_, err = svc.Update(ctx, f.alice, 5555, productRequest(f, "Ghost", 1))
	assertStatus(t, err, http.StatusNotFound)

	assertStatus(t, svc.Delete(ctx, f.bob, created.ID), http.StatusForbidden)
	require.NoError(t, svc.Delete(ctx, f.alice, created.ID))
	_, err = svc.Get(ctx, f.alice, created.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestSetDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.productService()
	prod := f.product(t, f.alice, "Phone", 100, f.phones.ID)

	_, err := svc.SetDiscount(ctx, f.alice, prod.ID, &DiscountRequest{Percentage: ptr(10)})
	assertStatus(t, err, http.StatusForbidden)

	for _, req := range []*DiscountRequest{
		{Percentage: ptr(0)},
		{Percentage: ptr(100)},
		{Price: dec("100")},
		{Price: dec("-1")},
		{ExpiresAt: ptr(time.Now().Add(time.Hour))},
	} {
		_, err := svc.SetDiscount(ctx, f.admin, prod.ID, req)
		assertStatus(t, err, http.StatusBadRequest)
	}

	view, err := svc.SetDiscount(ctx, f.admin, prod.ID, &DiscountRequest{Percentage: ptr(20)})
	require.NoError(t, err)
	require.True(t, view.DiscountPrice.Valid)
	assertDecimal(t, 80, view.DiscountPrice.Decimal)
	assert.Equal(t, 20, *view.DiscountPercentage)

	_, err = svc.Update(ctx, f.alice, prod.ID, productRequest(f, "Phone", 70))
	assertStatus(t, err, http.StatusBadRequest)

	cleared, err := svc.SetDiscount(ctx, f.admin, prod.ID, &DiscountRequest{})
	require.NoError(t, err)
	assert.False(t, cleared.DiscountPrice.Valid)
	assert.Nil(t, cleared.DiscountPercentage)

	_, err = svc.SetDiscount(ctx, f.admin, 9090, &DiscountRequest{Percentage: ptr(5)})
	assertStatus(t, err, http.StatusNotFound)
}

func TestSetDiscountRejectsDerivedPriceNotBelowPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.productService()

	free := f.product(t, f.alice, "Sticker", 0, f.phones.ID)
	_, err := svc.SetDiscount(ctx, f.admin, free.ID, &DiscountRequest{Percentage: ptr(50)})
	assertStatus(t, err, http.StatusBadRequest)

	cent := models.Product{
		Name: "Pin", Price: decimal.RequireFromString("0.01"),
		BrandID: f.brand.ID, CategoryID: f.phones.ID, UserID: f.alice.UserID, IsCash: true,
	}
	require.NoError(t, f.store.Products().Create(ctx, &cent))
	_, err = svc.SetDiscount(ctx, f.admin, cent.ID, &DiscountRequest{Percentage: ptr(1)})
	assertStatus(t, err, http.StatusBadRequest)

	view, err := svc.Get(ctx, f.admin, free.ID)
	require.NoError(t, err)
	assert.False(t, view.DiscountPrice.Valid)
}
