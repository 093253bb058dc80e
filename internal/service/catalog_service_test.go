package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/market_api/internal/repository"
)

type fakeCache struct {
	entries     map[string][]byte
	hits        int
	invalidated []string
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst interface{}) bool {
	raw, ok := c.entries[key]
	if !ok {
		return false
	}
	c.hits++
	return json.Unmarshal(raw, dst) == nil
}

func (c *fakeCache) Set(_ context.Context, key string, v interface{}) {
	raw, _ := json.Marshal(v)
	c.entries[key] = raw
}

func (c *fakeCache) Invalidate(_ context.Context, prefix string) {
	c.invalidated = append(c.invalidated, prefix)
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

func TestCatalogListingIsCachedUntilWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cache := newFakeCache()
	svc := NewCatalogService(f.store.Brands(), f.store.Categories(), f.store.Galleries(), cache)

	first, err := svc.ListBrands(ctx, repository.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Total)
	assert.Contains(t, cache.entries, "catalog:brands:1:20:")

	second, err := svc.ListBrands(ctx, repository.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Items[0].Name, second.Items[0].Name)

	_, err = svc.CreateBrand(ctx, f.admin, &BrandRequest{Name: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, []string{brandCachePrefix}, cache.invalidated)

	third, err := svc.ListBrands(ctx, repository.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, third.Total)

	cats, err := svc.ListCategories(ctx, repository.ListParams{Search: "PHO"})
	require.NoError(t, err)
	assert.Equal(t, 1, cats.Total)
	assert.Contains(t, cache.entries, "catalog:categories:1:20:pho")
}

func TestCatalogWritesAreAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.store.Brands(), f.store.Categories(), f.store.Galleries(), nil)

	_, err := svc.CreateBrand(ctx, f.alice, &BrandRequest{Name: "Nope"})
	assertStatus(t, err, http.StatusForbidden)
	_, err = svc.CreateCategory(ctx, f.anon, &CategoryRequest{Name: "Nope"})
	assertStatus(t, err, http.StatusUnauthorized)
	_, err = svc.CreateGallery(ctx, f.bob, &GalleryRequest{Name: "Nope"})
	assertStatus(t, err, http.StatusForbidden)
	_, err = svc.CreateBrand(ctx, f.admin, &BrandRequest{Name: "   "})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = svc.GetBrand(ctx, 12345)
	assertStatus(t, err, http.StatusNotFound)
	assertStatus(t, svc.DeleteCategory(ctx, f.admin, 12345), http.StatusNotFound)
}

func TestDeleteCategoryRemovesItsProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.store.Brands(), f.store.Categories(), f.store.Galleries(), newFakeCache())
	phone := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	laptop := f.product(t, f.bob, "Laptop", 10, f.laptops.ID)

	require.NoError(t, svc.DeleteCategory(ctx, f.admin, f.phones.ID))

	_, err := f.store.Products().GetByID(ctx, phone.ID)
	assert.Error(t, err)
	_, err = f.store.Products().GetByID(ctx, laptop.ID)
	assert.NoError(t, err)
}

func TestGalleryLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.store.Brands(), f.store.Categories(), f.store.Galleries(), nil)

	g, err := svc.CreateGallery(ctx, f.admin, &GalleryRequest{Name: "Spring"})
	require.NoError(t, err)
	assert.NotNil(t, g.Images)

	g, err = svc.UpdateGallery(ctx, f.admin, g.ID, &GalleryRequest{Name: "Summer", Images: []string{"a.png"}})
	require.NoError(t, err)
	assert.Equal(t, "Summer", g.Name)
	assert.Equal(t, []string{"a.png"}, []string(g.Images))

	require.NoError(t, svc.DeleteGallery(ctx, f.admin, g.ID))
	_, err = svc.GetGallery(ctx, g.ID)
	assertStatus(t, err, http.StatusNotFound)
}
