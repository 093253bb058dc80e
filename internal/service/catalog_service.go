package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

const (
	brandCachePrefix    = "catalog:brands:"
	categoryCachePrefix = "catalog:categories:"
)

var (
	errBrandNotFound    = utils.NotFound("BRAND_NOT_FOUND", "brand not found")
	errCategoryNotFound = utils.NotFound("CATEGORY_NOT_FOUND", "category not found")
	errGalleryNotFound  = utils.NotFound("GALLERY_NOT_FOUND", "gallery not found")
)

// CatalogService manages the admin-owned catalog: brands, categories and
// galleries. Brand and category listings are served from cache when one is set.
type CatalogService struct {
	brands     BrandStore
	categories CategoryStore
	galleries  GalleryStore
	cache      CatalogCache
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(brands BrandStore, categories CategoryStore, galleries GalleryStore, cache CatalogCache) *CatalogService {
	return &CatalogService{brands: brands, categories: categories, galleries: galleries, cache: cache}
}

// BrandRequest is the body for brand create and update.
type BrandRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryRequest is the body for category create and update.
type CategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
	Icon  string `json:"icon"`
}

// GalleryRequest is the body for gallery create and update.
type GalleryRequest struct {
	Name   string   `json:"name" binding:"required"`
	Images []string `json:"images"`
}

func listCacheKey(prefix string, params repository.ListParams) string {
	params.Normalize()
	return fmt.Sprintf("%s%d:%d:%s", prefix, params.Page, params.Limit, strings.ToLower(params.Search))
}

func (s *CatalogService) cached(ctx context.Context, key string, dst interface{}) bool {
	return s.cache != nil && s.cache.Get(ctx, key, dst)
}

func (s *CatalogService) store(ctx context.Context, key string, v interface{}) {
	if s.cache != nil {
		s.cache.Set(ctx, key, v)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, prefix string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, prefix)
	}
}

// ListBrands returns a page of brands.
func (s *CatalogService) ListBrands(ctx context.Context, params repository.ListParams) (*Page[models.Brand], error) {
	key := listCacheKey(brandCachePrefix, params)
	var page Page[models.Brand]
	if s.cached(ctx, key, &page) {
		return &page, nil
	}
	brands, total, err := s.brands.List(ctx, params)
	if err != nil {
		return nil, err
	}
	page = Page[models.Brand]{Items: brands, Total: total}
	s.store(ctx, key, page)
	return &page, nil
}

// GetBrand returns one brand.
func (s *CatalogService) GetBrand(ctx context.Context, id int64) (*models.Brand, error) {
	b, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errBrandNotFound)
	}
	return b, nil
}

// CreateBrand adds a brand. Admin only.
func (s *CatalogService) CreateBrand(ctx context.Context, p policy.Principal, req *BrandRequest) (*models.Brand, error) {
	if err := authorize(p, policy.Unowned(policy.KindBrand), policy.Write); err != nil {
		return nil, err
	}
	b := &models.Brand{Name: strings.TrimSpace(req.Name)}
	if b.Name == "" {
		return nil, utils.Validation("name is required")
	}
	if err := s.brands.Create(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx, brandCachePrefix)
	return b, nil
}

// UpdateBrand renames a brand. Admin only.
func (s *CatalogService) UpdateBrand(ctx context.Context, p policy.Principal, id int64, req *BrandRequest) (*models.Brand, error) {
	if err := authorize(p, policy.Unowned(policy.KindBrand), policy.Write); err != nil {
		return nil, err
	}
	b, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Name = strings.TrimSpace(req.Name); b.Name == "" {
		return nil, utils.Validation("name is required")
	}
	if err := s.brands.Update(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx, brandCachePrefix)
	return b, nil
}

// DeleteBrand removes a brand and its products. Admin only.
func (s *CatalogService) DeleteBrand(ctx context.Context, p policy.Principal, id int64) error {
	if err := authorize(p, policy.Unowned(policy.KindBrand), policy.Delete); err != nil {
		return err
	}
	if _, err := s.GetBrand(ctx, id); err != nil {
		return err
	}
	if err := s.brands.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, brandCachePrefix)
	return nil
}

// ListCategories returns a page of categories.
func (s *CatalogService) ListCategories(ctx context.Context, params repository.ListParams) (*Page[models.Category], error) {
	key := listCacheKey(categoryCachePrefix, params)
	var page Page[models.Category]
	if s.cached(ctx, key, &page) {
		return &page, nil
	}
	categories, total, err := s.categories.List(ctx, params)
	if err != nil {
		return nil, err
	}
	page = Page[models.Category]{Items: categories, Total: total}
	s.store(ctx, key, page)
	return &page, nil
}

// GetCategory returns one category.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errCategoryNotFound)
	}
	return c, nil
}

// CreateCategory adds a category. Admin only.
func (s *CatalogService) CreateCategory(ctx context.Context, p policy.Principal, req *CategoryRequest) (*models.Category, error) {
	if err := authorize(p, policy.Unowned(policy.KindCategory), policy.Write); err != nil {
		return nil, err
	}
	c := &models.Category{Name: strings.TrimSpace(req.Name), ImageURL: req.Image, IconURL: req.Icon}
	if c.Name == "" {
		return nil, utils.Validation("name is required")
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, categoryCachePrefix)
	return c, nil
}

// UpdateCategory rewrites a category. Admin only.
func (s *CatalogService) UpdateCategory(ctx context.Context, p policy.Principal, id int64, req *CategoryRequest) (*models.Category, error) {
	if err := authorize(p, policy.Unowned(policy.KindCategory), policy.Write); err != nil {
		return nil, err
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Name = strings.TrimSpace(req.Name); c.Name == "" {
		return nil, utils.Validation("name is required")
	}
	c.ImageURL, c.IconURL = req.Image, req.Icon
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, categoryCachePrefix)
	return c, nil
}

// DeleteCategory removes a category and its products. Admin only.
func (s *CatalogService) DeleteCategory(ctx context.Context, p policy.Principal, id int64) error {
	if err := authorize(p, policy.Unowned(policy.KindCategory), policy.Delete); err != nil {
		return err
	}
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, categoryCachePrefix)
	return nil
}

// ListGalleries returns a page of galleries.
func (s *CatalogService) ListGalleries(ctx context.Context, params repository.ListParams) (*Page[models.Gallery], error) {
	galleries, total, err := s.galleries.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &Page[models.Gallery]{Items: galleries, Total: total}, nil
}

// GetGallery returns one gallery.
func (s *CatalogService) GetGallery(ctx context.Context, id int64) (*models.Gallery, error) {
	g, err := s.galleries.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errGalleryNotFound)
	}
	return g, nil
}

// CreateGallery adds a gallery. Admin only.
func (s *CatalogService) CreateGallery(ctx context.Context, p policy.Principal, req *GalleryRequest) (*models.Gallery, error) {
	if err := authorize(p, policy.Unowned(policy.KindGallery), policy.Write); err != nil {
		return nil, err
	}
	g := &models.Gallery{Name: strings.TrimSpace(req.Name), Images: req.Images}
	if g.Name == "" {
		return nil, utils.Validation("name is required")
	}
	if g.Images == nil {
		g.Images = []string{}
	}
	if err := s.galleries.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateGallery rewrites a gallery. Admin only.
func (s *CatalogService) UpdateGallery(ctx context.Context, p policy.Principal, id int64, req *GalleryRequest) (*models.Gallery, error) {
	if err := authorize(p, policy.Unowned(policy.KindGallery), policy.Write); err != nil {
		return nil, err
	}
	g, err := s.GetGallery(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Name = strings.TrimSpace(req.Name); g.Name == "" {
		return nil, utils.Validation("name is required")
	}
	if req.Images != nil {
		g.Images = req.Images
	}
	if err := s.galleries.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGallery removes a gallery. Admin only.
func (s *CatalogService) DeleteGallery(ctx context.Context, p policy.Principal, id int64) error {
	if err := authorize(p, policy.Unowned(policy.KindGallery), policy.Delete); err != nil {
		return err
	}
	if _, err := s.GetGallery(ctx, id); err != nil {
		return err
	}
	return s.galleries.Delete(ctx, id)
}
