package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

// ProductService handles product browsing and seller-side product management.
type ProductService struct {
	products   ProductStore
	brands     BrandStore
	categories CategoryStore
	galleries  GalleryStore
	projector  *projector
}

// ProductDeps groups the stores a ProductService reads from.
type ProductDeps struct {
	Products   ProductStore
	Brands     BrandStore
	Categories CategoryStore
	Galleries  GalleryStore
	Images     ImageStore
	Properties PropertyStore
	Liked      LikedStore
	Cart       CartStore
	Versus     VersusStore
}

// NewProductService constructs a ProductService.
func NewProductService(d ProductDeps) *ProductService {
	return &ProductService{
		products:   d.Products,
		brands:     d.Brands,
		categories: d.Categories,
		galleries:  d.Galleries,
		projector: &projector{
			images:     d.Images,
			properties: d.Properties,
			liked:      d.Liked,
			cart:       d.Cart,
			versus:     d.Versus,
		},
	}
}

// ProductRequest is the body for product create and update.
type ProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Details      string          `json:"details"`
	IsCash       *bool           `json:"is_cash"`
	Price        decimal.Decimal `json:"price"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	Country      string          `json:"country"`
	Brand        int64           `json:"brand" binding:"required"`
	Category     int64           `json:"category" binding:"required"`
	Gallery      *int64          `json:"gallery"`
}

// DiscountRequest sets the inline discount of a product. An empty request clears it.
type DiscountRequest struct {
	Percentage *int             `json:"discount_percentage"`
	Price      *decimal.Decimal `json:"discount_price"`
	ExpiresAt  *time.Time       `json:"discount_expires_at"`
}

// List returns a projected page of products.
func (s *ProductService) List(ctx context.Context, p policy.Principal, q repository.ProductQuery) (*Page[ProductView], error) {
	if err := authorize(p, policy.Unowned(policy.KindProduct), policy.Read); err != nil {
		return nil, err
	}
	products, total, err := s.products.List(ctx, q)
	if err != nil {
		return nil, err
	}
	views, err := s.projector.project(ctx, p, products)
	if err != nil {
		return nil, err
	}
	return &Page[ProductView]{Items: views, Total: total}, nil
}

// Get returns one projected product.
func (s *ProductService) Get(ctx context.Context, p policy.Principal, id int64) (*ProductView, error) {
	prod, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, utils.ErrProductNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindProduct, prod.UserID), policy.Read); err != nil {
		return nil, err
	}
	views, err := s.projector.project(ctx, p, []models.Product{*prod})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Filter applies the loosely typed filter params and returns every match projected.
func (s *ProductService) Filter(ctx context.Context, p policy.Principal, params map[string]interface{}) ([]ProductView, error) {
	if err := authorize(p, policy.Unowned(policy.KindProduct), policy.Read); err != nil {
		return nil, err
	}
	products, err := s.products.Filter(ctx, BuildProductFilter(params))
	if err != nil {
		return nil, err
	}
	return s.projector.project(ctx, p, products)
}

// Create lists a new product with the principal as seller.
func (s *ProductService) Create(ctx context.Context, p policy.Principal, req *ProductRequest) (*ProductView, error) {
	if err := authorize(p, policy.Owned(policy.KindProduct, p.UserID), policy.Write); err != nil {
		return nil, err
	}
	prod := &models.Product{UserID: p.UserID, IsCash: true}
	if err := s.apply(ctx, prod, req); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, prod); err != nil {
		return nil, err
	}
	return s.Get(ctx, p, prod.ID)
}

// Update rewrites a product. Seller or admin.
func (s *ProductService) Update(ctx context.Context, p policy.Principal, id int64, req *ProductRequest) (*ProductView, error) {
	prod, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, utils.ErrProductNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindProduct, prod.UserID), policy.Write); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, prod, req); err != nil {
		return nil, err
	}
	if prod.DiscountPrice.Valid && !prod.DiscountPrice.Decimal.LessThan(prod.Price) {
		return nil, utils.Validation("price must stay above the active discount price")
	}
	if err := s.products.Update(ctx, prod); err != nil {
		return nil, err
	}
	return s.Get(ctx, p, prod.ID)
}

// Delete removes a product. Seller or admin.
func (s *ProductService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	prod, err := s.products.GetByID(ctx, id)
	if err != nil {
		return notFound(err, utils.ErrProductNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindProduct, prod.UserID), policy.Delete); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

// SetDiscount sets or clears the inline discount of a product. Admin only.
// A percentage without an explicit price derives the price from it.
func (s *ProductService) SetDiscount(ctx context.Context, p policy.Principal, id int64, req *DiscountRequest) (*ProductView, error) {
	if err := authorize(p, policy.Unowned(policy.KindDiscount), policy.Write); err != nil {
		return nil, err
	}
	prod, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, utils.ErrProductNotFound)
	}

	var d repository.DiscountUpdate
	if req.Percentage != nil {
		if *req.Percentage < 1 || *req.Percentage > 99 {
			return nil, utils.Validation("discount_percentage must be between 1 and 99")
		}
		d.Percentage = req.Percentage
	}
	switch {
	case req.Price != nil:
		if req.Price.IsNegative() || !req.Price.LessThan(prod.Price) {
			return nil, utils.Validation("discount_price must be below price")
		}
		d.Price = decimal.NewNullDecimal(*req.Price)
	case req.Percentage != nil:
		off := decimal.NewFromInt(int64(100 - *req.Percentage)).Div(decimal.NewFromInt(100))
		derived := prod.Price.Mul(off).Round(2)
		if !derived.LessThan(prod.Price) {
			return nil, utils.Validation("discount_percentage leaves no discount on this price")
		}
		d.Price = decimal.NewNullDecimal(derived)
	}
	if req.ExpiresAt != nil {
		if d.Percentage == nil && !d.Price.Valid {
			return nil, utils.Validation("discount_expires_at requires a discount")
		}
		d.ExpiresAt = req.ExpiresAt
	}

	if err := s.products.UpdateDiscount(ctx, id, d); err != nil {
		return nil, err
	}
	return s.Get(ctx, p, id)
}

// apply validates req against the catalog and copies it onto prod.
func (s *ProductService) apply(ctx context.Context, prod *models.Product, req *ProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return utils.Validation("name is required")
	}
	if len(name) > 100 {
		return utils.Validation("name must be at most 100 characters")
	}
	if req.Price.IsNegative() || req.MonthlyPrice.IsNegative() {
		return utils.Validation("price must not be negative")
	}
	if _, err := s.brands.GetByID(ctx, req.Brand); err != nil {
		return notFound(err, utils.Validation("brand does not exist"))
	}
	if _, err := s.categories.GetByID(ctx, req.Category); err != nil {
		return notFound(err, utils.Validation("category does not exist"))
	}
	if req.Gallery != nil {
		if _, err := s.galleries.GetByID(ctx, *req.Gallery); err != nil {
			return notFound(err, utils.Validation("gallery does not exist"))
		}
	}

	prod.Name = name
	prod.Details = req.Details
	if req.IsCash != nil {
		prod.IsCash = *req.IsCash
	}
	prod.Price = req.Price
	prod.MonthlyPrice = req.MonthlyPrice
	prod.Country = req.Country
	prod.BrandID = req.Brand
	prod.CategoryID = req.Category
	prod.GalleryID = req.Gallery
	return nil
}
