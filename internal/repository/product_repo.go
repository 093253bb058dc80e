package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/market_api/internal/models"
)

// ProductQuery holds the filters of the plain product listing.
type ProductQuery struct {
	ListParams
	BrandID    *int64
	CategoryID *int64
	GalleryID  *int64
	Ordering   string
}

// ProductFilter is the typed form of the product filter predicate. Nil and
// empty fields are not applied. ID and name membership for the same field are
// mutually exclusive; the builder that produces a ProductFilter picks one.
type ProductFilter struct {
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	CategoryIDs   []int64
	CategoryNames []string
	BrandIDs      []int64
	BrandNames    []string
}

// DiscountUpdate sets or clears the inline discount of a product. All nil clears it.
type DiscountUpdate struct {
	Percentage *int
	Price      decimal.NullDecimal
	ExpiresAt  *time.Time
}

var productOrderings = map[string]string{
	"price":       "p.price ASC, p.id ASC",
	"-price":      "p.price DESC, p.id DESC",
	"created_at":  "p.created_at ASC, p.id ASC",
	"-created_at": "p.created_at DESC, p.id DESC",
}

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID returns a product by id or sql.ErrNoRows.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns a page of products and the total count for q. Search matches the
// product name or the brand name.
func (r *ProductRepository) List(ctx context.Context, q ProductQuery) ([]models.Product, int, error) {
	q.Normalize()
	var c conditions
	if q.BrandID != nil {
		c.add("p.brand_id = $%d", *q.BrandID)
	}
	if q.CategoryID != nil {
		c.add("p.category_id = $%d", *q.CategoryID)
	}
	if q.GalleryID != nil {
		c.add("p.gallery_id = $%d", *q.GalleryID)
	}
	if q.Search != "" {
		c.add("(p.name ILIKE $%[1]d OR b.name ILIKE $%[1]d)", likePattern(q.Search))
	}

	const from = ` FROM products p JOIN brands b ON b.id = p.brand_id`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1)`+from+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	order, ok := productOrderings[q.Ordering]
	if !ok {
		order = "p.id ASC"
	}
	limit, args := c.page(q.ListParams)
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, `SELECT p.*`+from+c.where()+` ORDER BY `+order+limit, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Filter returns every product matching f, ordered by id.
func (r *ProductRepository) Filter(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	var c conditions
	if f.MinPrice != nil {
		c.add("p.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		c.add("p.price <= $%d", *f.MaxPrice)
	}
	switch {
	case len(f.CategoryIDs) > 0:
		c.add("p.category_id = ANY($%d)", pq.Array(f.CategoryIDs))
	case len(f.CategoryNames) > 0:
		c.add("c.name = ANY($%d)", pq.Array(f.CategoryNames))
	}
	switch {
	case len(f.BrandIDs) > 0:
		c.add("p.brand_id = ANY($%d)", pq.Array(f.BrandIDs))
	case len(f.BrandNames) > 0:
		c.add("b.name = ANY($%d)", pq.Array(f.BrandNames))
	}

	q := `SELECT p.* FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id` + c.where() + ` ORDER BY p.id`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q, c.args...); err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a product without discount.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `
		INSERT INTO products (name, details, is_cash, price, monthly_price, country, brand_id, category_id, user_id, gallery_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q,
		p.Name, p.Details, p.IsCash, p.Price, p.MonthlyPrice, p.Country,
		p.BrandID, p.CategoryID, p.UserID, p.GalleryID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update writes the seller-editable fields of p. Owner and discount are untouched.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	const q = `
		UPDATE products
		SET name = $2, details = $3, is_cash = $4, price = $5, monthly_price = $6, country = $7,
		    brand_id = $8, category_id = $9, gallery_id = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, q,
		p.ID, p.Name, p.Details, p.IsCash, p.Price, p.MonthlyPrice, p.Country,
		p.BrandID, p.CategoryID, p.GalleryID,
	).Scan(&p.UpdatedAt)
}

// UpdateDiscount replaces the inline discount fields of product id.
func (r *ProductRepository) UpdateDiscount(ctx context.Context, id int64, d DiscountUpdate) error {
	const q = `
		UPDATE products
		SET discount_percentage = $2, discount_price = $3, discount_expires_at = $4, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, d.Percentage, d.Price, d.ExpiresAt)
	return err
}

// Delete removes a product with its images, properties and list entries.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}
