package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/market_api/internal/models"
)

// BrandRepository handles data access for brands.
type BrandRepository struct {
	db *sqlx.DB
}

// NewBrandRepository creates a new BrandRepository.
func NewBrandRepository(db *sqlx.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

// List returns a page of brands, optionally filtered by name.
func (r *BrandRepository) List(ctx context.Context, params ListParams) ([]models.Brand, int, error) {
	params.Normalize()
	var c conditions
	if params.Search != "" {
		c.add("name ILIKE $%d", likePattern(params.Search))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM brands`+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	brands := []models.Brand{}
	if err := r.db.SelectContext(ctx, &brands, `SELECT * FROM brands`+c.where()+` ORDER BY name`+limit, args...); err != nil {
		return nil, 0, err
	}
	return brands, total, nil
}

// GetByID returns a brand by id or sql.ErrNoRows.
func (r *BrandRepository) GetByID(ctx context.Context, id int64) (*models.Brand, error) {
	var b models.Brand
	if err := r.db.GetContext(ctx, &b, `SELECT * FROM brands WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a brand.
func (r *BrandRepository) Create(ctx context.Context, b *models.Brand) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO brands (name) VALUES ($1) RETURNING id, created_at`, b.Name,
	).Scan(&b.ID, &b.CreatedAt)
}

// Update renames a brand.
func (r *BrandRepository) Update(ctx context.Context, b *models.Brand) error {
	_, err := r.db.ExecContext(ctx, `UPDATE brands SET name = $2 WHERE id = $1`, b.ID, b.Name)
	return err
}

// Delete removes a brand.
func (r *BrandRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	return err
}
