package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/market_api/internal/models"
)

// CategoryRepository handles data access for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns a page of categories, optionally filtered by name.
func (r *CategoryRepository) List(ctx context.Context, params ListParams) ([]models.Category, int, error) {
	params.Normalize()
	var c conditions
	if params.Search != "" {
		c.add("name ILIKE $%d", likePattern(params.Search))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM categories`+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, `SELECT * FROM categories`+c.where()+` ORDER BY name`+limit, args...); err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// GetByID returns a category by id or sql.ErrNoRows.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var cat models.Category
	if err := r.db.GetContext(ctx, &cat, `SELECT * FROM categories WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create inserts a category.
func (r *CategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO categories (name, image_url, icon_url) VALUES ($1, $2, $3) RETURNING id, created_at`,
		cat.Name, cat.ImageURL, cat.IconURL,
	).Scan(&cat.ID, &cat.CreatedAt)
}

// Update writes every field of cat.
func (r *CategoryRepository) Update(ctx context.Context, cat *models.Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $2, image_url = $3, icon_url = $4 WHERE id = $1`,
		cat.ID, cat.Name, cat.ImageURL, cat.IconURL,
	)
	return err
}

// Delete removes a category and its products.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}
