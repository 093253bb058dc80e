package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/market_api/internal/models"
)

const imageSelect = `SELECT i.*, p.user_id AS owner_id FROM images i JOIN products p ON p.id = i.product_id`

// ImageRepository handles data access for product images.
type ImageRepository struct {
	db *sqlx.DB
}

// NewImageRepository creates a new ImageRepository.
func NewImageRepository(db *sqlx.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// List returns a page of images, optionally restricted to one product.
func (r *ImageRepository) List(ctx context.Context, productID *int64, params ListParams) ([]models.Image, int, error) {
	params.Normalize()
	var c conditions
	if productID != nil {
		c.add("i.product_id = $%d", *productID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM images i`+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	images := []models.Image{}
	if err := r.db.SelectContext(ctx, &images, imageSelect+c.where()+` ORDER BY i.id`+limit, args...); err != nil {
		return nil, 0, err
	}
	return images, total, nil
}

// ListByProducts returns the images of every product in ids, in insertion order.
func (r *ImageRepository) ListByProducts(ctx context.Context, ids []int64) ([]models.Image, error) {
	images := []models.Image{}
	if len(ids) == 0 {
		return images, nil
	}
	err := r.db.SelectContext(ctx, &images, imageSelect+` WHERE i.product_id = ANY($1) ORDER BY i.id`, pq.Array(ids))
	return images, err
}

// GetByID returns an image with its owner or sql.ErrNoRows.
func (r *ImageRepository) GetByID(ctx context.Context, id int64) (*models.Image, error) {
	var img models.Image
	if err := r.db.GetContext(ctx, &img, imageSelect+` WHERE i.id = $1`, id); err != nil {
		return nil, err
	}
	return &img, nil
}

// Create inserts an image.
func (r *ImageRepository) Create(ctx context.Context, img *models.Image) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO images (product_id, url, main) VALUES ($1, $2, $3) RETURNING id, created_at`,
		img.ProductID, img.URL, img.Main,
	).Scan(&img.ID, &img.CreatedAt)
}

// Update writes url and main flag of img.
func (r *ImageRepository) Update(ctx context.Context, img *models.Image) error {
	_, err := r.db.ExecContext(ctx, `UPDATE images SET url = $2, main = $3 WHERE id = $1`, img.ID, img.URL, img.Main)
	return err
}

// Delete removes an image.
func (r *ImageRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	return err
}
