package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/market_api/internal/models"
)

// GalleryRepository handles data access for galleries.
type GalleryRepository struct {
	db *sqlx.DB
}

// NewGalleryRepository creates a new GalleryRepository.
func NewGalleryRepository(db *sqlx.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// List returns a page of galleries.
func (r *GalleryRepository) List(ctx context.Context, params ListParams) ([]models.Gallery, int, error) {
	params.Normalize()
	var c conditions
	if params.Search != "" {
		c.add("name ILIKE $%d", likePattern(params.Search))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM galleries`+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	galleries := []models.Gallery{}
	if err := r.db.SelectContext(ctx, &galleries, `SELECT * FROM galleries`+c.where()+` ORDER BY id`+limit, args...); err != nil {
		return nil, 0, err
	}
	return galleries, total, nil
}

// GetByID returns a gallery by id or sql.ErrNoRows.
func (r *GalleryRepository) GetByID(ctx context.Context, id int64) (*models.Gallery, error) {
	var g models.Gallery
	if err := r.db.GetContext(ctx, &g, `SELECT * FROM galleries WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a gallery.
func (r *GalleryRepository) Create(ctx context.Context, g *models.Gallery) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO galleries (name, images) VALUES ($1, $2) RETURNING id, created_at`,
		g.Name, g.Images,
	).Scan(&g.ID, &g.CreatedAt)
}

// Update writes name and images of g.
func (r *GalleryRepository) Update(ctx context.Context, g *models.Gallery) error {
	_, err := r.db.ExecContext(ctx, `UPDATE galleries SET name = $2, images = $3 WHERE id = $1`, g.ID, g.Name, g.Images)
	return err
}

// Delete removes a gallery; products referencing it keep existing without one.
func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM galleries WHERE id = $1`, id)
	return err
}
