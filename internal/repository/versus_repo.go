package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/market_api/internal/models"
)

// VersusRepository handles data access for comparison list items.
type VersusRepository struct {
	db *sqlx.DB
}

// NewVersusRepository creates a new VersusRepository.
func NewVersusRepository(db *sqlx.DB) *VersusRepository {
	return &VersusRepository{db: db}
}

// GetOrCreate inserts item unless the user already compares the product, in
// which case item is overwritten with the stored row and its original
// category snapshot. created reports whether this call inserted the row.
func (r *VersusRepository) GetOrCreate(ctx context.Context, item *models.VersusItem) (bool, error) {
	err := r.db.GetContext(ctx, item, `
		INSERT INTO versus_items (user_id, product_id, category_id, category_name) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id) DO NOTHING
		RETURNING *`, item.UserID, item.ProductID, item.CategoryID, item.CategoryName)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	err = r.db.GetContext(ctx, item, `SELECT * FROM versus_items WHERE user_id = $1 AND product_id = $2`, item.UserID, item.ProductID)
	return false, err
}

// ListByUser returns every comparison item of the user in insertion order.
func (r *VersusRepository) ListByUser(ctx context.Context, userID int64) ([]models.VersusItem, error) {
	items := []models.VersusItem{}
	err := r.db.SelectContext(ctx, &items, `SELECT * FROM versus_items WHERE user_id = $1 ORDER BY id`, userID)
	return items, err
}

// GetByID returns a comparison item or sql.ErrNoRows.
func (r *VersusRepository) GetByID(ctx context.Context, id int64) (*models.VersusItem, error) {
	var item models.VersusItem
	if err := r.db.GetContext(ctx, &item, `SELECT * FROM versus_items WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a comparison item.
func (r *VersusRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM versus_items WHERE id = $1`, id)
	return err
}

// ProductsInVersus reports which of productIDs are on the user's comparison list.
func (r *VersusRepository) ProductsInVersus(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if len(productIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT product_id FROM versus_items WHERE user_id = $1 AND product_id = ANY($2)`,
		userID, pq.Array(productIDs),
	)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
