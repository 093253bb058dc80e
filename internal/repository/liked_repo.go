package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/market_api/internal/models"
)

// LikedRepository handles data access for liked items.
type LikedRepository struct {
	db *sqlx.DB
}

// NewLikedRepository creates a new LikedRepository.
func NewLikedRepository(db *sqlx.DB) *LikedRepository {
	return &LikedRepository{db: db}
}

// GetOrCreate returns the user's liked row for productID, inserting it when
// missing. created reports whether this call inserted the row.
func (r *LikedRepository) GetOrCreate(ctx context.Context, userID, productID int64) (*models.LikedItem, bool, error) {
	var item models.LikedItem
	err := r.db.GetContext(ctx, &item, `
		INSERT INTO liked_items (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
		RETURNING *`, userID, productID)
	if err == nil {
		return &item, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}
	err = r.db.GetContext(ctx, &item, `SELECT * FROM liked_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return nil, false, err
	}
	return &item, false, nil
}

// ListByUser returns a page of the user's liked items, newest first.
func (r *LikedRepository) ListByUser(ctx context.Context, userID int64, params ListParams) ([]models.LikedItem, int, error) {
	params.Normalize()
	var c conditions
	c.add("user_id = $%d", userID)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM liked_items`+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	items := []models.LikedItem{}
	if err := r.db.SelectContext(ctx, &items, `SELECT * FROM liked_items`+c.where()+` ORDER BY id DESC`+limit, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID returns a liked item or sql.ErrNoRows.
func (r *LikedRepository) GetByID(ctx context.Context, id int64) (*models.LikedItem, error) {
	var item models.LikedItem
	if err := r.db.GetContext(ctx, &item, `SELECT * FROM liked_items WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a liked item.
func (r *LikedRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM liked_items WHERE id = $1`, id)
	return err
}

// LikedByProduct maps each of productIDs the user liked to its liked item id.
func (r *LikedRepository) LikedByProduct(ctx context.Context, userID int64, productIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64)
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ID        int64 `db:"id"`
		ProductID int64 `db:"product_id"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, product_id FROM liked_items WHERE user_id = $1 AND product_id = ANY($2)`,
		userID, pq.Array(productIDs),
	)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = row.ID
	}
	return out, nil
}
