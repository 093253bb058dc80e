package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/market_api/internal/models"
)

const cartSelect = `SELECT ci.*, p.name AS product_name, p.price AS product_price
	FROM cart_items ci JOIN products p ON p.id = ci.product_id`

// CartRepository handles data access for cart items.
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ListByUser returns a page of the user's cart with live product name and price.
func (r *CartRepository) ListByUser(ctx context.Context, userID int64, params ListParams) ([]models.CartItem, int, error) {
	params.Normalize()
	var c conditions
	c.add("ci.user_id = $%d", userID)
	if params.Search != "" {
		c.add("p.name ILIKE $%d", likePattern(params.Search))
	}

	var total int
	countQuery := `SELECT COUNT(1) FROM cart_items ci JOIN products p ON p.id = ci.product_id` + c.where()
	if err := r.db.GetContext(ctx, &total, countQuery, c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	items := []models.CartItem{}
	if err := r.db.SelectContext(ctx, &items, cartSelect+c.where()+` ORDER BY ci.id`+limit, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID returns a cart item or sql.ErrNoRows.
func (r *CartRepository) GetByID(ctx context.Context, id int64) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.GetContext(ctx, &item, cartSelect+` WHERE ci.id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a cart item. A second row for the same product is allowed.
func (r *CartRepository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, amount) VALUES ($1, $2, $3) RETURNING id, created_at`,
		item.UserID, item.ProductID, item.Amount,
	).Scan(&item.ID, &item.CreatedAt)
}

// UpdateAmount changes the amount of a cart item.
func (r *CartRepository) UpdateAmount(ctx context.Context, id int64, amount int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE cart_items SET amount = $2 WHERE id = $1`, id, amount)
	return err
}

// Delete removes a cart item.
func (r *CartRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	return err
}

// ProductsInCart reports which of productIDs appear in the user's cart.
func (r *CartRepository) ProductsInCart(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if len(productIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT DISTINCT product_id FROM cart_items WHERE user_id = $1 AND product_id = ANY($2)`,
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
