package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/market_api/internal/database"
	"github.com/GTDGit/market_api/internal/models"
)

// CheckoutTx is the set of writes that turn a cart into an order. Every call
// made through one CheckoutTx belongs to the same transaction.
type CheckoutTx interface {
	CartItemsForUser(ctx context.Context, userID int64, ids []int64) ([]models.CartItem, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
	UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	DeleteCartItems(ctx context.Context, ids []int64) error
}

// CheckoutRepository runs cart conversions in a database transaction.
type CheckoutRepository struct {
	db *sqlx.DB
}

// NewCheckoutRepository creates a new CheckoutRepository.
func NewCheckoutRepository(db *sqlx.DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// WithinTx calls fn with a transactional CheckoutTx. fn returning an error
// rolls back every write made through it.
func (r *CheckoutRepository) WithinTx(ctx context.Context, fn func(CheckoutTx) error) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&checkoutTx{tx: tx})
	})
}

type checkoutTx struct {
	tx *sqlx.Tx
}

// CartItemsForUser resolves ids to cart rows owned by userID, reading the
// product price once. Unknown and foreign ids are dropped.
func (t *checkoutTx) CartItemsForUser(ctx context.Context, userID int64, ids []int64) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if len(ids) == 0 {
		return items, nil
	}
	err := t.tx.SelectContext(ctx, &items,
		cartSelect+` WHERE ci.user_id = $1 AND ci.id = ANY($2) ORDER BY ci.id FOR UPDATE OF ci`,
		userID, pq.Array(ids),
	)
	return items, err
}

func (t *checkoutTx) CreateOrder(ctx context.Context, o *models.Order) error {
	const q = `
		INSERT INTO orders (user_id, first_name, last_name, phone_number, region, city, address, payment_type, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
	return t.tx.QueryRowxContext(ctx, q,
		o.UserID, o.FirstName, o.LastName, o.PhoneNumber, o.Region, o.City, o.Address,
		o.PaymentType, o.TotalPrice, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
}

func (t *checkoutTx) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	const q = `
		INSERT INTO order_items (order_id, product_id, product_name, amount, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return t.tx.QueryRowxContext(ctx, q,
		item.OrderID, item.ProductID, item.ProductName, item.Amount, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID, &item.CreatedAt)
}

func (t *checkoutTx) UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE orders SET total_price = $2 WHERE id = $1`, orderID, total)
	return err
}

func (t *checkoutTx) DeleteCartItems(ctx context.Context, ids []int64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ANY($1)`, pq.Array(ids))
	return err
}
