package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/market_api/internal/models"
)

const orderItemSelect = `SELECT oi.*, o.user_id AS owner_id FROM order_items oi JOIN orders o ON o.id = oi.order_id`

// OrderRepository handles read and maintenance access to placed orders.
// Orders are created only through CheckoutRepository.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ListByUser returns a page of the user's orders, newest first. Search matches
// recipient names and phone.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, params ListParams) ([]models.Order, int, error) {
	params.Normalize()
	var c conditions
	c.add("user_id = $%d", userID)
	if params.Search != "" {
		c.add("(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR phone_number ILIKE $%[1]d)", likePattern(params.Search))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM orders`+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	orders := []models.Order{}
	if err := r.db.SelectContext(ctx, &orders, `SELECT * FROM orders`+c.where()+` ORDER BY created_at DESC, id DESC`+limit, args...); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetByID returns an order without items or sql.ErrNoRows.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	if err := r.db.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// Items returns the frozen line items of an order.
func (r *OrderRepository) Items(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := r.db.SelectContext(ctx, &items, orderItemSelect+` WHERE oi.order_id = $1 ORDER BY oi.id`, orderID)
	return items, err
}

// UpdateRecipient writes the client-editable recipient fields.
func (r *OrderRepository) UpdateRecipient(ctx context.Context, id int64, rec models.OrderRecipient) error {
	const q = `
		UPDATE orders
		SET first_name = $2, last_name = $3, phone_number = $4, region = $5, city = $6, address = $7, payment_type = $8
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q,
		id, rec.FirstName, rec.LastName, rec.PhoneNumber, rec.Region, rec.City, rec.Address, rec.PaymentType,
	)
	return err
}

// UpdateStatus moves an order to status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	return err
}

// Delete removes an order and its items.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

// ListItemsByUser returns a page of order items across the user's orders,
// optionally for one order.
func (r *OrderRepository) ListItemsByUser(ctx context.Context, userID int64, orderID *int64, params ListParams) ([]models.OrderItem, int, error) {
	params.Normalize()
	var c conditions
	c.add("o.user_id = $%d", userID)
	if orderID != nil {
		c.add("oi.order_id = $%d", *orderID)
	}

	var total int
	countQuery := `SELECT COUNT(1) FROM order_items oi JOIN orders o ON o.id = oi.order_id` + c.where()
	if err := r.db.GetContext(ctx, &total, countQuery, c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	items := []models.OrderItem{}
	if err := r.db.SelectContext(ctx, &items, orderItemSelect+c.where()+` ORDER BY oi.id`+limit, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetItem returns one order item with its owner or sql.ErrNoRows.
func (r *OrderRepository) GetItem(ctx context.Context, id int64) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.GetContext(ctx, &item, orderItemSelect+` WHERE oi.id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}
