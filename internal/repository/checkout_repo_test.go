package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/market_api/internal/models"
)

var cartColumns = []string{"id", "user_id", "product_id", "amount", "created_at", "product_name", "product_price"}

func TestCheckoutCommitsAllWrites(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckoutRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE ci\.user_id = \$1 AND ci\.id = ANY\(\$2\) ORDER BY ci\.id FOR UPDATE OF ci`).
		WithArgs(int64(1), pq.Array([]int64{10, 99})).
		WillReturnRows(sqlmock.NewRows(cartColumns).AddRow(int64(10), int64(1), int64(5), 2, now, "Phone", "10.00"))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(7), int64(5), "Phone", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(70), now))
	mock.ExpectExec(`UPDATE orders SET total_price = \$2 WHERE id = \$1`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM cart_items WHERE id = ANY\(\$1\)`).
		WithArgs(pq.Array([]int64{10})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithinTx(context.Background(), func(tx CheckoutTx) error {
		items, err := tx.CartItemsForUser(context.Background(), 1, []int64{10, 99})
		if err != nil {
			return err
		}
		require.Len(t, items, 1)

		order := &models.Order{UserID: 1, Status: models.OrderStatusCollecting}
		if err := tx.CreateOrder(context.Background(), order); err != nil {
			return err
		}
		line := items[0].LineTotal()
		if err := tx.CreateOrderItem(context.Background(), &models.OrderItem{
			OrderID: order.ID, ProductID: &items[0].ProductID, ProductName: items[0].ProductName,
			Amount: items[0].Amount, UnitPrice: items[0].ProductPrice, TotalPrice: line,
		}); err != nil {
			return err
		}
		assert.True(t, line.Equal(decimal.NewFromInt(20)))
		if err := tx.UpdateOrderTotal(context.Background(), order.ID, line); err != nil {
			return err
		}
		return tx.DeleteCartItems(context.Background(), []int64{items[0].ID})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRollsBackOnItemFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckoutRepository(db)
	now := time.Now()
	boom := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))
	mock.ExpectQuery(`INSERT INTO order_items`).WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.WithinTx(context.Background(), func(tx CheckoutTx) error {
		order := &models.Order{UserID: 1, Status: models.OrderStatusCollecting}
		if err := tx.CreateOrder(context.Background(), order); err != nil {
			return err
		}
		return tx.CreateOrderItem(context.Background(), &models.OrderItem{OrderID: order.ID, Amount: 1})
	})
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartItemsForUserSkipsQueryForNoIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckoutRepository(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := repo.WithinTx(context.Background(), func(tx CheckoutTx) error {
		items, err := tx.CartItemsForUser(context.Background(), 1, nil)
		assert.Empty(t, items)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
