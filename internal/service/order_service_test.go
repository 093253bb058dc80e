package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

type recordingEvents struct {
	orders []int64
	err    error
}

func (r *recordingEvents) OrderPlaced(_ context.Context, o *models.Order) error {
	r.orders = append(r.orders, o.ID)
	return r.err
}

func placeRequest(ids ...int64) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		CartItemIDs: ids,
		FirstName:   "Alice",
		LastName:    "Doe",
		PhoneNumber: "+10000000",
		Region:      "North",
		City:        "Springfield",
		Address:     "1 Main St",
		PaymentType: "card",
	}
}

func TestPlaceOrderTotalsAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	events := &recordingEvents{}
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), events)

	a := f.product(t, f.bob, "Phone A", 10, f.phones.ID)
	b := f.product(t, f.bob, "Phone B", 5, f.phones.ID)
	l1 := f.cartItem(t, f.alice, a.ID, 2)
	l2 := f.cartItem(t, f.alice, b.ID, 3)

	order, err := svc.Place(ctx, f.alice, placeRequest(l1.ID, l2.ID))
	require.NoError(t, err)

	assertDecimal(t, 35, order.TotalPrice)
	assert.Equal(t, models.OrderStatusCollecting, order.Status)
	require.Len(t, order.Items, 2)
	assertDecimal(t, 20, order.Items[0].TotalPrice)
	assertDecimal(t, 15, order.Items[1].TotalPrice)

	_, remaining, err := f.store.Cart().ListByUser(ctx, f.alice.UserID, repository.ListParams{})
	require.NoError(t, err)
	assert.Zero(t, remaining)
	assert.Equal(t, []int64{order.ID}, events.orders)

	stored, err := svc.Get(ctx, f.alice, order.ID)
	require.NoError(t, err)
	assertDecimal(t, 35, stored.TotalPrice)
	assert.Len(t, stored.Items, 2)
}

func TestPlaceOrderFreezesPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), nil)

	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	line := f.cartItem(t, f.alice, prod.ID, 1)
	order, err := svc.Place(ctx, f.alice, placeRequest(line.ID))
	require.NoError(t, err)

	prod.Price = decimal.NewFromInt(99)
	require.NoError(t, f.store.Products().Update(ctx, &prod))

	item, err := svc.GetItem(ctx, f.alice, order.Items[0].ID)
	require.NoError(t, err)
	assertDecimal(t, 10, item.UnitPrice)
	assertDecimal(t, 10, item.TotalPrice)
	assert.Equal(t, "Phone", item.ProductName)
}

func TestOrderSurvivesProductDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), nil)

	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	line := f.cartItem(t, f.alice, prod.ID, 2)
	order, err := svc.Place(ctx, f.alice, placeRequest(line.ID))
	require.NoError(t, err)
	require.NotNil(t, order.Items[0].ProductID)
	assert.Equal(t, prod.ID, *order.Items[0].ProductID)

	require.NoError(t, f.productService().Delete(ctx, f.bob, prod.ID))

	stored, err := svc.Get(ctx, f.alice, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Nil(t, stored.Items[0].ProductID)
	assert.Equal(t, "Phone", stored.Items[0].ProductName)
	assertDecimal(t, 20, stored.Items[0].TotalPrice)
	assertDecimal(t, 20, stored.TotalPrice)
}

func TestPlaceOrderRejectsEmptySelection(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), nil)

	for _, ids := range [][]int64{nil, {}, {0, -3}} {
		_, err := svc.Place(context.Background(), f.alice, placeRequest(ids...))
		assert.ErrorIs(t, err, utils.ErrNoValidCartItems)
	}
	assert.Zero(t, f.store.OrderCount())
}

func TestPlaceOrderDropsForeignAndUnknownIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), nil)

	prod := f.product(t, f.admin, "Laptop", 100, f.laptops.ID)
	mine := f.cartItem(t, f.alice, prod.ID, 1)
	theirs := f.cartItem(t, f.bob, prod.ID, 4)

	order, err := svc.Place(ctx, f.alice, placeRequest(mine.ID, theirs.ID, 9999))
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assertDecimal(t, 100, order.TotalPrice)

	_, err = f.store.Cart().GetByID(ctx, theirs.ID)
	assert.NoError(t, err, "foreign cart line must survive")

	_, err = svc.Place(ctx, f.alice, placeRequest(theirs.ID))
	assert.ErrorIs(t, err, utils.ErrNoValidCartItems)
	assert.Equal(t, 1, f.store.OrderCount())
}

func TestPlaceOrderRollsBackOnItemFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), nil)

	a := f.product(t, f.bob, "A", 10, f.phones.ID)
	b := f.product(t, f.bob, "B", 5, f.phones.ID)
	l1 := f.cartItem(t, f.alice, a.ID, 2)
	l2 := f.cartItem(t, f.alice, b.ID, 3)

	boom := errors.New("disk full")
	writes := 0
	f.store.Fail = func(op string) error {
		if op == "CreateOrderItem" {
			writes++
			if writes == 2 {
				return boom
			}
		}
		return nil
	}

	_, err := svc.Place(ctx, f.alice, placeRequest(l1.ID, l2.ID))
	require.ErrorIs(t, err, boom)

	assert.Zero(t, f.store.OrderCount())
	assert.Zero(t, f.store.OrderItemCount())
	_, total, err := f.store.Cart().ListByUser(ctx, f.alice.UserID, repository.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestPlaceOrderSurvivesEventFailure(t *testing.T) {
	f := newFixture(t)
	events := &recordingEvents{err: errors.New("broker down")}
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), events)

	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	line := f.cartItem(t, f.alice, prod.ID, 1)

	order, err := svc.Place(context.Background(), f.alice, placeRequest(line.ID))
	require.NoError(t, err)
	assert.Equal(t, []int64{order.ID}, events.orders)
	assert.Equal(t, 1, f.store.OrderCount())
}

func TestPlaceOrderValidatesRecipient(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), nil)
	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	line := f.cartItem(t, f.alice, prod.ID, 1)

	req := placeRequest(line.ID)
	req.Address = "  "
	_, err := svc.Place(context.Background(), f.alice, req)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = svc.Place(context.Background(), f.anon, placeRequest(line.ID))
	assertStatus(t, err, http.StatusUnauthorized)
	assert.Zero(t, f.store.OrderCount())
}

func TestOrderAccessRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), nil)
	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	line := f.cartItem(t, f.alice, prod.ID, 1)
	order, err := svc.Place(ctx, f.alice, placeRequest(line.ID))
	require.NoError(t, err)

	_, err = svc.Get(ctx, f.bob, order.ID)
	assertStatus(t, err, http.StatusForbidden)
	_, err = svc.Get(ctx, f.admin, order.ID)
	assertStatus(t, err, http.StatusForbidden)
	_, err = svc.Get(ctx, f.anon, order.ID)
	assertStatus(t, err, http.StatusUnauthorized)
	_, err = svc.Get(ctx, f.alice, 424242)
	assertStatus(t, err, http.StatusNotFound)

	assertStatus(t, svc.Delete(ctx, f.bob, order.ID), http.StatusForbidden)
	_, err = svc.GetItem(ctx, f.bob, order.Items[0].ID)
	assertStatus(t, err, http.StatusForbidden)

	page, err := svc.List(ctx, f.bob, repository.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	items, err := svc.ListItems(ctx, f.alice, &order.ID, repository.ListParams{})
	require.NoError(t, err)
	assert.Len(t, items.Items, 1)
	_, err = svc.ListItems(ctx, f.bob, &order.ID, repository.ListParams{})
	assertStatus(t, err, http.StatusForbidden)
}

func TestUpdateRecipientKeepsServerFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), nil)
	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	line := f.cartItem(t, f.alice, prod.ID, 3)
	order, err := svc.Place(ctx, f.alice, placeRequest(line.ID))
	require.NoError(t, err)

	city := "Shelbyville"
	updated, err := svc.UpdateRecipient(ctx, f.alice, order.ID, &UpdateOrderRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", updated.City)
	assert.Equal(t, "Alice", updated.FirstName)
	assertDecimal(t, 30, updated.TotalPrice)
	assert.Equal(t, models.OrderStatusCollecting, updated.Status)

	empty := ""
	_, err = svc.UpdateRecipient(ctx, f.alice, order.ID, &UpdateOrderRequest{PhoneNumber: &empty})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestUpdateStatusIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOrderService(f.store.Checkout(), f.store.Orders(), nil)
	prod := f.product(t, f.bob, "Phone", 10, f.phones.ID)
	line := f.cartItem(t, f.alice, prod.ID, 1)
	order, err := svc.Place(ctx, f.alice, placeRequest(line.ID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, f.alice, order.ID, models.OrderStatusDelivered)
	assertStatus(t, err, http.StatusForbidden)
	_, err = svc.UpdateStatus(ctx, f.admin, order.ID, models.OrderStatus("shipped"))
	assertStatus(t, err, http.StatusBadRequest)
	_, err = svc.UpdateStatus(ctx, f.admin, 777, models.OrderStatusDelivered)
	assertStatus(t, err, http.StatusNotFound)

	updated, err := svc.UpdateStatus(ctx, f.admin, order.ID, models.OrderStatusDelivering)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivering, updated.Status)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1}, uniqueIDs([]int64{3, 0, 1, 3, -2, 1}))
	assert.Empty(t, uniqueIDs(nil))
}
