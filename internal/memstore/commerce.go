package memstore

import (
	"context"
	"maps"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/repository"
)

// Cart is the cart item table. Product name and price are joined live.
type Cart struct{ s *Store }

// Cart returns the cart item table.
func (s *Store) Cart() *Cart { return &Cart{s} }

func (s *Store) joinCart(c models.CartItem) models.CartItem {
	p := s.products[c.ProductID]
	c.ProductName, c.ProductPrice = p.Name, p.Price
	return c
}

func (t *Cart) ListByUser(_ context.Context, userID int64, params repository.ListParams) ([]models.CartItem, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	items := sorted(t.s.cart, func(c models.CartItem) bool {
		return c.UserID == userID && (params.Search == "" || contains(t.s.products[c.ProductID].Name, params.Search))
	})
	page, total := paginate(items, params)
	for i := range page {
		page[i] = t.s.joinCart(page[i])
	}
	return page, total, nil
}

func (t *Cart) GetByID(_ context.Context, id int64) (*models.CartItem, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	item, err := get(t.s.cart, id)
	if err != nil {
		return nil, err
	}
	*item = t.s.joinCart(*item)
	return item, nil
}

func (t *Cart) Create(_ context.Context, item *models.CartItem) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	item.ID = t.s.nextID()
	item.CreatedAt = now()
	t.s.cart[item.ID] = *item
	return nil
}

func (t *Cart) UpdateAmount(_ context.Context, id int64, amount int) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if item, ok := t.s.cart[id]; ok {
		item.Amount = amount
		t.s.cart[id] = item
	}
	return nil
}

func (t *Cart) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.cart, id)
	return nil
}

func (t *Cart) ProductsInCart(_ context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	want := idSet(productIDs)
	out := map[int64]bool{}
	for _, c := range t.s.cart {
		if c.UserID == userID && want[c.ProductID] {
			out[c.ProductID] = true
		}
	}
	return out, nil
}

// Checkout runs conversions against the store. A failed conversion restores
// the cart and order tables to their state before the call.
type Checkout struct{ s *Store }

// Checkout returns the checkout runner.
func (s *Store) Checkout() *Checkout { return &Checkout{s} }

func (c *Checkout) WithinTx(_ context.Context, fn func(repository.CheckoutTx) error) error {
	c.s.mu.Lock()
	cart, orders, items, seq := maps.Clone(c.s.cart), maps.Clone(c.s.orders), maps.Clone(c.s.orderItems), c.s.seq
	c.s.mu.Unlock()

	if err := fn(&checkoutTx{s: c.s}); err != nil {
		c.s.mu.Lock()
		c.s.cart, c.s.orders, c.s.orderItems, c.s.seq = cart, orders, items, seq
		c.s.mu.Unlock()
		return err
	}
	return nil
}

type checkoutTx struct{ s *Store }

func (t *checkoutTx) fail(op string) error {
	if t.s.Fail == nil {
		return nil
	}
	return t.s.Fail(op)
}

func (t *checkoutTx) CartItemsForUser(_ context.Context, userID int64, ids []int64) ([]models.CartItem, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	want := idSet(ids)
	items := sorted(t.s.cart, func(c models.CartItem) bool { return c.UserID == userID && want[c.ID] })
	for i := range items {
		items[i] = t.s.joinCart(items[i])
	}
	return items, nil
}

func (t *checkoutTx) CreateOrder(_ context.Context, o *models.Order) error {
	if err := t.fail("CreateOrder"); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	o.ID = t.s.nextID()
	o.CreatedAt = now()
	stored := *o
	stored.Items = nil
	t.s.orders[o.ID] = stored
	return nil
}

func (t *checkoutTx) CreateOrderItem(_ context.Context, item *models.OrderItem) error {
	if err := t.fail("CreateOrderItem"); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	item.ID = t.s.nextID()
	item.CreatedAt = now()
	t.s.orderItems[item.ID] = *item
	return nil
}

func (t *checkoutTx) UpdateOrderTotal(_ context.Context, orderID int64, total decimal.Decimal) error {
	if err := t.fail("UpdateOrderTotal"); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if o, ok := t.s.orders[orderID]; ok {
		o.TotalPrice = total
		t.s.orders[orderID] = o
	}
	return nil
}

func (t *checkoutTx) DeleteCartItems(_ context.Context, ids []int64) error {
	if err := t.fail("DeleteCartItems"); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, id := range ids {
		delete(t.s.cart, id)
	}
	return nil
}

// Orders is the order and order item table.
type Orders struct{ s *Store }

// Orders returns the order tables.
func (s *Store) Orders() *Orders { return &Orders{s} }

func (t *Orders) itemWithOwner(it models.OrderItem) models.OrderItem {
	it.OwnerID = t.s.orders[it.OrderID].UserID
	return it
}

func (t *Orders) ListByUser(_ context.Context, userID int64, params repository.ListParams) ([]models.Order, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	orders := sorted(t.s.orders, func(o models.Order) bool {
		if o.UserID != userID {
			return false
		}
		return params.Search == "" || contains(o.FirstName, params.Search) ||
			contains(o.LastName, params.Search) || contains(o.PhoneNumber, params.Search)
	})
	reverse(orders)
	page, total := paginate(orders, params)
	return page, total, nil
}

func (t *Orders) GetByID(_ context.Context, id int64) (*models.Order, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return get(t.s.orders, id)
}

func (t *Orders) Items(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	items := sorted(t.s.orderItems, func(it models.OrderItem) bool { return it.OrderID == orderID })
	for i := range items {
		items[i] = t.itemWithOwner(items[i])
	}
	return items, nil
}

func (t *Orders) UpdateRecipient(_ context.Context, id int64, rec models.OrderRecipient) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if o, ok := t.s.orders[id]; ok {
		o.FirstName, o.LastName, o.PhoneNumber = rec.FirstName, rec.LastName, rec.PhoneNumber
		o.Region, o.City, o.Address, o.PaymentType = rec.Region, rec.City, rec.Address, rec.PaymentType
		t.s.orders[id] = o
	}
	return nil
}

func (t *Orders) UpdateStatus(_ context.Context, id int64, status models.OrderStatus) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if o, ok := t.s.orders[id]; ok {
		o.Status = status
		t.s.orders[id] = o
	}
	return nil
}

func (t *Orders) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.orders, id)
	deleteWhere(t.s.orderItems, func(it models.OrderItem) bool { return it.OrderID == id })
	return nil
}

func (t *Orders) ListItemsByUser(_ context.Context, userID int64, orderID *int64, params repository.ListParams) ([]models.OrderItem, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	items := sorted(t.s.orderItems, func(it models.OrderItem) bool {
		return t.s.orders[it.OrderID].UserID == userID && (orderID == nil || it.OrderID == *orderID)
	})
	page, total := paginate(items, params)
	for i := range page {
		page[i] = t.itemWithOwner(page[i])
	}
	return page, total, nil
}

func (t *Orders) GetItem(_ context.Context, id int64) (*models.OrderItem, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	it, err := get(t.s.orderItems, id)
	if err != nil {
		return nil, err
	}
	*it = t.itemWithOwner(*it)
	return it, nil
}

// OrderCount returns the number of stored orders.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// OrderItemCount returns the number of stored order items.
func (s *Store) OrderItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orderItems)
}
