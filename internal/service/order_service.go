package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/market_api/internal/metrics"
	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

var (
	errOrderNotFound     = utils.NotFound("ORDER_NOT_FOUND", "order not found")
	errOrderItemNotFound = utils.NotFound("ORDER_ITEM_NOT_FOUND", "order item not found")
)

// OrderService converts carts into orders and serves them back to their owner.
type OrderService struct {
	checkout CheckoutStore
	orders   OrderStore
	events   OrderEvents
}

// NewOrderService constructs an OrderService. events may be nil.
func NewOrderService(checkout CheckoutStore, orders OrderStore, events OrderEvents) *OrderService {
	return &OrderService{checkout: checkout, orders: orders, events: events}
}

// PlaceOrderRequest is the body of POST /orders/create.
type PlaceOrderRequest struct {
	CartItemIDs []int64 `json:"cart_item_ids"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber string  `json:"phone_number"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	PaymentType string  `json:"payment_type"`
}

// UpdateOrderRequest carries recipient changes. Nil fields are kept.
type UpdateOrderRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Region      *string `json:"region"`
	City        *string `json:"city"`
	Address     *string `json:"address"`
	PaymentType *string `json:"payment_type"`
}

func (r *PlaceOrderRequest) recipient() models.OrderRecipient {
	return models.OrderRecipient{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		PhoneNumber: strings.TrimSpace(r.PhoneNumber),
		Region:      strings.TrimSpace(r.Region),
		City:        strings.TrimSpace(r.City),
		Address:     strings.TrimSpace(r.Address),
		PaymentType: strings.TrimSpace(r.PaymentType),
	}
}

func validateRecipient(rec models.OrderRecipient) error {
	switch {
	case rec.FirstName == "", rec.LastName == "":
		return utils.Validation("first_name and last_name are required")
	case rec.PhoneNumber == "":
		return utils.Validation("phone_number is required")
	case rec.Address == "":
		return utils.Validation("address is required")
	case rec.PaymentType == "":
		return utils.Validation("payment_type is required")
	}
	return nil
}

// Place converts the referenced cart items of the principal into an order.
// Ids that are unknown or belong to someone else are dropped. The order, its
// items, the total and the cart deletion commit together or not at all.
func (s *OrderService) Place(ctx context.Context, p policy.Principal, req *PlaceOrderRequest) (*models.Order, error) {
	if err := authorize(p, policy.Owned(policy.KindOrder, p.UserID), policy.Write); err != nil {
		return nil, err
	}
	rec := req.recipient()
	if err := validateRecipient(rec); err != nil {
		return nil, err
	}
	ids := uniqueIDs(req.CartItemIDs)
	if len(ids) == 0 {
		return nil, utils.ErrNoValidCartItems
	}

	var order *models.Order
	err := s.checkout.WithinTx(ctx, func(tx repository.CheckoutTx) error {
		items, err := tx.CartItemsForUser(ctx, p.UserID, ids)
		if err != nil {
			return err
		}
		items = policy.Filter(p, policy.KindCartItem, policy.Read, items, cartOwner)
		if len(items) == 0 {
			return utils.ErrNoValidCartItems
		}

		o := &models.Order{
			UserID:      p.UserID,
			FirstName:   rec.FirstName,
			LastName:    rec.LastName,
			PhoneNumber: rec.PhoneNumber,
			Region:      rec.Region,
			City:        rec.City,
			Address:     rec.Address,
			PaymentType: rec.PaymentType,
			TotalPrice:  decimal.Zero,
			Status:      models.OrderStatusCollecting,
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		total := decimal.Zero
		consumed := make([]int64, 0, len(items))
		for _, ci := range items {
			line := ci.LineTotal()
			productID := ci.ProductID
			item := models.OrderItem{
				OrderID:     o.ID,
				ProductID:   &productID,
				ProductName: ci.ProductName,
				Amount:      ci.Amount,
				UnitPrice:   ci.ProductPrice,
				TotalPrice:  line,
				OwnerID:     p.UserID,
			}
			if err := tx.CreateOrderItem(ctx, &item); err != nil {
				return err
			}
			o.Items = append(o.Items, item)
			total = total.Add(line)
			consumed = append(consumed, ci.ID)
		}

		if err := tx.UpdateOrderTotal(ctx, o.ID, total); err != nil {
			return err
		}
		o.TotalPrice = total

		if err := tx.DeleteCartItems(ctx, consumed); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordOrderPlaced()
	log.Info().
		Int64("order_id", order.ID).
		Int64("user_id", p.UserID).
		Int("items", len(order.Items)).
		Str("total", order.TotalPrice.StringFixed(2)).
		Msg("Order placed")

	if s.events != nil {
		if err := s.events.OrderPlaced(ctx, order); err != nil {
			metrics.RecordOrderEventFailure()
			log.Error().Err(err).Int64("order_id", order.ID).Msg("Failed to publish order event")
		}
	}
	return order, nil
}

func orderOwner(o models.Order) int64          { return o.UserID }
func orderItemOwner(it models.OrderItem) int64 { return it.OwnerID }

// List returns a page of the principal's orders.
func (s *OrderService) List(ctx context.Context, p policy.Principal, params repository.ListParams) (*Page[models.Order], error) {
	if err := authorize(p, policy.Owned(policy.KindOrder, p.UserID), policy.Read); err != nil {
		return nil, err
	}
	orders, total, err := s.orders.ListByUser(ctx, p.UserID, params)
	if err != nil {
		return nil, err
	}
	orders = policy.Filter(p, policy.KindOrder, policy.Read, orders, orderOwner)
	return &Page[models.Order]{Items: orders, Total: total}, nil
}

// Get returns one of the principal's orders with its items.
func (s *OrderService) Get(ctx context.Context, p policy.Principal, id int64) (*models.Order, error) {
	o, err := s.load(ctx, p, id, policy.KindOrder, policy.Read)
	if err != nil {
		return nil, err
	}
	if o.Items, err = s.orders.Items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateRecipient changes delivery details. Total and status stay server-owned.
func (s *OrderService) UpdateRecipient(ctx context.Context, p policy.Principal, id int64, req *UpdateOrderRequest) (*models.Order, error) {
	o, err := s.load(ctx, p, id, policy.KindOrder, policy.Write)
	if err != nil {
		return nil, err
	}
	setString(&o.FirstName, req.FirstName)
	setString(&o.LastName, req.LastName)
	setString(&o.PhoneNumber, req.PhoneNumber)
	setString(&o.Region, req.Region)
	setString(&o.City, req.City)
	setString(&o.Address, req.Address)
	setString(&o.PaymentType, req.PaymentType)

	rec := models.OrderRecipient{
		FirstName:   strings.TrimSpace(o.FirstName),
		LastName:    strings.TrimSpace(o.LastName),
		PhoneNumber: strings.TrimSpace(o.PhoneNumber),
		Region:      strings.TrimSpace(o.Region),
		City:        strings.TrimSpace(o.City),
		Address:     strings.TrimSpace(o.Address),
		PaymentType: strings.TrimSpace(o.PaymentType),
	}
	if err := validateRecipient(rec); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateRecipient(ctx, o.ID, rec); err != nil {
		return nil, err
	}
	return s.Get(ctx, p, o.ID)
}

// UpdateStatus moves an order along its lifecycle. Admin only.
func (s *OrderService) UpdateStatus(ctx context.Context, p policy.Principal, id int64, status models.OrderStatus) (*models.Order, error) {
	if err := authorize(p, policy.Unowned(policy.KindOrderStatus), policy.Write); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, utils.Validation("status must be one of collecting, delivering, delivered, handed_over")
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errOrderNotFound)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	o.Status = status
	log.Info().Int64("order_id", id).Str("status", string(status)).Msg("Order status updated")
	return o, nil
}

// Delete removes one of the principal's orders.
func (s *OrderService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	if _, err := s.load(ctx, p, id, policy.KindOrder, policy.Delete); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

// ListItems returns a page of order items across the principal's orders,
// optionally for one order.
func (s *OrderService) ListItems(ctx context.Context, p policy.Principal, orderID *int64, params repository.ListParams) (*Page[models.OrderItem], error) {
	if err := authorize(p, policy.Owned(policy.KindOrderItem, p.UserID), policy.Read); err != nil {
		return nil, err
	}
	if orderID != nil {
		if _, err := s.load(ctx, p, *orderID, policy.KindOrderItem, policy.Read); err != nil {
			return nil, err
		}
	}
	items, total, err := s.orders.ListItemsByUser(ctx, p.UserID, orderID, params)
	if err != nil {
		return nil, err
	}
	items = policy.Filter(p, policy.KindOrderItem, policy.Read, items, orderItemOwner)
	return &Page[models.OrderItem]{Items: items, Total: total}, nil
}

// GetItem returns one order item of the principal.
func (s *OrderService) GetItem(ctx context.Context, p policy.Principal, id int64) (*models.OrderItem, error) {
	if !p.Authenticated() {
		return nil, utils.Unauthorized(policy.ReasonAuthRequired)
	}
	item, err := s.orders.GetItem(ctx, id)
	if err != nil {
		return nil, notFound(err, errOrderItemNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindOrderItem, item.OwnerID), policy.Read); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *OrderService) load(ctx context.Context, p policy.Principal, id int64, kind policy.Kind, op policy.Operation) (*models.Order, error) {
	if !p.Authenticated() {
		return nil, utils.Unauthorized(policy.ReasonAuthRequired)
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errOrderNotFound)
	}
	if err := authorize(p, policy.Owned(kind, o.UserID), op); err != nil {
		return nil, err
	}
	return o, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
