package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

var errCartItemNotFound = utils.NotFound("CART_ITEM_NOT_FOUND", "cart item not found")

// maxCartAmount keeps amounts and their line totals inside the INTEGER column.
const maxCartAmount = 10000

func checkAmount(amount int) error {
	if amount <= 0 || amount > maxCartAmount {
		return utils.Validation(fmt.Sprintf("amount must be between 1 and %d", maxCartAmount))
	}
	return nil
}

// CartService manages the principal's cart.
type CartService struct {
	cart     CartStore
	products ProductStore
}

// NewCartService constructs a CartService.
func NewCartService(cart CartStore, products ProductStore) *CartService {
	return &CartService{cart: cart, products: products}
}

// CartItemRequest is the body for cart item create and update.
type CartItemRequest struct {
	Product int64 `json:"product"`
	Amount  int   `json:"amount"`
}

// CartLine is a cart item with its live line total.
type CartLine struct {
	models.CartItem
	TotalPrice decimal.Decimal `json:"total_price"`
}

func cartLine(item models.CartItem) CartLine {
	return CartLine{CartItem: item, TotalPrice: item.LineTotal()}
}

func cartOwner(item models.CartItem) int64 { return item.UserID }

// List returns a page of the principal's cart.
func (s *CartService) List(ctx context.Context, p policy.Principal, params repository.ListParams) (*Page[CartLine], error) {
	if err := authorize(p, policy.Owned(policy.KindCartItem, p.UserID), policy.Read); err != nil {
		return nil, err
	}
	items, total, err := s.cart.ListByUser(ctx, p.UserID, params)
	if err != nil {
		return nil, err
	}
	items = policy.Filter(p, policy.KindCartItem, policy.Read, items, cartOwner)
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, cartLine(item))
	}
	return &Page[CartLine]{Items: lines, Total: total}, nil
}

// Get returns one of the principal's cart items.
func (s *CartService) Get(ctx context.Context, p policy.Principal, id int64) (*CartLine, error) {
	item, err := s.load(ctx, p, id, policy.Read)
	if err != nil {
		return nil, err
	}
	line := cartLine(*item)
	return &line, nil
}

// Create puts a product into the principal's cart. Adding a product that is
// already in the cart creates a second line.
func (s *CartService) Create(ctx context.Context, p policy.Principal, req *CartItemRequest) (*CartLine, error) {
	if err := authorize(p, policy.Owned(policy.KindCartItem, p.UserID), policy.Write); err != nil {
		return nil, err
	}
	if req.Product == 0 {
		return nil, utils.ErrProductRequired
	}
	if err := checkAmount(req.Amount); err != nil {
		return nil, err
	}
	prod, err := s.products.GetByID(ctx, req.Product)
	if err != nil {
		return nil, notFound(err, utils.ErrProductNotFound)
	}

	item := &models.CartItem{
		UserID:       p.UserID,
		ProductID:    prod.ID,
		Amount:       req.Amount,
		ProductName:  prod.Name,
		ProductPrice: prod.Price,
	}
	if err := s.cart.Create(ctx, item); err != nil {
		return nil, err
	}
	line := cartLine(*item)
	return &line, nil
}

// UpdateAmount changes the amount of one of the principal's cart items.
func (s *CartService) UpdateAmount(ctx context.Context, p policy.Principal, id int64, amount int) (*CartLine, error) {
	item, err := s.load(ctx, p, id, policy.Write)
	if err != nil {
		return nil, err
	}
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	if err := s.cart.UpdateAmount(ctx, id, amount); err != nil {
		return nil, err
	}
	item.Amount = amount
	line := cartLine(*item)
	return &line, nil
}

// Delete removes one of the principal's cart items.
func (s *CartService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	if _, err := s.load(ctx, p, id, policy.Delete); err != nil {
		return err
	}
	return s.cart.Delete(ctx, id)
}

func (s *CartService) load(ctx context.Context, p policy.Principal, id int64, op policy.Operation) (*models.CartItem, error) {
	if !p.Authenticated() {
		return nil, utils.Unauthorized(policy.ReasonAuthRequired)
	}
	item, err := s.cart.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errCartItemNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindCartItem, item.UserID), op); err != nil {
		return nil, err
	}
	return item, nil
}
