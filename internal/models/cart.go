package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's cart. Several lines may reference the same product.
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user"`
	ProductID int64     `db:"product_id" json:"product"`
	Amount    int       `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined from products.
	ProductName  string          `db:"product_name" json:"product_name"`
	ProductPrice decimal.Decimal `db:"product_price" json:"product_price"`
}

// LineTotal is the live amount * current product price.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.ProductPrice.Mul(decimal.NewFromInt(int64(c.Amount)))
}
