package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusCollecting OrderStatus = "collecting"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusHandedOver OrderStatus = "handed_over"
)

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCollecting, OrderStatusDelivering, OrderStatusDelivered, OrderStatusHandedOver:
		return true
	}
	return false
}

// Order is an immutable snapshot of a converted cart. TotalPrice and Status are
// server-computed.
type Order struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user"`
	FirstName   string          `db:"first_name" json:"first_name"`
	LastName    string          `db:"last_name" json:"last_name"`
	PhoneNumber string          `db:"phone_number" json:"phone_number"`
	Region      string          `db:"region" json:"region"`
	City        string          `db:"city" json:"city"`
	Address     string          `db:"address" json:"address"`
	PaymentType string          `db:"payment_type" json:"payment_type"`
	TotalPrice  decimal.Decimal `db:"total_price" json:"total_price"`
	Status      OrderStatus     `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem freezes product name, unit price and line total at conversion time.
// ProductID becomes nil once the product is deleted; the snapshot stays.
type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order"`
	ProductID   *int64          `db:"product_id" json:"product"`
	ProductName string          `db:"product_name" json:"product_name"`
	Amount      int             `db:"amount" json:"amount"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"product_price"`
	TotalPrice  decimal.Decimal `db:"total_price" json:"total_price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`

	// Joined from orders, used for ownership checks.
	OwnerID int64 `db:"owner_id" json:"-"`
}

// OrderRecipient is the client-writable part of an order.
type OrderRecipient struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Address     string `json:"address"`
	PaymentType string `json:"payment_type"`
}
