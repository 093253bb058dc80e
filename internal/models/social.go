package models

import "time"

// LikedItem marks a product as liked by a user. Unique per (user, product).
type LikedItem struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user"`
	ProductID int64     `db:"product_id" json:"product"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// VersusItem puts a product on a user's comparison list. CategoryID and
// CategoryName are copied from the product when the row is created and never
// updated afterwards.
type VersusItem struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user"`
	ProductID    int64     `db:"product_id" json:"product"`
	CategoryID   int64     `db:"category_id" json:"category"`
	CategoryName string    `db:"category_name" json:"category_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Message is a note or ticket a user sends to the marketplace.
type Message struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user"`
	Message   string    `db:"message" json:"message"`
	FileURL   string    `db:"file_url" json:"file"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
