package models

import "time"

// User is a marketplace account. A user may sell products and owns its cart,
// orders, liked/versus lists and messages.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	CardNumber   string    `db:"card_number" json:"card_number"`
	ImageURL     string    `db:"image_url" json:"image"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	DateJoined   time.Time `db:"date_joined" json:"date_joined"`
}
