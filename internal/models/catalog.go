package models

import (
	"time"

	"github.com/lib/pq"
)

// Brand is an admin-managed product brand.
type Brand struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Category groups products directly; there is no sub-category level.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ImageURL  string    `db:"image_url" json:"image"`
	IconURL   string    `db:"icon_url" json:"icon"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Gallery is a shared bundle of images that several products can point at.
type Gallery struct {
	ID        int64          `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Images    pq.StringArray `db:"images" json:"images"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
