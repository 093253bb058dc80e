package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry listed by a seller. Discount fields are inline and
// optional; when DiscountPrice is set it is below Price.
type Product struct {
	ID                 int64               `db:"id" json:"id"`
	Name               string              `db:"name" json:"name"`
	Details            string              `db:"details" json:"details"`
	IsCash             bool                `db:"is_cash" json:"is_cash"`
	Price              decimal.Decimal     `db:"price" json:"price"`
	MonthlyPrice       decimal.Decimal     `db:"monthly_price" json:"monthly_price"`
	Country            string              `db:"country" json:"country"`
	BrandID            int64               `db:"brand_id" json:"brand"`
	CategoryID         int64               `db:"category_id" json:"category"`
	UserID             int64               `db:"user_id" json:"user"`
	GalleryID          *int64              `db:"gallery_id" json:"gallery"`
	DiscountPercentage *int                `db:"discount_percentage" json:"discount_percentage"`
	DiscountPrice      decimal.NullDecimal `db:"discount_price" json:"discount_price"`
	DiscountExpiresAt  *time.Time          `db:"discount_expires_at" json:"discount_expires_at"`
	CreatedAt          time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time           `db:"updated_at" json:"updated_at"`
}

// Image belongs to exactly one product. At most one image per product should be main.
type Image struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product"`
	URL       string    `db:"url" json:"image"`
	Main      bool      `db:"main" json:"main"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Seller of the parent product.
	OwnerID int64 `db:"owner_id" json:"-"`
}

// PropertyType is an attribute group of a product, e.g. "Color".
type PropertyType struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"product"`
	Title     string `db:"title" json:"title"`

	OwnerID int64 `db:"owner_id" json:"-"`
}

// Property is a single title/value pair inside a PropertyType.
type Property struct {
	ID             int64  `db:"id" json:"id"`
	PropertyTypeID int64  `db:"property_type_id" json:"property_type"`
	Title          string `db:"title" json:"title"`
	Value          string `db:"value" json:"value"`

	OwnerID int64 `db:"owner_id" json:"-"`
}
