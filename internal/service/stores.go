package service

import (
	"context"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/repository"
)

// The store interfaces below are satisfied by the repository package and by
// the in-memory store used in tests. Lookups by id return sql.ErrNoRows when
// nothing matches.

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, params repository.ListParams) ([]models.User, int, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int64) error
}

// BrandStore persists brands.
type BrandStore interface {
	List(ctx context.Context, params repository.ListParams) ([]models.Brand, int, error)
	GetByID(ctx context.Context, id int64) (*models.Brand, error)
	Create(ctx context.Context, b *models.Brand) error
	Update(ctx context.Context, b *models.Brand) error
	Delete(ctx context.Context, id int64) error
}

// CategoryStore persists categories.
type CategoryStore interface {
	List(ctx context.Context, params repository.ListParams) ([]models.Category, int, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// GalleryStore persists galleries.
type GalleryStore interface {
	List(ctx context.Context, params repository.ListParams) ([]models.Gallery, int, error)
	GetByID(ctx context.Context, id int64) (*models.Gallery, error)
	Create(ctx context.Context, g *models.Gallery) error
	Update(ctx context.Context, g *models.Gallery) error
	Delete(ctx context.Context, id int64) error
}

// ProductStore persists products.
type ProductStore interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, q repository.ProductQuery) ([]models.Product, int, error)
	Filter(ctx context.Context, f repository.ProductFilter) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	UpdateDiscount(ctx context.Context, id int64, d repository.DiscountUpdate) error
	Delete(ctx context.Context, id int64) error
}

// ImageStore persists product images.
type ImageStore interface {
	List(ctx context.Context, productID *int64, params repository.ListParams) ([]models.Image, int, error)
	ListByProducts(ctx context.Context, ids []int64) ([]models.Image, error)
	GetByID(ctx context.Context, id int64) (*models.Image, error)
	Create(ctx context.Context, img *models.Image) error
	Update(ctx context.Context, img *models.Image) error
	Delete(ctx context.Context, id int64) error
}

// PropertyStore persists property types and properties.
type PropertyStore interface {
	ListTypes(ctx context.Context, productID *int64, params repository.ListParams) ([]models.PropertyType, int, error)
	ListTypesByProducts(ctx context.Context, ids []int64) ([]models.PropertyType, error)
	GetType(ctx context.Context, id int64) (*models.PropertyType, error)
	CreateType(ctx context.Context, t *models.PropertyType) error
	UpdateType(ctx context.Context, t *models.PropertyType) error
	DeleteType(ctx context.Context, id int64) error
	ListProperties(ctx context.Context, productID *int64, params repository.ListParams) ([]models.Property, int, error)
	ListPropertiesByTypes(ctx context.Context, ids []int64) ([]models.Property, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	CreateProperty(ctx context.Context, pr *models.Property) error
	UpdateProperty(ctx context.Context, pr *models.Property) error
	DeleteProperty(ctx context.Context, id int64) error
}

// CartStore persists cart items.
type CartStore interface {
	ListByUser(ctx context.Context, userID int64, params repository.ListParams) ([]models.CartItem, int, error)
	GetByID(ctx context.Context, id int64) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateAmount(ctx context.Context, id int64, amount int) error
	Delete(ctx context.Context, id int64) error
	ProductsInCart(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error)
}

// CheckoutStore runs a cart conversion atomically.
type CheckoutStore interface {
	WithinTx(ctx context.Context, fn func(repository.CheckoutTx) error) error
}

// OrderStore reads and maintains placed orders.
type OrderStore interface {
	ListByUser(ctx context.Context, userID int64, params repository.ListParams) ([]models.Order, int, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	Items(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	UpdateRecipient(ctx context.Context, id int64, rec models.OrderRecipient) error
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	Delete(ctx context.Context, id int64) error
	ListItemsByUser(ctx context.Context, userID int64, orderID *int64, params repository.ListParams) ([]models.OrderItem, int, error)
	GetItem(ctx context.Context, id int64) (*models.OrderItem, error)
}

// LikedStore persists liked items.
type LikedStore interface {
	GetOrCreate(ctx context.Context, userID, productID int64) (*models.LikedItem, bool, error)
	ListByUser(ctx context.Context, userID int64, params repository.ListParams) ([]models.LikedItem, int, error)
	GetByID(ctx context.Context, id int64) (*models.LikedItem, error)
	Delete(ctx context.Context, id int64) error
	LikedByProduct(ctx context.Context, userID int64, productIDs []int64) (map[int64]int64, error)
}

// VersusStore persists comparison list items.
type VersusStore interface {
	GetOrCreate(ctx context.Context, item *models.VersusItem) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]models.VersusItem, error)
	GetByID(ctx context.Context, id int64) (*models.VersusItem, error)
	Delete(ctx context.Context, id int64) error
	ProductsInVersus(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error)
}

// MessageStore persists user messages.
type MessageStore interface {
	ListByUser(ctx context.Context, userID int64, params repository.ListParams) ([]models.Message, int, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	Create(ctx context.Context, m *models.Message) error
	Update(ctx context.Context, m *models.Message) error
	Delete(ctx context.Context, id int64) error
}

// OrderEvents is notified after an order has been committed.
type OrderEvents interface {
	OrderPlaced(ctx context.Context, o *models.Order) error
}

// CatalogCache stores serialized catalog listings. Misses and cache faults are
// indistinguishable to callers.
type CatalogCache interface {
	Get(ctx context.Context, key string, dst interface{}) bool
	Set(ctx context.Context, key string, v interface{})
	Invalidate(ctx context.Context, prefix string)
}
