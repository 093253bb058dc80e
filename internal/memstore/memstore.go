// Package memstore is an in-memory implementation of the service store
// interfaces, used by service and handler tests.
package memstore

import (
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/repository"
)

// Store holds every table in maps guarded by one mutex. The accessor methods
// return typed views that satisfy the individual store interfaces.
type Store struct {
	mu  sync.Mutex
	seq int64

	users         map[int64]models.User
	brands        map[int64]models.Brand
	categories    map[int64]models.Category
	galleries     map[int64]models.Gallery
	products      map[int64]models.Product
	images        map[int64]models.Image
	propertyTypes map[int64]models.PropertyType
	properties    map[int64]models.Property
	cart          map[int64]models.CartItem
	orders        map[int64]models.Order
	orderItems    map[int64]models.OrderItem
	liked         map[int64]models.LikedItem
	versus        map[int64]models.VersusItem
	messages      map[int64]models.Message

	// Fail, when set, is consulted before every checkout write; a non-nil
	// result aborts the write with that error.
	Fail func(op string) error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:         map[int64]models.User{},
		brands:        map[int64]models.Brand{},
		categories:    map[int64]models.Category{},
		galleries:     map[int64]models.Gallery{},
		products:      map[int64]models.Product{},
		images:        map[int64]models.Image{},
		propertyTypes: map[int64]models.PropertyType{},
		properties:    map[int64]models.Property{},
		cart:          map[int64]models.CartItem{},
		orders:        map[int64]models.Order{},
		orderItems:    map[int64]models.OrderItem{},
		liked:         map[int64]models.LikedItem{},
		versus:        map[int64]models.VersusItem{},
		messages:      map[int64]models.Message{},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func now() time.Time { return time.Now().UTC() }

// get returns a copy of m[id] or sql.ErrNoRows.
func get[T any](m map[int64]T, id int64) (*T, error) {
	v, ok := m[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

// sorted returns the values of m matching keep, ordered by id.
func sorted[T any](m map[int64]T, keep func(T) bool) []T {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func paginate[T any](items []T, params repository.ListParams) ([]T, int) {
	params.Normalize()
	total := len(items)
	start := (params.Page - 1) * params.Limit
	if start >= total {
		return []T{}, total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return items[start:end], total
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func deleteWhere[T any](m map[int64]T, match func(T) bool) {
	for id, v := range m {
		if match(v) {
			delete(m, id)
		}
	}
}

// deleteProduct removes a product and every row that references it.
func (s *Store) deleteProduct(id int64) {
	delete(s.products, id)
	deleteWhere(s.images, func(i models.Image) bool { return i.ProductID == id })
	for tid, t := range s.propertyTypes {
		if t.ProductID == id {
			delete(s.propertyTypes, tid)
			deleteWhere(s.properties, func(p models.Property) bool { return p.PropertyTypeID == tid })
		}
	}
	deleteWhere(s.cart, func(c models.CartItem) bool { return c.ProductID == id })
	for oid, it := range s.orderItems {
		if it.ProductID != nil && *it.ProductID == id {
			it.ProductID = nil
			s.orderItems[oid] = it
		}
	}
	deleteWhere(s.liked, func(l models.LikedItem) bool { return l.ProductID == id })
	deleteWhere(s.versus, func(v models.VersusItem) bool { return v.ProductID == id })
}

func (s *Store) deleteProductsWhere(match func(models.Product) bool) {
	for id, p := range s.products {
		if match(p) {
			s.deleteProduct(id)
		}
	}
}
