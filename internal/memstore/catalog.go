package memstore

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/repository"
)

// ErrDuplicate mirrors a unique constraint violation.
var ErrDuplicate = errors.New("memstore: duplicate key")

// Users is the user table.
type Users struct{ s *Store }

// Users returns the user table.
func (s *Store) Users() *Users { return &Users{s} }

func (t *Users) Create(_ context.Context, u *models.User) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, existing := range t.s.users {
		if existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	u.ID = t.s.nextID()
	u.DateJoined = now()
	t.s.users[u.ID] = *u
	return nil
}

func (t *Users) GetByID(_ context.Context, id int64) (*models.User, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return get(t.s.users, id)
}

func (t *Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, u := range t.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (t *Users) List(_ context.Context, params repository.ListParams) ([]models.User, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	users := sorted(t.s.users, func(u models.User) bool {
		return params.Search == "" || contains(u.Username, params.Search) || contains(u.Email, params.Search)
	})
	reverse(users)
	page, total := paginate(users, params)
	return page, total, nil
}

func (t *Users) Update(_ context.Context, u *models.User) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.users[u.ID]; ok {
		t.s.users[u.ID] = *u
	}
	return nil
}

func (t *Users) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.users, id)
	t.s.deleteProductsWhere(func(p models.Product) bool { return p.UserID == id })
	deleteWhere(t.s.cart, func(c models.CartItem) bool { return c.UserID == id })
	for oid, o := range t.s.orders {
		if o.UserID == id {
			delete(t.s.orders, oid)
			deleteWhere(t.s.orderItems, func(it models.OrderItem) bool { return it.OrderID == oid })
		}
	}
	deleteWhere(t.s.liked, func(l models.LikedItem) bool { return l.UserID == id })
	deleteWhere(t.s.versus, func(v models.VersusItem) bool { return v.UserID == id })
	deleteWhere(t.s.messages, func(m models.Message) bool { return m.UserID == id })
	return nil
}

// Brands is the brand table.
type Brands struct{ s *Store }

// Brands returns the brand table.
func (s *Store) Brands() *Brands { return &Brands{s} }

func (t *Brands) List(_ context.Context, params repository.ListParams) ([]models.Brand, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	brands := sorted(t.s.brands, func(b models.Brand) bool {
		return params.Search == "" || contains(b.Name, params.Search)
	})
	sort.SliceStable(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })
	page, total := paginate(brands, params)
	return page, total, nil
}

func (t *Brands) GetByID(_ context.Context, id int64) (*models.Brand, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return get(t.s.brands, id)
}

func (t *Brands) Create(_ context.Context, b *models.Brand) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	b.ID = t.s.nextID()
	b.CreatedAt = now()
	t.s.brands[b.ID] = *b
	return nil
}

func (t *Brands) Update(_ context.Context, b *models.Brand) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.brands[b.ID]; ok {
		t.s.brands[b.ID] = *b
	}
	return nil
}

func (t *Brands) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.brands, id)
	t.s.deleteProductsWhere(func(p models.Product) bool { return p.BrandID == id })
	return nil
}

// Categories is the category table.
type Categories struct{ s *Store }

// Categories returns the category table.
func (s *Store) Categories() *Categories { return &Categories{s} }

func (t *Categories) List(_ context.Context, params repository.ListParams) ([]models.Category, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	cats := sorted(t.s.categories, func(c models.Category) bool {
		return params.Search == "" || contains(c.Name, params.Search)
	})
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	page, total := paginate(cats, params)
	return page, total, nil
}

func (t *Categories) GetByID(_ context.Context, id int64) (*models.Category, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return get(t.s.categories, id)
}

func (t *Categories) Create(_ context.Context, c *models.Category) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	c.ID = t.s.nextID()
	c.CreatedAt = now()
	t.s.categories[c.ID] = *c
	return nil
}

func (t *Categories) Update(_ context.Context, c *models.Category) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.categories[c.ID]; ok {
		t.s.categories[c.ID] = *c
	}
	return nil
}

func (t *Categories) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.categories, id)
	t.s.deleteProductsWhere(func(p models.Product) bool { return p.CategoryID == id })
	return nil
}

// Galleries is the gallery table.
type Galleries struct{ s *Store }

// Galleries returns the gallery table.
func (s *Store) Galleries() *Galleries { return &Galleries{s} }

func (t *Galleries) List(_ context.Context, params repository.ListParams) ([]models.Gallery, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	gs := sorted(t.s.galleries, func(g models.Gallery) bool {
		return params.Search == "" || contains(g.Name, params.Search)
	})
	page, total := paginate(gs, params)
	return page, total, nil
}

func (t *Galleries) GetByID(_ context.Context, id int64) (*models.Gallery, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return get(t.s.galleries, id)
}

func (t *Galleries) Create(_ context.Context, g *models.Gallery) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	g.ID = t.s.nextID()
	g.CreatedAt = now()
	t.s.galleries[g.ID] = *g
	return nil
}

func (t *Galleries) Update(_ context.Context, g *models.Gallery) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.galleries[g.ID]; ok {
		t.s.galleries[g.ID] = *g
	}
	return nil
}

func (t *Galleries) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.galleries, id)
	for pid, p := range t.s.products {
		if p.GalleryID != nil && *p.GalleryID == id {
			p.GalleryID = nil
			t.s.products[pid] = p
		}
	}
	return nil
}
