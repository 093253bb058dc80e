package memstore

import (
	"context"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/repository"
)

// Liked is the liked item table.
type Liked struct{ s *Store }

// Liked returns the liked item table.
func (s *Store) Liked() *Liked { return &Liked{s} }

func (t *Liked) GetOrCreate(_ context.Context, userID, productID int64) (*models.LikedItem, bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, it := range t.s.liked {
		if it.UserID == userID && it.ProductID == productID {
			return &it, false, nil
		}
	}
	it := models.LikedItem{ID: t.s.nextID(), UserID: userID, ProductID: productID, CreatedAt: now()}
	t.s.liked[it.ID] = it
	return &it, true, nil
}

func (t *Liked) ListByUser(_ context.Context, userID int64, params repository.ListParams) ([]models.LikedItem, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	items := sorted(t.s.liked, func(it models.LikedItem) bool { return it.UserID == userID })
	reverse(items)
	page, total := paginate(items, params)
	return page, total, nil
}

func (t *Liked) GetByID(_ context.Context, id int64) (*models.LikedItem, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return get(t.s.liked, id)
}

func (t *Liked) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.liked, id)
	return nil
}

func (t *Liked) LikedByProduct(_ context.Context, userID int64, productIDs []int64) (map[int64]int64, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	want := idSet(productIDs)
	out := map[int64]int64{}
	for _, it := range t.s.liked {
		if it.UserID == userID && want[it.ProductID] {
			out[it.ProductID] = it.ID
		}
	}
	return out, nil
}

// Count returns the number of liked rows.
func (t *Liked) Count() int {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return len(t.s.liked)
}

// Versus is the comparison item table.
type Versus struct{ s *Store }

// Versus returns the comparison item table.
func (s *Store) Versus() *Versus { return &Versus{s} }

func (t *Versus) GetOrCreate(_ context.Context, item *models.VersusItem) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, it := range t.s.versus {
		if it.UserID == item.UserID && it.ProductID == item.ProductID {
			*item = it
			return false, nil
		}
	}
	item.ID = t.s.nextID()
	item.CreatedAt = now()
	t.s.versus[item.ID] = *item
	return true, nil
}

func (t *Versus) ListByUser(_ context.Context, userID int64) ([]models.VersusItem, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return sorted(t.s.versus, func(it models.VersusItem) bool { return it.UserID == userID }), nil
}

func (t *Versus) GetByID(_ context.Context, id int64) (*models.VersusItem, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return get(t.s.versus, id)
}

func (t *Versus) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.versus, id)
	return nil
}

func (t *Versus) ProductsInVersus(_ context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	want := idSet(productIDs)
	out := map[int64]bool{}
	for _, it := range t.s.versus {
		if it.UserID == userID && want[it.ProductID] {
			out[it.ProductID] = true
		}
	}
	return out, nil
}

// Count returns the number of comparison rows.
func (t *Versus) Count() int {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return len(t.s.versus)
}

// Messages is the message table.
type Messages struct{ s *Store }

// Messages returns the message table.
func (s *Store) Messages() *Messages { return &Messages{s} }

func (t *Messages) ListByUser(_ context.Context, userID int64, params repository.ListParams) ([]models.Message, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	msgs := sorted(t.s.messages, func(m models.Message) bool {
		return m.UserID == userID && (params.Search == "" || contains(m.Message, params.Search))
	})
	reverse(msgs)
	page, total := paginate(msgs, params)
	return page, total, nil
}

func (t *Messages) GetByID(_ context.Context, id int64) (*models.Message, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return get(t.s.messages, id)
}

func (t *Messages) Create(_ context.Context, m *models.Message) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	m.ID = t.s.nextID()
	m.CreatedAt = now()
	t.s.messages[m.ID] = *m
	return nil
}

func (t *Messages) Update(_ context.Context, m *models.Message) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if stored, ok := t.s.messages[m.ID]; ok {
		stored.Message, stored.FileURL = m.Message, m.FileURL
		t.s.messages[m.ID] = stored
	}
	return nil
}

func (t *Messages) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.messages, id)
	return nil
}
