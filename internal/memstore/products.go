package memstore

import (
	"context"
	"sort"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/repository"
)

// Products is the product table.
type Products struct{ s *Store }

// Products returns the product table.
func (s *Store) Products() *Products { return &Products{s} }

func (t *Products) GetByID(_ context.Context, id int64) (*models.Product, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return get(t.s.products, id)
}

func (t *Products) List(_ context.Context, q repository.ProductQuery) ([]models.Product, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	products := sorted(t.s.products, func(p models.Product) bool {
		if q.BrandID != nil && p.BrandID != *q.BrandID {
			return false
		}
		if q.CategoryID != nil && p.CategoryID != *q.CategoryID {
			return false
		}
		if q.GalleryID != nil && (p.GalleryID == nil || *p.GalleryID != *q.GalleryID) {
			return false
		}
		if q.Search != "" {
			return contains(p.Name, q.Search) || contains(t.s.brands[p.BrandID].Name, q.Search)
		}
		return true
	})
	switch q.Ordering {
	case "price":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.LessThan(products[j].Price) })
	case "-price":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.GreaterThan(products[j].Price) })
	case "created_at":
		sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.Before(products[j].CreatedAt) })
	case "-created_at":
		sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	}
	page, total := paginate(products, q.ListParams)
	return page, total, nil
}

func (t *Products) Filter(_ context.Context, f repository.ProductFilter) ([]models.Product, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	catIDs, catNames := idSet(f.CategoryIDs), nameSet(f.CategoryNames)
	brandIDs, brandNames := idSet(f.BrandIDs), nameSet(f.BrandNames)
	return sorted(t.s.products, func(p models.Product) bool {
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			return false
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			return false
		}
		switch {
		case len(catIDs) > 0 && !catIDs[p.CategoryID]:
			return false
		case len(catIDs) == 0 && len(catNames) > 0 && !catNames[t.s.categories[p.CategoryID].Name]:
			return false
		}
		switch {
		case len(brandIDs) > 0 && !brandIDs[p.BrandID]:
			return false
		case len(brandIDs) == 0 && len(brandNames) > 0 && !brandNames[t.s.brands[p.BrandID].Name]:
			return false
		}
		return true
	}), nil
}

func (t *Products) Create(_ context.Context, p *models.Product) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	p.ID = t.s.nextID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	t.s.products[p.ID] = *p
	return nil
}

func (t *Products) Update(_ context.Context, p *models.Product) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	stored, ok := t.s.products[p.ID]
	if !ok {
		return nil
	}
	p.UserID = stored.UserID
	p.DiscountPercentage, p.DiscountPrice, p.DiscountExpiresAt = stored.DiscountPercentage, stored.DiscountPrice, stored.DiscountExpiresAt
	p.UpdatedAt = now()
	t.s.products[p.ID] = *p
	return nil
}

func (t *Products) UpdateDiscount(_ context.Context, id int64, d repository.DiscountUpdate) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	p, ok := t.s.products[id]
	if !ok {
		return nil
	}
	p.DiscountPercentage, p.DiscountPrice, p.DiscountExpiresAt = d.Percentage, d.Price, d.ExpiresAt
	p.UpdatedAt = now()
	t.s.products[id] = p
	return nil
}

func (t *Products) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.deleteProduct(id)
	return nil
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Images is the image table. Owner ids are joined from the parent product.
type Images struct{ s *Store }

// Images returns the image table.
func (s *Store) Images() *Images { return &Images{s} }

func (t *Images) withOwner(img models.Image) models.Image {
	img.OwnerID = t.s.products[img.ProductID].UserID
	return img
}

func (t *Images) List(_ context.Context, productID *int64, params repository.ListParams) ([]models.Image, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	images := sorted(t.s.images, func(i models.Image) bool { return productID == nil || i.ProductID == *productID })
	page, total := paginate(images, params)
	for i := range page {
		page[i] = t.withOwner(page[i])
	}
	return page, total, nil
}

func (t *Images) ListByProducts(_ context.Context, ids []int64) ([]models.Image, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	set := idSet(ids)
	images := sorted(t.s.images, func(i models.Image) bool { return set[i.ProductID] })
	for i := range images {
		images[i] = t.withOwner(images[i])
	}
	return images, nil
}

func (t *Images) GetByID(_ context.Context, id int64) (*models.Image, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	img, err := get(t.s.images, id)
	if err != nil {
		return nil, err
	}
	*img = t.withOwner(*img)
	return img, nil
}

func (t *Images) Create(_ context.Context, img *models.Image) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	img.ID = t.s.nextID()
	img.CreatedAt = now()
	t.s.images[img.ID] = *img
	return nil
}

func (t *Images) Update(_ context.Context, img *models.Image) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if stored, ok := t.s.images[img.ID]; ok {
		stored.URL, stored.Main = img.URL, img.Main
		t.s.images[img.ID] = stored
	}
	return nil
}

func (t *Images) Delete(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.images, id)
	return nil
}

// Properties holds property types and properties.
type Properties struct{ s *Store }

// Properties returns the property tables.
func (s *Store) Properties() *Properties { return &Properties{s} }

func (t *Properties) typeWithOwner(pt models.PropertyType) models.PropertyType {
	pt.OwnerID = t.s.products[pt.ProductID].UserID
	return pt
}

func (t *Properties) propWithOwner(pr models.Property) models.Property {
	pt := t.s.propertyTypes[pr.PropertyTypeID]
	pr.OwnerID = t.s.products[pt.ProductID].UserID
	return pr
}

func (t *Properties) ListTypes(_ context.Context, productID *int64, params repository.ListParams) ([]models.PropertyType, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	types := sorted(t.s.propertyTypes, func(pt models.PropertyType) bool { return productID == nil || pt.ProductID == *productID })
	page, total := paginate(types, params)
	for i := range page {
		page[i] = t.typeWithOwner(page[i])
	}
	return page, total, nil
}

func (t *Properties) ListTypesByProducts(_ context.Context, ids []int64) ([]models.PropertyType, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	set := idSet(ids)
	types := sorted(t.s.propertyTypes, func(pt models.PropertyType) bool { return set[pt.ProductID] })
	for i := range types {
		types[i] = t.typeWithOwner(types[i])
	}
	return types, nil
}

func (t *Properties) GetType(_ context.Context, id int64) (*models.PropertyType, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	pt, err := get(t.s.propertyTypes, id)
	if err != nil {
		return nil, err
	}
	*pt = t.typeWithOwner(*pt)
	return pt, nil
}

func (t *Properties) CreateType(_ context.Context, pt *models.PropertyType) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	pt.ID = t.s.nextID()
	t.s.propertyTypes[pt.ID] = *pt
	return nil
}

func (t *Properties) UpdateType(_ context.Context, pt *models.PropertyType) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if stored, ok := t.s.propertyTypes[pt.ID]; ok {
		stored.Title = pt.Title
		t.s.propertyTypes[pt.ID] = stored
	}
	return nil
}

func (t *Properties) DeleteType(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.propertyTypes, id)
	deleteWhere(t.s.properties, func(p models.Property) bool { return p.PropertyTypeID == id })
	return nil
}

func (t *Properties) ListProperties(_ context.Context, productID *int64, params repository.ListParams) ([]models.Property, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	props := sorted(t.s.properties, func(pr models.Property) bool {
		return productID == nil || t.s.propertyTypes[pr.PropertyTypeID].ProductID == *productID
	})
	page, total := paginate(props, params)
	for i := range page {
		page[i] = t.propWithOwner(page[i])
	}
	return page, total, nil
}

func (t *Properties) ListPropertiesByTypes(_ context.Context, ids []int64) ([]models.Property, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	set := idSet(ids)
	props := sorted(t.s.properties, func(pr models.Property) bool { return set[pr.PropertyTypeID] })
	for i := range props {
		props[i] = t.propWithOwner(props[i])
	}
	return props, nil
}

func (t *Properties) GetProperty(_ context.Context, id int64) (*models.Property, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	pr, err := get(t.s.properties, id)
	if err != nil {
		return nil, err
	}
	*pr = t.propWithOwner(*pr)
	return pr, nil
}

func (t *Properties) CreateProperty(_ context.Context, pr *models.Property) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	pr.ID = t.s.nextID()
	t.s.properties[pr.ID] = *pr
	return nil
}

func (t *Properties) UpdateProperty(_ context.Context, pr *models.Property) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if stored, ok := t.s.properties[pr.ID]; ok {
		stored.Title, stored.Value = pr.Title, pr.Value
		t.s.properties[pr.ID] = stored
	}
	return nil
}

func (t *Properties) DeleteProperty(_ context.Context, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.properties, id)
	return nil
}
