package service

import (
	"context"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
)

// ProductView is the read model of a product as seen by one principal.
type ProductView struct {
	models.Product
	Images      []models.Image  `json:"images"`
	MainImage   *models.Image   `json:"main_image"`
	Properties  []PropertyGroup `json:"properties"`
	IsLiked     bool            `json:"is_liked"`
	LikedItemID *int64          `json:"liked_item_id"`
	IsInCart    bool            `json:"is_in_cart"`
	IsInVersus  bool            `json:"is_in_versus"`
}

// PropertyGroup is a property type with its title/value pairs.
type PropertyGroup struct {
	models.PropertyType
	Properties []models.Property `json:"properties"`
}

// Relations holds the rows a batch of products projects from. The per-user
// maps are empty for an anonymous principal.
type Relations struct {
	Images     map[int64][]models.Image
	Types      map[int64][]models.PropertyType
	Properties map[int64][]models.Property
	Liked      map[int64]int64
	InCart     map[int64]bool
	InVersus   map[int64]bool
}

// Project builds the view of p from rel. It performs no I/O.
func Project(p models.Product, rel Relations) ProductView {
	v := ProductView{
		Product:    p,
		Images:     rel.Images[p.ID],
		Properties: []PropertyGroup{},
		IsInCart:   rel.InCart[p.ID],
		IsInVersus: rel.InVersus[p.ID],
	}
	if v.Images == nil {
		v.Images = []models.Image{}
	}
	for i := range v.Images {
		if v.Images[i].Main {
			img := v.Images[i]
			v.MainImage = &img
			break
		}
	}
	for _, t := range rel.Types[p.ID] {
		props := rel.Properties[t.ID]
		if props == nil {
			props = []models.Property{}
		}
		v.Properties = append(v.Properties, PropertyGroup{PropertyType: t, Properties: props})
	}
	if id, ok := rel.Liked[p.ID]; ok {
		v.IsLiked = true
		v.LikedItemID = &id
	}
	return v
}

// projector loads Relations for a batch of products with a fixed number of
// store round trips regardless of batch size.
type projector struct {
	images     ImageStore
	properties PropertyStore
	liked      LikedStore
	cart       CartStore
	versus     VersusStore
}

func (pr *projector) project(ctx context.Context, p policy.Principal, products []models.Product) ([]ProductView, error) {
	views := make([]ProductView, 0, len(products))
	if len(products) == 0 {
		return views, nil
	}
	ids := make([]int64, len(products))
	for i, prod := range products {
		ids[i] = prod.ID
	}

	rel, err := pr.relations(ctx, p, ids)
	if err != nil {
		return nil, err
	}
	for _, prod := range products {
		views = append(views, Project(prod, rel))
	}
	return views, nil
}

func (pr *projector) relations(ctx context.Context, p policy.Principal, ids []int64) (Relations, error) {
	rel := Relations{
		Images:     make(map[int64][]models.Image),
		Types:      make(map[int64][]models.PropertyType),
		Properties: make(map[int64][]models.Property),
		Liked:      map[int64]int64{},
		InCart:     map[int64]bool{},
		InVersus:   map[int64]bool{},
	}

	images, err := pr.images.ListByProducts(ctx, ids)
	if err != nil {
		return rel, err
	}
	for _, img := range images {
		rel.Images[img.ProductID] = append(rel.Images[img.ProductID], img)
	}

	types, err := pr.properties.ListTypesByProducts(ctx, ids)
	if err != nil {
		return rel, err
	}
	typeIDs := make([]int64, 0, len(types))
	for _, t := range types {
		rel.Types[t.ProductID] = append(rel.Types[t.ProductID], t)
		typeIDs = append(typeIDs, t.ID)
	}
	props, err := pr.properties.ListPropertiesByTypes(ctx, typeIDs)
	if err != nil {
		return rel, err
	}
	for _, prop := range props {
		rel.Properties[prop.PropertyTypeID] = append(rel.Properties[prop.PropertyTypeID], prop)
	}

	if !p.Authenticated() {
		return rel, nil
	}
	if rel.Liked, err = pr.liked.LikedByProduct(ctx, p.UserID, ids); err != nil {
		return rel, err
	}
	if rel.InCart, err = pr.cart.ProductsInCart(ctx, p.UserID, ids); err != nil {
		return rel, err
	}
	if rel.InVersus, err = pr.versus.ProductsInVersus(ctx, p.UserID, ids); err != nil {
		return rel, err
	}
	return rel, nil
}
