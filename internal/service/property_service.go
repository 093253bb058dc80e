package service

import (
	"context"
	"strings"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

var (
	errPropertyTypeNotFound = utils.NotFound("PROPERTY_TYPE_NOT_FOUND", "property type not found")
	errPropertyNotFound     = utils.NotFound("PROPERTY_NOT_FOUND", "property not found")
)

// PropertyService manages product attribute groups and their values.
type PropertyService struct {
	properties PropertyStore
	products   ProductStore
}

// NewPropertyService constructs a PropertyService.
func NewPropertyService(properties PropertyStore, products ProductStore) *PropertyService {
	return &PropertyService{properties: properties, products: products}
}

// PropertyTypeRequest is the body for property type create and update.
type PropertyTypeRequest struct {
	Product int64  `json:"product"`
	Title   string `json:"title" binding:"required"`
}

// PropertyRequest is the body for property create and update.
type PropertyRequest struct {
	PropertyType int64  `json:"property_type"`
	Title        string `json:"title" binding:"required"`
	Value        string `json:"value" binding:"required"`
}

// ListTypes returns a page of property types, optionally for one product.
func (s *PropertyService) ListTypes(ctx context.Context, p policy.Principal, productID *int64, params repository.ListParams) (*Page[models.PropertyType], error) {
	if err := authorize(p, policy.Unowned(policy.KindPropertyType), policy.Read); err != nil {
		return nil, err
	}
	types, total, err := s.properties.ListTypes(ctx, productID, params)
	if err != nil {
		return nil, err
	}
	return &Page[models.PropertyType]{Items: types, Total: total}, nil
}

// GetType returns one property type.
func (s *PropertyService) GetType(ctx context.Context, p policy.Principal, id int64) (*models.PropertyType, error) {
	t, err := s.properties.GetType(ctx, id)
	if err != nil {
		return nil, notFound(err, errPropertyTypeNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindPropertyType, t.OwnerID), policy.Read); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateType adds a property type to a product the principal sells.
func (s *PropertyService) CreateType(ctx context.Context, p policy.Principal, req *PropertyTypeRequest) (*models.PropertyType, error) {
	if req.Product == 0 {
		return nil, utils.ErrProductRequired
	}
	prod, err := s.products.GetByID(ctx, req.Product)
	if err != nil {
		return nil, notFound(err, utils.ErrProductNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindPropertyType, prod.UserID), policy.Write); err != nil {
		return nil, err
	}
	t := &models.PropertyType{ProductID: prod.ID, Title: strings.TrimSpace(req.Title), OwnerID: prod.UserID}
	if t.Title == "" {
		return nil, utils.Validation("title is required")
	}
	if err := s.properties.CreateType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateType renames a property type.
func (s *PropertyService) UpdateType(ctx context.Context, p policy.Principal, id int64, req *PropertyTypeRequest) (*models.PropertyType, error) {
	t, err := s.properties.GetType(ctx, id)
	if err != nil {
		return nil, notFound(err, errPropertyTypeNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindPropertyType, t.OwnerID), policy.Write); err != nil {
		return nil, err
	}
	if t.Title = strings.TrimSpace(req.Title); t.Title == "" {
		return nil, utils.Validation("title is required")
	}
	if err := s.properties.UpdateType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteType removes a property type with its properties.
func (s *PropertyService) DeleteType(ctx context.Context, p policy.Principal, id int64) error {
	t, err := s.properties.GetType(ctx, id)
	if err != nil {
		return notFound(err, errPropertyTypeNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindPropertyType, t.OwnerID), policy.Delete); err != nil {
		return err
	}
	return s.properties.DeleteType(ctx, id)
}

// ListProperties returns a page of properties, optionally for one product.
func (s *PropertyService) ListProperties(ctx context.Context, p policy.Principal, productID *int64, params repository.ListParams) (*Page[models.Property], error) {
	if err := authorize(p, policy.Unowned(policy.KindProperty), policy.Read); err != nil {
		return nil, err
	}
	props, total, err := s.properties.ListProperties(ctx, productID, params)
	if err != nil {
		return nil, err
	}
	return &Page[models.Property]{Items: props, Total: total}, nil
}

// GetProperty returns one property.
func (s *PropertyService) GetProperty(ctx context.Context, p policy.Principal, id int64) (*models.Property, error) {
	pr, err := s.properties.GetProperty(ctx, id)
	if err != nil {
		return nil, notFound(err, errPropertyNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindProperty, pr.OwnerID), policy.Read); err != nil {
		return nil, err
	}
	return pr, nil
}

// CreateProperty adds a title/value pair under a property type.
func (s *PropertyService) CreateProperty(ctx context.Context, p policy.Principal, req *PropertyRequest) (*models.Property, error) {
	if req.PropertyType == 0 {
		return nil, utils.Validation("property_type is required")
	}
	t, err := s.properties.GetType(ctx, req.PropertyType)
	if err != nil {
		return nil, notFound(err, errPropertyTypeNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindProperty, t.OwnerID), policy.Write); err != nil {
		return nil, err
	}
	pr := &models.Property{
		PropertyTypeID: t.ID,
		Title:          strings.TrimSpace(req.Title),
		Value:          strings.TrimSpace(req.Value),
		OwnerID:        t.OwnerID,
	}
	if pr.Title == "" || pr.Value == "" {
		return nil, utils.Validation("title and value are required")
	}
	if err := s.properties.CreateProperty(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// UpdateProperty rewrites title and value of a property.
func (s *PropertyService) UpdateProperty(ctx context.Context, p policy.Principal, id int64, req *PropertyRequest) (*models.Property, error) {
	pr, err := s.properties.GetProperty(ctx, id)
	if err != nil {
		return nil, notFound(err, errPropertyNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindProperty, pr.OwnerID), policy.Write); err != nil {
		return nil, err
	}
	pr.Title, pr.Value = strings.TrimSpace(req.Title), strings.TrimSpace(req.Value)
	if pr.Title == "" || pr.Value == "" {
		return nil, utils.Validation("title and value are required")
	}
	if err := s.properties.UpdateProperty(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// DeleteProperty removes a property.
func (s *PropertyService) DeleteProperty(ctx context.Context, p policy.Principal, id int64) error {
	pr, err := s.properties.GetProperty(ctx, id)
	if err != nil {
		return notFound(err, errPropertyNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindProperty, pr.OwnerID), policy.Delete); err != nil {
		return err
	}
	return s.properties.DeleteProperty(ctx, id)
}
