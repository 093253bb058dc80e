package service

import (
	"context"
	"strings"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

var errImageNotFound = utils.NotFound("IMAGE_NOT_FOUND", "image not found")

// ImageService manages product images. Writes require ownership of the parent product.
type ImageService struct {
	images   ImageStore
	products ProductStore
}

// NewImageService constructs an ImageService.
func NewImageService(images ImageStore, products ProductStore) *ImageService {
	return &ImageService{images: images, products: products}
}

// ImageRequest is the body for image create and update.
type ImageRequest struct {
	Product int64  `json:"product"`
	Image   string `json:"image" binding:"required"`
	Main    bool   `json:"main"`
}

// List returns a page of images, optionally for one product.
func (s *ImageService) List(ctx context.Context, p policy.Principal, productID *int64, params repository.ListParams) (*Page[models.Image], error) {
	if err := authorize(p, policy.Unowned(policy.KindImage), policy.Read); err != nil {
		return nil, err
	}
	images, total, err := s.images.List(ctx, productID, params)
	if err != nil {
		return nil, err
	}
	return &Page[models.Image]{Items: images, Total: total}, nil
}

// Get returns one image.
func (s *ImageService) Get(ctx context.Context, p policy.Principal, id int64) (*models.Image, error) {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errImageNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindImage, img.OwnerID), policy.Read); err != nil {
		return nil, err
	}
	return img, nil
}

// Create attaches an image to a product the principal sells.
func (s *ImageService) Create(ctx context.Context, p policy.Principal, req *ImageRequest) (*models.Image, error) {
	if req.Product == 0 {
		return nil, utils.ErrProductRequired
	}
	prod, err := s.products.GetByID(ctx, req.Product)
	if err != nil {
		return nil, notFound(err, utils.ErrProductNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindImage, prod.UserID), policy.Write); err != nil {
		return nil, err
	}
	img := &models.Image{ProductID: prod.ID, URL: strings.TrimSpace(req.Image), Main: req.Main, OwnerID: prod.UserID}
	if img.URL == "" {
		return nil, utils.Validation("image is required")
	}
	if err := s.images.Create(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// Update changes the url or main flag of an image. The parent product is fixed.
func (s *ImageService) Update(ctx context.Context, p policy.Principal, id int64, req *ImageRequest) (*models.Image, error) {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errImageNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindImage, img.OwnerID), policy.Write); err != nil {
		return nil, err
	}
	if url := strings.TrimSpace(req.Image); url != "" {
		img.URL = url
	}
	img.Main = req.Main
	if err := s.images.Update(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// Delete removes an image.
func (s *ImageService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		return notFound(err, errImageNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindImage, img.OwnerID), policy.Delete); err != nil {
		return err
	}
	return s.images.Delete(ctx, id)
}
