package service

import (
	"context"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

var (
	errLikedItemNotFound  = utils.NotFound("LIKED_ITEM_NOT_FOUND", "liked item not found")
	errVersusItemNotFound = utils.NotFound("VERSUS_ITEM_NOT_FOUND", "versus item not found")
)

// AddOutcome tells whether an add call created a record or found one.
type AddOutcome int

const (
	Created AddOutcome = iota
	AlreadyExists
)

// AddResult is the result of an idempotent add.
type AddResult[T any] struct {
	Outcome AddOutcome
	Record  T
}

// SocialService manages the principal's liked and comparison lists.
type SocialService struct {
	liked      LikedStore
	versus     VersusStore
	products   ProductStore
	categories CategoryStore
}

// NewSocialService constructs a SocialService.
func NewSocialService(liked LikedStore, versus VersusStore, products ProductStore, categories CategoryStore) *SocialService {
	return &SocialService{liked: liked, versus: versus, products: products, categories: categories}
}

// AddRequest is the body of the liked and versus add endpoints.
type AddRequest struct {
	Product *int64 `json:"product"`
}

func (s *SocialService) resolveProduct(ctx context.Context, id *int64) (*models.Product, error) {
	if id == nil || *id <= 0 {
		return nil, utils.ErrProductRequired
	}
	prod, err := s.products.GetByID(ctx, *id)
	if err != nil {
		return nil, notFound(err, utils.ErrProductNotFound)
	}
	return prod, nil
}

// AddLiked marks a product as liked. A repeated call returns the existing record.
func (s *SocialService) AddLiked(ctx context.Context, p policy.Principal, req *AddRequest) (*AddResult[models.LikedItem], error) {
	if err := authorize(p, policy.Owned(policy.KindLikedItem, p.UserID), policy.Write); err != nil {
		return nil, err
	}
	prod, err := s.resolveProduct(ctx, req.Product)
	if err != nil {
		return nil, err
	}
	item, created, err := s.liked.GetOrCreate(ctx, p.UserID, prod.ID)
	if err != nil {
		return nil, err
	}
	res := &AddResult[models.LikedItem]{Outcome: AlreadyExists, Record: *item}
	if created {
		res.Outcome = Created
	}
	return res, nil
}

func likedOwner(it models.LikedItem) int64   { return it.UserID }
func versusOwner(it models.VersusItem) int64 { return it.UserID }

// ListLiked returns a page of the principal's liked items.
func (s *SocialService) ListLiked(ctx context.Context, p policy.Principal, params repository.ListParams) (*Page[models.LikedItem], error) {
	if err := authorize(p, policy.Owned(policy.KindLikedItem, p.UserID), policy.Read); err != nil {
		return nil, err
	}
	items, total, err := s.liked.ListByUser(ctx, p.UserID, params)
	if err != nil {
		return nil, err
	}
	items = policy.Filter(p, policy.KindLikedItem, policy.Read, items, likedOwner)
	return &Page[models.LikedItem]{Items: items, Total: total}, nil
}

// GetLiked returns one of the principal's liked items.
func (s *SocialService) GetLiked(ctx context.Context, p policy.Principal, id int64) (*models.LikedItem, error) {
	return s.loadLiked(ctx, p, id, policy.Read)
}

// DeleteLiked removes one of the principal's liked items.
func (s *SocialService) DeleteLiked(ctx context.Context, p policy.Principal, id int64) error {
	if _, err := s.loadLiked(ctx, p, id, policy.Delete); err != nil {
		return err
	}
	return s.liked.Delete(ctx, id)
}

func (s *SocialService) loadLiked(ctx context.Context, p policy.Principal, id int64, op policy.Operation) (*models.LikedItem, error) {
	if !p.Authenticated() {
		return nil, utils.Unauthorized(policy.ReasonAuthRequired)
	}
	item, err := s.liked.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errLikedItemNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindLikedItem, item.UserID), op); err != nil {
		return nil, err
	}
	return item, nil
}

// AddVersus puts a product on the comparison list, stamping the product's
// current category. A repeated call returns the existing record unchanged.
func (s *SocialService) AddVersus(ctx context.Context, p policy.Principal, req *AddRequest) (*AddResult[models.VersusItem], error) {
	if err := authorize(p, policy.Owned(policy.KindVersusItem, p.UserID), policy.Write); err != nil {
		return nil, err
	}
	prod, err := s.resolveProduct(ctx, req.Product)
	if err != nil {
		return nil, err
	}
	cat, err := s.categories.GetByID(ctx, prod.CategoryID)
	if err != nil {
		return nil, notFound(err, errCategoryNotFound)
	}

	item := &models.VersusItem{
		UserID:       p.UserID,
		ProductID:    prod.ID,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
	}
	created, err := s.versus.GetOrCreate(ctx, item)
	if err != nil {
		return nil, err
	}
	res := &AddResult[models.VersusItem]{Outcome: AlreadyExists, Record: *item}
	if created {
		res.Outcome = Created
	}
	return res, nil
}

// ListVersus returns the principal's comparison list grouped by the category
// name snapshotted on each entry.
func (s *SocialService) ListVersus(ctx context.Context, p policy.Principal) (map[string][]models.VersusItem, error) {
	if err := authorize(p, policy.Owned(policy.KindVersusItem, p.UserID), policy.Read); err != nil {
		return nil, err
	}
	items, err := s.versus.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	items = policy.Filter(p, policy.KindVersusItem, policy.Read, items, versusOwner)
	return GroupByCategory(items), nil
}

// GroupByCategory groups items by their category snapshot, keeping input order
// within each group.
func GroupByCategory(items []models.VersusItem) map[string][]models.VersusItem {
	groups := make(map[string][]models.VersusItem)
	for _, it := range items {
		groups[it.CategoryName] = append(groups[it.CategoryName], it)
	}
	return groups
}

// GetVersus returns one of the principal's comparison items.
func (s *SocialService) GetVersus(ctx context.Context, p policy.Principal, id int64) (*models.VersusItem, error) {
	return s.loadVersus(ctx, p, id, policy.Read)
}

// DeleteVersus removes one of the principal's comparison items.
func (s *SocialService) DeleteVersus(ctx context.Context, p policy.Principal, id int64) error {
	if _, err := s.loadVersus(ctx, p, id, policy.Delete); err != nil {
		return err
	}
	return s.versus.Delete(ctx, id)
}

func (s *SocialService) loadVersus(ctx context.Context, p policy.Principal, id int64, op policy.Operation) (*models.VersusItem, error) {
	if !p.Authenticated() {
		return nil, utils.Unauthorized(policy.ReasonAuthRequired)
	}
	item, err := s.versus.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errVersusItemNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindVersusItem, item.UserID), op); err != nil {
		return nil, err
	}
	return item, nil
}
