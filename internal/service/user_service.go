package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

var errUserNotFound = utils.NotFound("USER_NOT_FOUND", "user not found")

// UserService manages the principal's own account and the admin user list.
type UserService struct {
	users UserStore
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// UpdateUserRequest carries the editable profile fields. Nil fields are kept.
type UpdateUserRequest struct {
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	CardNumber  *string `json:"card_number"`
	Image       *string `json:"image"`
	Password    *string `json:"password"`
}

// Me returns the principal's account.
func (s *UserService) Me(ctx context.Context, p policy.Principal) (*models.User, error) {
	if err := authorize(p, policy.Owned(policy.KindUser, p.UserID), policy.Read); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, errUserNotFound)
	}
	return u, nil
}

// UpdateMe applies req to the principal's account.
func (s *UserService) UpdateMe(ctx context.Context, p policy.Principal, req *UpdateUserRequest) (*models.User, error) {
	u, err := s.Me(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, policy.Owned(policy.KindUser, u.ID), policy.Write); err != nil {
		return nil, err
	}

	setString(&u.Email, req.Email)
	setString(&u.FirstName, req.FirstName)
	setString(&u.LastName, req.LastName)
	setString(&u.PhoneNumber, req.PhoneNumber)
	setString(&u.CardNumber, req.CardNumber)
	setString(&u.ImageURL, req.Image)
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return nil, utils.Validation("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteMe removes the principal's account and everything it owns.
func (s *UserService) DeleteMe(ctx context.Context, p policy.Principal) error {
	if err := authorize(p, policy.Owned(policy.KindUser, p.UserID), policy.Delete); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, p.UserID); err != nil {
		return notFound(err, errUserNotFound)
	}
	return s.users.Delete(ctx, p.UserID)
}

// List returns a page of all users. Admin only.
func (s *UserService) List(ctx context.Context, p policy.Principal, params repository.ListParams) (*Page[models.User], error) {
	if err := authorize(p, policy.Unowned(policy.KindUserList), policy.Read); err != nil {
		return nil, err
	}
	users, total, err := s.users.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &Page[models.User]{Items: users, Total: total}, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
