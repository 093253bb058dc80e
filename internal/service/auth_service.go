package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/utils"
)

// AuthService registers accounts and issues access/refresh token pairs.
type AuthService struct {
	users UserStore
	jwt   *utils.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users UserStore, jwt *utils.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	CardNumber  string `json:"card_number"`
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ExpiresIn int    `json:"expires_in"`
}

const minPasswordLength = 8

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, utils.Validation("username is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, utils.Validation("password must be at least 8 characters")
	}

	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, utils.Validation("username already taken")
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		CardNumber:   req.CardNumber,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", user.ID).Str("username", username).Msg("User registered")
	return user, nil
}

// Login checks the credentials and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("username", username).Msg("Password verification failed")
		return nil, utils.ErrInvalidCredentials
	}

	access, err := s.jwt.Generate(user.ID, user.IsAdmin, utils.TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.Generate(user.ID, user.IsAdmin, utils.TokenRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:    access,
		Refresh:   refresh,
		ExpiresIn: int(s.jwt.AccessTTL().Seconds()),
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The admin flag is
// re-read from the store so demotions take effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.Validate(refreshToken, utils.TokenRefresh)
	if err != nil {
		return nil, utils.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}

	access, err := s.jwt.Generate(user.ID, user.IsAdmin, utils.TokenAccess)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, ExpiresIn: int(s.jwt.AccessTTL().Seconds())}, nil
}
