package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/market_api/internal/models"
)

// UserRepository handles data access for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and fills its id and join date.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	const q = `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone_number, card_number, image_url, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, date_joined`
	return r.db.QueryRowxContext(ctx, q,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.PhoneNumber, u.CardNumber, u.ImageURL, u.IsAdmin,
	).Scan(&u.ID, &u.DateJoined)
}

// GetByID returns a user by id or sql.ErrNoRows.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns a user by username or sql.ErrNoRows.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = $1`, username); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns a page of users matching params.Search on username or email.
func (r *UserRepository) List(ctx context.Context, params ListParams) ([]models.User, int, error) {
	params.Normalize()
	var c conditions
	if params.Search != "" {
		c.add("(username ILIKE $%[1]d OR email ILIKE $%[1]d)", likePattern(params.Search))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM users`+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT * FROM users`+c.where()+` ORDER BY date_joined DESC`+limit, args...); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update writes the profile fields of u.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	const q = `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, phone_number = $5, card_number = $6, image_url = $7, password_hash = $8
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q,
		u.ID, u.Email, u.FirstName, u.LastName, u.PhoneNumber, u.CardNumber, u.ImageURL, u.PasswordHash,
	)
	return err
}

// Delete removes a user and, through cascades, everything the user owns.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
