package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/market_api/internal/models"
)

// MessageRepository handles data access for user messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListByUser returns a page of the user's messages, newest first.
func (r *MessageRepository) ListByUser(ctx context.Context, userID int64, params ListParams) ([]models.Message, int, error) {
	params.Normalize()
	var c conditions
	c.add("user_id = $%d", userID)
	if params.Search != "" {
		c.add("message ILIKE $%d", likePattern(params.Search))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM messages`+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	msgs := []models.Message{}
	if err := r.db.SelectContext(ctx, &msgs, `SELECT * FROM messages`+c.where()+` ORDER BY created_at DESC, id DESC`+limit, args...); err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// GetByID returns a message or sql.ErrNoRows.
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	var m models.Message
	if err := r.db.GetContext(ctx, &m, `SELECT * FROM messages WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a message.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (user_id, message, file_url) VALUES ($1, $2, $3) RETURNING id, created_at`,
		m.UserID, m.Message, m.FileURL,
	).Scan(&m.ID, &m.CreatedAt)
}

// Update writes text and attachment of m.
func (r *MessageRepository) Update(ctx context.Context, m *models.Message) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET message = $2, file_url = $3 WHERE id = $1`, m.ID, m.Message, m.FileURL)
	return err
}

// Delete removes a message.
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}
