package service

import (
	"context"
	"strings"

	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/utils"
)

var errMessageNotFound = utils.NotFound("MESSAGE_NOT_FOUND", "message not found")

// MessageService manages notes users send to the marketplace.
type MessageService struct {
	messages MessageStore
}

// NewMessageService constructs a MessageService.
func NewMessageService(messages MessageStore) *MessageService {
	return &MessageService{messages: messages}
}

// MessageRequest is the body for message create and update.
type MessageRequest struct {
	Message string `json:"message" binding:"required"`
	File    string `json:"file"`
}

func messageOwner(m models.Message) int64 { return m.UserID }

// List returns a page of the principal's messages.
func (s *MessageService) List(ctx context.Context, p policy.Principal, params repository.ListParams) (*Page[models.Message], error) {
	if err := authorize(p, policy.Owned(policy.KindMessage, p.UserID), policy.Read); err != nil {
		return nil, err
	}
	msgs, total, err := s.messages.ListByUser(ctx, p.UserID, params)
	if err != nil {
		return nil, err
	}
	msgs = policy.Filter(p, policy.KindMessage, policy.Read, msgs, messageOwner)
	return &Page[models.Message]{Items: msgs, Total: total}, nil
}

// Create stores a message from the principal.
func (s *MessageService) Create(ctx context.Context, p policy.Principal, req *MessageRequest) (*models.Message, error) {
	if err := authorize(p, policy.Owned(policy.KindMessage, p.UserID), policy.Write); err != nil {
		return nil, err
	}
	m := &models.Message{UserID: p.UserID, Message: strings.TrimSpace(req.Message), FileURL: strings.TrimSpace(req.File)}
	if m.Message == "" {
		return nil, utils.Validation("message is required")
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns one of the principal's messages.
func (s *MessageService) Get(ctx context.Context, p policy.Principal, id int64) (*models.Message, error) {
	return s.load(ctx, p, id, policy.Read)
}

// Update rewrites one of the principal's messages.
func (s *MessageService) Update(ctx context.Context, p policy.Principal, id int64, req *MessageRequest) (*models.Message, error) {
	m, err := s.load(ctx, p, id, policy.Write)
	if err != nil {
		return nil, err
	}
	if m.Message = strings.TrimSpace(req.Message); m.Message == "" {
		return nil, utils.Validation("message is required")
	}
	m.FileURL = strings.TrimSpace(req.File)
	if err := s.messages.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes one of the principal's messages.
func (s *MessageService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	if _, err := s.load(ctx, p, id, policy.Delete); err != nil {
		return err
	}
	return s.messages.Delete(ctx, id)
}

func (s *MessageService) load(ctx context.Context, p policy.Principal, id int64, op policy.Operation) (*models.Message, error) {
	if !p.Authenticated() {
		return nil, utils.Unauthorized(policy.ReasonAuthRequired)
	}
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errMessageNotFound)
	}
	if err := authorize(p, policy.Owned(policy.KindMessage, m.UserID), op); err != nil {
		return nil, err
	}
	return m, nil
}
