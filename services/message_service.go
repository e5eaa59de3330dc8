package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
)

// Mailbox selects which side of the actor's messages List returns.
type Mailbox string

const (
	Inbox  Mailbox = "inbox"
	Outbox Mailbox = "sent"
)

type SendInput struct {
	ReceiverID uuid.UUID `json:"receiverId"`
	Content    string    `json:"content"`
}

type MessageService struct {
	store *repository.Store
	now   func() time.Time
}

func (s *MessageService) Send(ctx context.Context, actor policy.Actor, in SendInput) (*models.Message, error) {
	if err := requireCapability(actor, policy.MessageSend); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("Message content is required")
	}
	if in.ReceiverID == actor.UserID {
		return nil, apperrors.NewValidationError("Cannot send a message to yourself")
	}
	if _, err := s.store.Users.FindByID(ctx, in.ReceiverID); err != nil {
		if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewValidationError("Receiver does not exist")
		}
		return nil, err
	}

	now := s.now()
	msg := &models.Message{
		ID:         uuid.New(),
		SenderID:   actor.UserID,
		ReceiverID: in.ReceiverID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) List(ctx context.Context, actor policy.Actor, box Mailbox) ([]models.Message, error) {
	if err := requireCapability(actor, policy.MessageSend); err != nil {
		return nil, err
	}
	switch box {
	case Inbox, "":
		return s.store.Messages.List(ctx, repository.MessageFilter{ReceiverID: actor.UserID})
	case Outbox:
		return s.store.Messages.List(ctx, repository.MessageFilter{SenderID: actor.UserID})
	default:
		return nil, apperrors.NewValidationError("box must be inbox or sent")
	}
}

func (s *MessageService) Conversation(ctx context.Context, actor policy.Actor, other uuid.UUID) ([]models.Message, error) {
	if err := requireCapability(actor, policy.MessageSend); err != nil {
		return nil, err
	}
	return s.store.Messages.List(ctx, repository.MessageFilter{Between: []uuid.UUID{actor.UserID, other}})
}

// MarkRead is allowed for the receiver only and is idempotent.
func (s *MessageService) MarkRead(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Message, error) {
	msg, err := s.store.Messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Anonymous() || msg.ReceiverID != actor.UserID {
		return nil, apperrors.NewForbiddenError("Only the receiver can mark a message as read")
	}
	if msg.IsRead {
		return msg, nil
	}
	now := s.now()
	msg.IsRead = true
	msg.ReadAt = &now
	msg.UpdatedAt = now
	if err := s.store.Messages.Save(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, actor policy.Actor) (int64, error) {
	if err := requireCapability(actor, policy.MessageSend); err != nil {
		return 0, err
	}
	return s.store.Messages.Count(ctx, repository.MessageFilter{ReceiverID: actor.UserID, UnreadOnly: true})
}

func (s *MessageService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	msg, err := s.store.Messages.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Anonymous() || (msg.SenderID != actor.UserID && msg.ReceiverID != actor.UserID) {
		return apperrors.NewForbiddenError("You cannot delete this message")
	}
	return s.store.Messages.Delete(ctx, id)
}
