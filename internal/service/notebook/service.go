package notebook

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/liaison-server/internal/auth"
	"github.com/vovakirdan/liaison-server/internal/store"
)

// Service applies the access filter around the message store.
// Every call receives the caller claim explicitly.
type Service struct {
	store store.MessageStore
}

// New creates a notebook service backed by st.
func New(st store.MessageStore) *Service {
	return &Service{store: st}
}

// List returns the messages visible to the caller in store order.
func (s *Service) List(ctx context.Context, claim auth.Claim) ([]*store.Message, error) {
	if err := auth.CheckRole(claim); err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return auth.FilterList(claim, messages)
}

// Get returns one message. A message the caller may not see yields
// auth.ErrNotVisible; an unknown id yields store.ErrNotFound.
func (s *Service) Get(ctx context.Context, claim auth.Claim, id int64) (*store.Message, error) {
	if err := auth.CheckRole(claim); err != nil {
		return nil, err
	}

	msg, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.FilterOne(claim, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Create posts a new message on behalf of a teacher.
func (s *Service) Create(ctx context.Context, claim auth.Claim, draft store.Draft) (*store.Message, error) {
	if err := auth.AuthorizeCreate(claim); err != nil {
		return nil, err
	}

	msg, err := s.store.CreateMessage(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// Replace overwrites (or creates) the message stored under id.
func (s *Service) Replace(ctx context.Context, claim auth.Claim, id int64, draft store.Draft) error {
	if err := auth.AuthorizeReplace(claim); err != nil {
		return err
	}

	if err := s.store.ReplaceMessage(ctx, id, draft); err != nil {
		return fmt.Errorf("replace message %d: %w", id, err)
	}
	return nil
}

// Acknowledge records that the caller received the message.
// Callers who are not recipients get auth.ErrNotVisible.
func (s *Service) Acknowledge(ctx context.Context, claim auth.Claim, id int64) (*store.Message, error) {
	if err := auth.AuthorizeAcknowledge(claim); err != nil {
		return nil, err
	}

	msg, err := s.store.AcknowledgeMessage(ctx, id, claim.Name)
	if errors.Is(err, store.ErrNotRecipient) {
		return nil, auth.ErrNotVisible
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// IsHidden reports whether err means the message must be reported as absent.
// Unknown ids and invisible messages look the same to callers.
func IsHidden(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, auth.ErrNotVisible)
}

// IsRejected reports whether err comes from a claim the caller sent.
func IsRejected(err error) bool {
	return errors.Is(err, auth.ErrMissingClaim) ||
		errors.Is(err, auth.ErrInvalidClaim) ||
		errors.Is(err, auth.ErrForbidden)
}
