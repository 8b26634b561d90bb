package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no message is stored under the requested id.
	ErrNotFound = errors.New("message not found")
	// ErrNotRecipient is returned when an acknowledgement names nobody on the message.
	ErrNotRecipient = errors.New("not a recipient")
)

// Recipient is one addressee of a message.
// Names are not unique within a message.
type Recipient struct {
	Name         string
	Acknowledged bool
}

// Message represents a liaison notebook entry.
type Message struct {
	ID         int64
	Body       string
	CreatedAt  time.Time
	Recipients []Recipient
}

// Draft carries the caller-supplied fields of a message.
// The id is always owned by the store.
type Draft struct {
	Body       string
	CreatedAt  time.Time
	Recipients []Recipient
}

// HasRecipient reports whether name appears among the message recipients.
func (m *Message) HasRecipient(name string) bool {
	for _, r := range m.Recipients {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	out := *m
	out.Recipients = cloneRecipients(m.Recipients)
	return &out
}

// Build turns a draft into a message stored under id.
func (d Draft) Build(id int64) *Message {
	return &Message{
		ID:         id,
		Body:       d.Body,
		CreatedAt:  d.CreatedAt,
		Recipients: cloneRecipients(d.Recipients),
	}
}

func cloneRecipients(in []Recipient) []Recipient {
	out := make([]Recipient, len(in))
	copy(out, in)
	return out
}

// MessageStore handles message persistence.
// Every call touches a single entry, except ListMessages which reads all of them.
type MessageStore interface {
	// CreateMessage assigns the next id and appends the message.
	CreateMessage(ctx context.Context, draft Draft) (*Message, error)

	// ReplaceMessage overwrites the message stored under id, creating it when absent.
	ReplaceMessage(ctx context.Context, id int64, draft Draft) error

	// GetMessage retrieves a message by id.
	GetMessage(ctx context.Context, id int64) (*Message, error)

	// ListMessages returns every message in insertion order.
	ListMessages(ctx context.Context) ([]*Message, error)

	// AcknowledgeMessage marks every recipient entry named name as acknowledged.
	AcknowledgeMessage(ctx context.Context, id int64, name string) (*Message, error)
}

// Store aggregates the storage surface used by the application.
type Store interface {
	MessageStore

	// Close releases the underlying resources.
	Close() error
}
