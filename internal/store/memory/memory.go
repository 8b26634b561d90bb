package memory

import (
	"context"
	"sync"

	"github.com/vovakirdan/liaison-server/internal/store"
)

// MemoryStore implements store.Store with an insertion-ordered map.
type MemoryStore struct {
	seq store.Sequence

	mu       sync.RWMutex
	messages map[int64]*store.Message
	order    []int64
}

// New creates an empty in-memory store.
func New() *MemoryStore {
	return &MemoryStore{
		messages: make(map[int64]*store.Message),
	}
}

// Close is a no-op; state lives as long as the process.
func (s *MemoryStore) Close() error {
	return nil
}

// CreateMessage assigns the next id and appends the message.
func (s *MemoryStore) CreateMessage(_ context.Context, draft store.Draft) (*store.Message, error) {
	id, err := s.seq.Next()
	if err != nil {
		return nil, err
	}
	msg := draft.Build(id)

	s.mu.Lock()
	s.put(msg)
	s.mu.Unlock()

	return msg.Clone(), nil
}

// ReplaceMessage overwrites the message at id. Absent ids are appended.
func (s *MemoryStore) ReplaceMessage(_ context.Context, id int64, draft store.Draft) error {
	if err := s.seq.Observe(id); err != nil {
		return err
	}
	msg := draft.Build(id)

	s.mu.Lock()
	s.put(msg)
	s.mu.Unlock()
	return nil
}

// GetMessage retrieves a message by id.
func (s *MemoryStore) GetMessage(_ context.Context, id int64) (*store.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return msg.Clone(), nil
}

// ListMessages returns every message in insertion order.
func (s *MemoryStore) ListMessages(_ context.Context) ([]*store.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.Message, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.messages[id].Clone())
	}
	return out, nil
}

// AcknowledgeMessage marks every recipient entry named name as acknowledged.
func (s *MemoryStore) AcknowledgeMessage(_ context.Context, id int64, name string) (*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	matched := false
	for i := range msg.Recipients {
		if msg.Recipients[i].Name == name {
			msg.Recipients[i].Acknowledged = true
			matched = true
		}
	}
	if !matched {
		return nil, store.ErrNotRecipient
	}
	return msg.Clone(), nil
}

// put must be called with mu held for writing.
func (s *MemoryStore) put(msg *store.Message) {
	if _, exists := s.messages[msg.ID]; !exists {
		s.order = append(s.order, msg.ID)
	}
	s.messages[msg.ID] = msg
}

var _ store.Store = (*MemoryStore)(nil)
