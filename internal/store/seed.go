package store

import (
	"context"
	"fmt"
	"time"
)

// SeedDrafts returns the demonstration messages loaded at startup.
// Bodies embed the id the first three creates receive on an empty store.
func SeedDrafts(now time.Time) []Draft {
	return []Draft{
		{
			Body:       "Corps du message 0",
			CreatedAt:  now,
			Recipients: []Recipient{{Name: "parent1"}, {Name: "parent2"}},
		},
		{
			Body:       "Corps du message 1",
			CreatedAt:  now,
			Recipients: []Recipient{{Name: "parent1"}},
		},
		{
			Body:       "Corps du message 2",
			CreatedAt:  now,
			Recipients: []Recipient{{Name: "parent2"}},
		},
	}
}

// Seed creates the demonstration messages in st.
func Seed(ctx context.Context, st MessageStore, now time.Time) error {
	for i, draft := range SeedDrafts(now) {
		if _, err := st.CreateMessage(ctx, draft); err != nil {
			return fmt.Errorf("seed message %d: %w", i, err)
		}
	}
	return nil
}
