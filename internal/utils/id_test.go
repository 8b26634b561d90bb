package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDIsUUID(t *testing.T) {
	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid, got %q: %v", id, err)
	}
	if NewRequestID() == id {
		t.Fatalf("expected distinct ids")
	}
}

func TestRequestIDOrNew(t *testing.T) {
	if got := RequestIDOrNew("abc-123"); got != "abc-123" {
		t.Fatalf("expected client id kept, got %q", got)
	}
	for _, bad := range []string{"", "   ", strings.Repeat("x", 200)} {
		got := RequestIDOrNew(bad)
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("expected generated uuid for %q, got %q", bad, got)
		}
	}
}
