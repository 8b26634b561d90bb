package utils

import (
	"strings"

	"github.com/google/uuid"
)

// maxRequestIDLen bounds ids accepted from clients.
const maxRequestIDLen = 128

// NewRequestID returns a random identifier for correlating log lines.
func NewRequestID() string {
	return uuid.NewString()
}

// RequestIDOrNew keeps a client-supplied id when it is usable.
func RequestIDOrNew(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || len(candidate) > maxRequestIDLen || strings.ContainsAny(candidate, "\r\n") {
		return NewRequestID()
	}
	return candidate
}
