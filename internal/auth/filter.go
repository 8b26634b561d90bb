package auth

import (
	"errors"

	"github.com/vovakirdan/liaison-server/internal/store"
)

var (
	// ErrForbidden is returned when the claim may not perform a mutation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotVisible is returned when a message exists but the claim may not see it.
	ErrNotVisible = errors.New("message not visible")
)

// CheckRole rejects claims whose role is neither teacher nor parent.
func CheckRole(c Claim) error {
	if !c.Role.Valid() {
		return ErrInvalidClaim
	}
	return nil
}

// FilterList returns the messages visible to c, preserving their order.
// Teachers see everything; parents see messages naming them as a recipient.
func FilterList(c Claim, messages []*store.Message) ([]*store.Message, error) {
	switch c.Role {
	case RoleTeacher:
		return messages, nil
	case RoleParent:
		visible := make([]*store.Message, 0, len(messages))
		for _, msg := range messages {
			if msg.HasRecipient(c.Name) {
				visible = append(visible, msg)
			}
		}
		return visible, nil
	default:
		return nil, ErrInvalidClaim
	}
}

// FilterOne decides whether c may read msg.
func FilterOne(c Claim, msg *store.Message) error {
	switch c.Role {
	case RoleTeacher:
		return nil
	case RoleParent:
		if msg.HasRecipient(c.Name) {
			return nil
		}
		return ErrNotVisible
	default:
		return ErrInvalidClaim
	}
}

// AuthorizeCreate allows only teachers to post messages.
func AuthorizeCreate(c Claim) error {
	if c.Role != RoleTeacher {
		return ErrForbidden
	}
	return nil
}

// AuthorizeReplace accepts any decoded claim, whatever its role.
// Unlike create, replace is open to parents and unknown roles.
func AuthorizeReplace(Claim) error {
	return nil
}

// AuthorizeAcknowledge requires a known role; whether the caller is a
// recipient is decided by the store.
func AuthorizeAcknowledge(c Claim) error {
	return CheckRole(c)
}
