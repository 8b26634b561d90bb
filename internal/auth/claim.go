package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Header names carrying the caller claim. Values are Base64-encoded text.
const (
	HeaderUserType = "userType"
	HeaderUserName = "userName"
)

var (
	// ErrMissingClaim is returned when a claim header is absent or cannot be decoded.
	ErrMissingClaim = errors.New("missing or undecodable claim")
	// ErrInvalidClaim is returned when the claimed role is neither teacher nor parent.
	ErrInvalidClaim = errors.New("invalid claim")
)

// Role is the self-declared kind of caller.
type Role string

const (
	RoleTeacher Role = "professeur"
	RoleParent  Role = "parent"
)

// ParseRole maps a decoded header value onto a Role.
// Unknown values are kept verbatim so the filters can reject them.
func ParseRole(s string) Role {
	switch s {
	case "teacher", string(RoleTeacher):
		return RoleTeacher
	default:
		return Role(s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleParent
}

// Claim is the unverified identity a request declares.
type Claim struct {
	Role Role
	Name string
}

// ClaimFromHeaders decodes the two claim headers.
// A header that is present but empty decodes to an empty string.
func ClaimFromHeaders(h http.Header) (Claim, error) {
	role, err := decodeHeader(h, HeaderUserType)
	if err != nil {
		return Claim{}, err
	}
	name, err := decodeHeader(h, HeaderUserName)
	if err != nil {
		return Claim{}, err
	}
	return Claim{Role: ParseRole(role), Name: name}, nil
}

// EncodeHeader Base64-encodes a claim header value.
func EncodeHeader(value string) string {
	return base64.StdEncoding.EncodeToString([]byte(value))
}

func decodeHeader(h http.Header, key string) (string, error) {
	values := h.Values(key)
	if len(values) == 0 {
		return "", fmt.Errorf("%w: %s header absent", ErrMissingClaim, key)
	}

	raw := strings.TrimSpace(values[0])
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %s header: %v", ErrMissingClaim, key, err)
		}
	}
	return string(decoded), nil
}
