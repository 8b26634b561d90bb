package auth

import (
	"errors"
	"net/http"
	"testing"
)

func TestClaimFromHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		wantRole Role
		wantName string
		wantErr  error
	}{
		{
			name:     "teacher",
			headers:  map[string]string{HeaderUserType: EncodeHeader("professeur"), HeaderUserName: EncodeHeader("Mme Martin")},
			wantRole: RoleTeacher,
			wantName: "Mme Martin",
		},
		{
			name:     "english teacher alias",
			headers:  map[string]string{HeaderUserType: EncodeHeader("teacher"), HeaderUserName: EncodeHeader("prof")},
			wantRole: RoleTeacher,
			wantName: "prof",
		},
		{
			name:     "parent",
			headers:  map[string]string{HeaderUserType: EncodeHeader("parent"), HeaderUserName: EncodeHeader("parent1")},
			wantRole: RoleParent,
			wantName: "parent1",
		},
		{
			name:     "unknown role still decodes",
			headers:  map[string]string{HeaderUserType: EncodeHeader("administrator"), HeaderUserName: EncodeHeader("root")},
			wantRole: Role("administrator"),
			wantName: "root",
		},
		{
			name:     "unpadded base64",
			headers:  map[string]string{HeaderUserType: "cGFyZW50", HeaderUserName: "cGFyZW50MQ"},
			wantRole: RoleParent,
			wantName: "parent1",
		},
		{
			name:    "missing role header",
			headers: map[string]string{HeaderUserName: EncodeHeader("parent1")},
			wantErr: ErrMissingClaim,
		},
		{
			name:    "missing name header",
			headers: map[string]string{HeaderUserType: EncodeHeader("parent")},
			wantErr: ErrMissingClaim,
		},
		{
			name:    "undecodable header",
			headers: map[string]string{HeaderUserType: "%%%not-base64", HeaderUserName: EncodeHeader("parent1")},
			wantErr: ErrMissingClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}

			claim, err := ClaimFromHeaders(h)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claim.Role != tt.wantRole || claim.Name != tt.wantName {
				t.Fatalf("expected %s/%s, got %s/%s", tt.wantRole, tt.wantName, claim.Role, claim.Name)
			}
		})
	}
}
