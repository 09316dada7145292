package types

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/divya8341883853/clothstore-backend/pkg/enums"
)

// Identity is the sum-typed cart owner key: exactly one variant is active,
// an authenticated user id or an anonymous session token. The zero value is
// no identity at all.
type Identity struct {
	Kind enums.OwnerKind
	// Ref holds the user id string for authenticated identities or the
	// opaque session token for anonymous ones.
	Ref string
}

// Authenticated builds the user-scoped identity variant.
func Authenticated(userID uuid.UUID) Identity {
	return Identity{Kind: enums.OwnerKindUser, Ref: userID.String()}
}

// Anonymous builds the session-scoped identity variant.
func Anonymous(sessionToken string) Identity {
	return Identity{Kind: enums.OwnerKindSession, Ref: sessionToken}
}

// IsZero reports whether no identity was resolved.
func (i Identity) IsZero() bool {
	return i.Kind == "" && i.Ref == ""
}

// IsAuthenticated reports whether the identity belongs to a signed-in user.
func (i Identity) IsAuthenticated() bool {
	return i.Kind == enums.OwnerKindUser
}

// UserID returns the user id for authenticated identities.
func (i Identity) UserID() (uuid.UUID, error) {
	if i.Kind != enums.OwnerKindUser {
		return uuid.Nil, fmt.Errorf("identity is not authenticated")
	}
	return uuid.Parse(i.Ref)
}

// Validate checks that the identity carries a known kind and a non-empty ref.
func (i Identity) Validate() error {
	if !i.Kind.IsValid() {
		return fmt.Errorf("invalid identity kind %q", i.Kind)
	}
	if i.Ref == "" {
		return fmt.Errorf("identity ref is required")
	}
	if i.Kind == enums.OwnerKindUser {
		if _, err := uuid.Parse(i.Ref); err != nil {
			return fmt.Errorf("invalid user id %q: %w", i.Ref, err)
		}
	}
	return nil
}

// String renders the owner key used in logs and signal payloads.
func (i Identity) String() string {
	return fmt.Sprintf("%s:%s", i.Kind, i.Ref)
}
