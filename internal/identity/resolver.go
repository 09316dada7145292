// Package identity resolves which cart owner a request acts for: the
// authenticated user when a valid token is present, otherwise an anonymous
// session keyed by an opaque token the server mints on first contact.
package identity

import (
	"strings"

	"github.com/google/uuid"

	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

// SessionTokenHeader carries the anonymous session token on requests and,
// when freshly minted, on responses.
const SessionTokenHeader = "X-Session-Token"

// Resolution is the outcome of resolving a request's identity. Minted is
// set when a new session token was generated and must be echoed back.
type Resolution struct {
	Identity types.Identity
	Minted   bool
}

// Resolve picks the owner identity for a request. An authenticated user id
// always wins; a session token is only used for guests.
func Resolve(userID string, sessionToken string) (Resolution, error) {
	if strings.TrimSpace(userID) != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Identity: types.Authenticated(id)}, nil
	}

	token := strings.TrimSpace(sessionToken)
	if token != "" {
		return Resolution{Identity: types.Anonymous(token)}, nil
	}

	return Resolution{
		Identity: types.Anonymous(uuid.NewString()),
		Minted:   true,
	}, nil
}
