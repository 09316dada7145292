package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

type ctxKey string

const (
	ctxKeyUserID   ctxKey = "user_id"
	ctxKeyIdentity ctxKey = "identity"
)

// SetUserID stores the authenticated user id on the context.
func SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// UserIDFrom returns the authenticated user id, if any.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(uuid.UUID)
	return id, ok
}

// SetIdentity stores the resolved cart owner identity on the context.
func SetIdentity(ctx context.Context, identity types.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, identity)
}

// IdentityFrom returns the resolved cart owner identity, if any.
func IdentityFrom(ctx context.Context) (types.Identity, bool) {
	identity, ok := ctx.Value(ctxKeyIdentity).(types.Identity)
	return identity, ok
}
