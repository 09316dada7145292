package middleware

import (
	"net/http"

	"github.com/divya8341883853/clothstore-backend/api/responses"
	"github.com/divya8341883853/clothstore-backend/internal/identity"
	pkgerrors "github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
)

// Identity resolves the cart owner for the request: the authenticated user
// when MaybeAuth seeded one, otherwise the anonymous session. When a fresh
// session token is minted it is echoed on the response so the client can
// persist it.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID string
			if id, ok := UserIDFrom(r.Context()); ok {
				userID = id.String()
			}

			resolution, err := identity.Resolve(userID, r.Header.Get(identity.SessionTokenHeader))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "resolving identity"))
				return
			}

			if resolution.Minted {
				w.Header().Set(identity.SessionTokenHeader, resolution.Identity.Ref)
			}

			ctx := SetIdentity(r.Context(), resolution.Identity)
			if logg != nil {
				ctx = logg.WithIdentity(ctx, resolution.Identity.Kind.String(), resolution.Identity.Ref)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
