package controllers

import (
	"net/http"

	"github.com/divya8341883853/clothstore-backend/api/middleware"
	"github.com/divya8341883853/clothstore-backend/api/responses"
	checkoutsvc "github.com/divya8341883853/clothstore-backend/internal/checkout"
	pkgerrors "github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

// PlaceOrder converts the signed-in user's cart into a confirmed order.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order"))
			return
		}

		order, err := svc.PlaceOrder(r.Context(), types.Authenticated(userID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
