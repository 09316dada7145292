package controllers

import (
	"net/http"

	"github.com/divya8341883853/clothstore-backend/api/responses"
	"github.com/divya8341883853/clothstore-backend/pkg/db"
	pkgerrors "github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
)

// Health reports liveness plus dependency reachability.
func Health(pingers map[string]db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{}
		healthy := true
		for name, pinger := range pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(r.Context()); err != nil {
				status[name] = "unreachable"
				healthy = false
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(status))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ok", "dependencies": status})
	}
}
