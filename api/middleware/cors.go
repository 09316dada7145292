package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/divya8341883853/clothstore-backend/internal/identity"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"https://clothstore.example",
}

// CORS returns middleware that applies the storefront's allowed origin policy.
// The session token header must be exposed so guest browsers can persist it.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", identity.SessionTokenHeader, "X-Requested-With"},
		ExposedHeaders:   []string{identity.SessionTokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
