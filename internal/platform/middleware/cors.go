package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets the wizard's browser shell call the local API. With no origins
// configured every origin is allowed, which is only safe because the server
// binds to the loopback interface by default.
func CORS(allowedOrigins ...string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-Id",
			"traceparent",
		},
		ExposedHeaders: []string{"Location", "X-Request-Id"},
		MaxAge:         300,
	})
}
