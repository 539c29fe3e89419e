package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSConfig lists the browser origins allowed to call the API and the
// methods the router serves.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
}

// CORS returns middleware that answers preflight requests and sets
// Access-Control headers for allowed origins. With no origins configured it
// passes every request through untouched, so cross-origin browser calls fail.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
	})
	return c.Handler
}
