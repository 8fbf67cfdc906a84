package http

import (
	"net/http"

	"github.com/rogerio-castellano/product-catalog/internal/auth"
)

// AuthMiddleware rejects requests without a valid HS256 bearer token signed with secret.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}

			if _, err := auth.ParseToken(secret, tokenStr); err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
