package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"user_api/internal/common"
)

// AdminToken enforces the shared admin token on the routes it wraps.
// The token may arrive as "Authorization: Bearer <token>" or as a
// "token" query parameter. An empty configured secret locks the guarded
// routes entirely instead of matching an empty supplied token.
func AdminToken(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				common.RespondWithError(w, http.StatusUnauthorized, "Missing token.")
				return
			}
			if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				common.RespondWithError(w, http.StatusUnauthorized, "Token mismatch.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
