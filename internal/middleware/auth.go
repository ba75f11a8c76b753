package middleware

import (
	"net/http"
	"strings"

	"github.com/rscoates/magic-library/internal/auth"
	"github.com/rscoates/magic-library/internal/httputil"
)

// Auth middleware validates the bearer token on every request. When enabled
// is false, the check is skipped entirely; the collection tracker runs as a
// single-user service on trusted networks by default.
func Auth(verifier auth.TokenVerifier, enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled || r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if _, err := verifier.VerifyToken(token); err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
