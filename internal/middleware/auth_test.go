package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rscoates/magic-library/internal/auth"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier, err := auth.NewHS256Verifier(secret, logger)
	if err != nil {
		t.Fatalf("NewHS256Verifier() error = %v", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "collector",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		enabled    bool
		path       string
		authHeader string
		wantStatus int
	}{
		{"disabled passes without token", false, "/api/collection", "", http.StatusOK},
		{"enabled rejects missing token", true, "/api/collection", "", http.StatusUnauthorized},
		{"enabled rejects bad token", true, "/api/collection", "Bearer nope", http.StatusUnauthorized},
		{"enabled accepts valid token", true, "/api/collection", "Bearer " + signed, http.StatusOK},
		{"health bypasses auth", true, "/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(verifier, tt.enabled)(next)

			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
