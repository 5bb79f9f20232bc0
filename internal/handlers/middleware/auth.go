// internal/handlers/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tocpharma/packing-be/internal/pkg/logger"
	"github.com/tocpharma/packing-be/internal/pkg/token"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Authenticate rejects requests without a valid Bearer token and stores the
// authenticated account name in the request context for the loggers.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				respondUnauthorized(w, "Missing bearer token")
				return
			}

			claims, err := verifier.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				if errors.Is(err, token.ErrExpiredToken) {
					respondUnauthorized(w, "Token has expired")
					return
				}
				respondUnauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), logger.ContextKeyUserID, claims.UserName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
