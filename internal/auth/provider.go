// Package auth provides the identity layer: a single AuthProvider
// abstraction, its JWT implementation, bcrypt password hashing, and the
// middleware that guards protected routes.
//
// There is exactly one identity scheme. Every component that needs to know
// who is calling receives a Provider and nothing else.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Provider verifies a credential (a bearer token) and resolves it to a
// user ID. Implementations return an error for anything that does not
// map to a live identity.
type Provider interface {
	Verify(credential string) (userID string, err error)
}

// contextKey is unexported so only this package can read or write the
// user ID carried in a request context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved user ID in the request context for handlers downstream.
func RequireAuth(provider Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, provider)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user's ID, or ("", false)
// when the request carried no valid identity.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// ContextWithUserID is used by tests to simulate an authenticated request.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func extractUserID(r *http.Request, provider Provider) (string, error) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return "", errMissingToken
	}
	return provider.Verify(token)
}
