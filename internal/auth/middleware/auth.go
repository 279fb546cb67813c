// Package middleware provides the identity-resolution and role-gate
// middlewares. Authentication validates the bearer token and resolves it to
// the current user record, so requests from deleted users are rejected and
// role changes apply immediately.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/taskmanager/backend/internal/auth/service"
	"github.com/taskmanager/backend/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// UserResolver resolves a user ID to the current user record
type UserResolver interface {
	// GetByID retrieves a user by ID.
	//
	// "userID" parameter is used to retrieve a user by ID.
	//
	// If user with such ID does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

// Authenticate validates the bearer token, resolves the user and attaches
// the Identity to the request context. Register and login routes are not
// behind this middleware.
func Authenticate(tokenGenerator *service.TokenGenerator, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			// Expected format: "Bearer <token>"
			var token string
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			if token == "" {
				respondUnauthorized(w, "Not authorized, no token")
				return
			}

			// Validate token and extract userID
			userID, err := tokenGenerator.Validate(token)
			if err != nil {
				respondUnauthorized(w, "Not authorized, token failed")
				return
			}

			// Resolve the current user record; a valid token for a
			// since-deleted user is rejected here
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				respondUnauthorized(w, "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, models.IdentityOf(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.Response{Success: false, Message: message})
}
