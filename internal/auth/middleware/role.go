package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/taskmanager/backend/internal/models"
)

// RequireAdmin gates a route on the admin role. Must run after Authenticate.
// A non-admin identity gets 403 regardless of resource ownership.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			respondUnauthorized(w, "Not authorized, no token")
			return
		}

		if identity.Role != models.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(models.Response{
				Success: false,
				Message: "Not authorized to access this route",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
