package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	authMiddleware "github.com/taskmanager/backend/internal/auth/middleware"
	"github.com/taskmanager/backend/internal/models"
	"github.com/taskmanager/backend/internal/validation"
	"go.uber.org/zap"
)

// ProfileService is the interface that wraps methods for profile business logic
type ProfileService interface {
	// GetProfile retrieves the caller's profile view.
	//
	// "userID" parameter identifies the caller.
	//
	// If the user does not exist, or some other error occurs, the error will be returned together with "nil" value.
	GetProfile(ctx context.Context, userID int) (*models.ProfileResponse, error)
	// UpdateProfile applies a partial profile update.
	//
	// "userID" parameter identifies the caller.
	// "req" parameter carries the fields to change; nil fields are left untouched.
	//
	// If a new value conflicts with another user, or some other error occurs, the error will be returned together with "nil" value.
	UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.ProfileResponse, error)
}

// AdminService is the interface that wraps methods for admin user management
type AdminService interface {
	// ListUsers retrieves every user without password hashes.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	ListUsers(ctx context.Context) ([]models.UserListItem, error)
	// DeleteUser removes a user by ID.
	//
	// "userID" parameter identifies the user to delete.
	//
	// If the user does not exist or some error occurs, the error will be returned.
	DeleteUser(ctx context.Context, userID int) error
}

// UserHandler handles profile and admin user-management HTTP requests
type UserHandler struct {
	BaseHandler
	profileService ProfileService
	adminService   AdminService
}

// NewUserHandler creates a new user handler
func NewUserHandler(profileService ProfileService, adminService AdminService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		profileService: profileService,
		adminService:   adminService,
	}
}

// RegisterRoutes registers all user handler routes.
// The router must already be behind the authentication middleware.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)

		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin)
			r.Get("/", h.ListUsers)
			r.Delete("/{id}", h.DeleteUser)
		})
	})
}

// GetProfile handles GET /users/profile
// @Summary Get own profile
// @Description Fetch the authenticated caller's profile.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response "Profile"
// @Failure 401 {object} models.Response "Not authenticated"
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), identity.ID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondData(w, http.StatusOK, "", profile)
}

// UpdateProfile handles PUT /users/profile
// @Summary Update own profile
// @Description Partially update the caller's username and/or email. Absent fields are left untouched.
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.UpdateProfileRequest true "Profile update request"
// @Success 200 {object} models.Response "Profile updated successfully"
// @Failure 400 {object} models.Response "Validation error or value already in use"
// @Failure 401 {object} models.Response "Not authenticated"
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.ValidateProfileUpdate(&req); len(errs) > 0 {
		h.RespondValidationErrors(w, errs)
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), identity.ID, &req)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondData(w, http.StatusOK, "Profile updated successfully", profile)
}

// ListUsers handles GET /users
// @Summary List all users
// @Description List every user. Admin only.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response "Users"
// @Failure 403 {object} models.Response "Admin role required"
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondList(w, users, len(users))
}

// DeleteUser handles DELETE /users/{id}
// @Summary Delete a user
// @Description Delete a user by ID. Admin only.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.Response "User deleted successfully"
// @Failure 403 {object} models.Response "Admin role required"
// @Failure 404 {object} models.Response "User not found"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), userID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondData(w, http.StatusOK, "User deleted successfully", nil)
}
