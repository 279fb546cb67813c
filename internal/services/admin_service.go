package services

import (
	"context"

	"github.com/taskmanager/backend/internal/apperrors"
	"github.com/taskmanager/backend/internal/models"
	"go.uber.org/zap"
)

// AdminUserRepository is the interface that wraps methods for User table data access needed by the admin service
type AdminUserRepository interface {
	// GetAll retrieves every user, newest first.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.User, error)
	// Delete deletes a user by ID.
	//
	// "userID" parameter is used to identify the user to delete.
	//
	// If the user does not exist or some error occurs, the error will be returned.
	Delete(ctx context.Context, userID int) error
}

// adminService implements admin-only user management
type adminService struct {
	userRepo AdminUserRepository
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo AdminUserRepository, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers retrieves every user. Password hashes never leave the service
// layer.
func (s *adminService) ListUsers(ctx context.Context) ([]models.UserListItem, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.UserListItem, len(users))
	for i, user := range users {
		items[i] = models.UserListItem{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		}
	}

	return items, nil
}

// DeleteUser removes a user by ID
func (s *adminService) DeleteUser(ctx context.Context, userID int) error {
	if userID <= 0 {
		return apperrors.NotFound("User not found")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.Int("user_id", userID))
	return nil
}
