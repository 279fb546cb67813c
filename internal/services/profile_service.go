package services

import (
	"context"
	"strings"

	"github.com/taskmanager/backend/internal/apperrors"
	"github.com/taskmanager/backend/internal/models"
)

// ProfileUserRepository is the interface that wraps methods for User table data access needed by the profile service
type ProfileUserRepository interface {
	// GetByID retrieves a user by ID.
	//
	// "userID" parameter is used to retrieve a user by ID.
	//
	// If user with such ID does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Update applies the non-nil fields of the profile patch.
	//
	// "userID" parameter is used to identify the user.
	// "patch" parameter carries the fields to update.
	//
	// If some error occurs during user update, the error will be returned.
	Update(ctx context.Context, userID int, patch *models.UpdateProfileRequest) error
	// ExistsByEmail checks if a user exists with the given email.
	//
	// "excludeUserID" parameter skips that user's own row.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string, excludeUserID int) (bool, error)
	// ExistsByUsername checks if a user exists with the given username.
	//
	// "excludeUserID" parameter skips that user's own row.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByUsername(ctx context.Context, username string, excludeUserID int) (bool, error)
}

// profileService implements profile reads and partial updates
type profileService struct {
	userRepo ProfileUserRepository
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo ProfileUserRepository) *profileService {
	return &profileService{
		userRepo: userRepo,
	}
}

// GetProfile retrieves the caller's profile view
func (s *profileService) GetProfile(ctx context.Context, userID int) (*models.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return profileOf(user), nil
}

// UpdateProfile applies a partial profile update after uniqueness checks.
// Fields absent from the payload are left untouched.
func (s *profileService) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	patch := &models.UpdateProfileRequest{}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		patch.Username = &username
	}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		patch.Email = &email
	}

	// Check the new values against other users in parallel; keeping a field
	// at its current value is not a conflict.
	uniquenessErrors := make(chan error, 2)

	go func() {
		if patch.Email == nil {
			uniquenessErrors <- nil
			return
		}
		exists, err := s.userRepo.ExistsByEmail(ctx, *patch.Email, userID)
		if err != nil {
			uniquenessErrors <- err
			return
		}
		if exists {
			uniquenessErrors <- apperrors.Validation("Email already in use")
			return
		}
		uniquenessErrors <- nil
	}()

	go func() {
		if patch.Username == nil {
			uniquenessErrors <- nil
			return
		}
		exists, err := s.userRepo.ExistsByUsername(ctx, *patch.Username, userID)
		if err != nil {
			uniquenessErrors <- err
			return
		}
		if exists {
			uniquenessErrors <- apperrors.Validation("Username already in use")
			return
		}
		uniquenessErrors <- nil
	}()

	for i := 0; i < 2; i++ {
		if err := <-uniquenessErrors; err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, userID, patch); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return profileOf(user), nil
}

func profileOf(user *models.User) *models.ProfileResponse {
	return &models.ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
