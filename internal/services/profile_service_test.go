package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskmanager/backend/internal/apperrors"
	"github.com/taskmanager/backend/internal/models"
)

// mockProfileUserRepository is a mock implementation of ProfileUserRepository for service tests
type mockProfileUserRepository struct {
	user                *models.User
	getByIDErr          error
	updateErr           error
	updatedPatch        *models.UpdateProfileRequest
	existsByEmail       bool
	existsByEmailErr    error
	existsByUsername    bool
	existsByUsernameErr error
}

func (m *mockProfileUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	return m.user, nil
}

func (m *mockProfileUserRepository) Update(ctx context.Context, userID int, patch *models.UpdateProfileRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedPatch = patch
	if patch.Username != nil {
		m.user.Username = *patch.Username
	}
	if patch.Email != nil {
		m.user.Email = *patch.Email
	}
	return nil
}

func (m *mockProfileUserRepository) ExistsByEmail(ctx context.Context, email string, excludeUserID int) (bool, error) {
	if m.existsByEmailErr != nil {
		return false, m.existsByEmailErr
	}
	return m.existsByEmail, nil
}

func (m *mockProfileUserRepository) ExistsByUsername(ctx context.Context, username string, excludeUserID int) (bool, error) {
	if m.existsByUsernameErr != nil {
		return false, m.existsByUsernameErr
	}
	return m.existsByUsername, nil
}

func TestNewProfileService(t *testing.T) {
	svc := NewProfileService(&mockProfileUserRepository{})

	assert.NotNil(t, svc)
}

func TestProfileService_GetProfile(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		userID          int
		mockRepo        *mockProfileUserRepository
		expectedError   bool
		expectedProfile *models.ProfileResponse
	}{
		{
			name:   "success",
			userID: 1,
			mockRepo: &mockProfileUserRepository{
				user: &models.User{
					ID:           1,
					Username:     "testuser",
					Email:        "test@example.com",
					PasswordHash: "hashedpassword",
					Role:         models.RoleUser,
					CreatedAt:    createdAt,
				},
			},
			expectedError: false,
			expectedProfile: &models.ProfileResponse{
				ID:        1,
				Username:  "testuser",
				Email:     "test@example.com",
				Role:      models.RoleUser,
				CreatedAt: createdAt,
			},
		},
		{
			name:   "user not found",
			userID: 999,
			mockRepo: &mockProfileUserRepository{
				getByIDErr: apperrors.NotFound("User not found"),
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProfileService(tt.mockRepo)

			profile, err := svc.GetProfile(context.Background(), tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, profile)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedProfile, profile)
			}
		})
	}
}

func TestProfileService_UpdateProfile(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	baseUser := func() *models.User {
		return &models.User{
			ID:       1,
			Username: "olduser",
			Email:    "old@example.com",
			Role:     models.RoleUser,
		}
	}

	tests := []struct {
		name            string
		req             *models.UpdateProfileRequest
		mockRepo        *mockProfileUserRepository
		expectedError   bool
		expectedMessage string
		checkResult     func(*testing.T, *mockProfileUserRepository, *models.ProfileResponse)
	}{
		{
			name:     "update username only",
			req:      &models.UpdateProfileRequest{Username: strPtr("  newuser  ")},
			mockRepo: &mockProfileUserRepository{user: baseUser()},
			checkResult: func(t *testing.T, repo *mockProfileUserRepository, profile *models.ProfileResponse) {
				require.NotNil(t, repo.updatedPatch)
				require.NotNil(t, repo.updatedPatch.Username)
				assert.Equal(t, "newuser", *repo.updatedPatch.Username)
				assert.Nil(t, repo.updatedPatch.Email)
				assert.Equal(t, "newuser", profile.Username)
				assert.Equal(t, "old@example.com", profile.Email)
			},
		},
		{
			name:     "email is normalized",
			req:      &models.UpdateProfileRequest{Email: strPtr("New@Example.COM")},
			mockRepo: &mockProfileUserRepository{user: baseUser()},
			checkResult: func(t *testing.T, repo *mockProfileUserRepository, profile *models.ProfileResponse) {
				require.NotNil(t, repo.updatedPatch)
				require.NotNil(t, repo.updatedPatch.Email)
				assert.Equal(t, "new@example.com", *repo.updatedPatch.Email)
				assert.Equal(t, "new@example.com", profile.Email)
			},
		},
		{
			name: "email already in use",
			req:  &models.UpdateProfileRequest{Email: strPtr("taken@example.com")},
			mockRepo: &mockProfileUserRepository{
				user:          baseUser(),
				existsByEmail: true,
			},
			expectedError:   true,
			expectedMessage: "Email already in use",
		},
		{
			name: "username already in use",
			req:  &models.UpdateProfileRequest{Username: strPtr("takenuser")},
			mockRepo: &mockProfileUserRepository{
				user:             baseUser(),
				existsByUsername: true,
			},
			expectedError:   true,
			expectedMessage: "Username already in use",
		},
		{
			name: "uniqueness check failure",
			req:  &models.UpdateProfileRequest{Email: strPtr("new@example.com")},
			mockRepo: &mockProfileUserRepository{
				user:             baseUser(),
				existsByEmailErr: errors.New("database error"),
			},
			expectedError: true,
		},
		{
			name: "update failure",
			req:  &models.UpdateProfileRequest{Username: strPtr("newuser")},
			mockRepo: &mockProfileUserRepository{
				user:      baseUser(),
				updateErr: errors.New("database error"),
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProfileService(tt.mockRepo)

			profile, err := svc.UpdateProfile(context.Background(), 1, tt.req)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, profile)
				if tt.expectedMessage != "" {
					assert.Equal(t, tt.expectedMessage, apperrors.MessageOf(err))
					assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, profile)
				if tt.checkResult != nil {
					tt.checkResult(t, tt.mockRepo, profile)
				}
			}
		})
	}
}
