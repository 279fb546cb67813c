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
	"go.uber.org/zap"
)

// mockAdminUserRepository is a mock implementation of AdminUserRepository for service tests
type mockAdminUserRepository struct {
	users        []models.User
	getAllErr    error
	deleteErr    error
	deleteCalled bool
}

func (m *mockAdminUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.users, nil
}

func (m *mockAdminUserRepository) Delete(ctx context.Context, userID int) error {
	m.deleteCalled = true
	return m.deleteErr
}

func TestNewAdminService(t *testing.T) {
	svc := NewAdminService(&mockAdminUserRepository{}, zap.NewNop())

	assert.NotNil(t, svc)
}

func TestAdminService_ListUsers(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		mockRepo      *mockAdminUserRepository
		expectedError bool
		expectedItems []models.UserListItem
	}{
		{
			name: "success",
			mockRepo: &mockAdminUserRepository{
				users: []models.User{
					{
						ID:           2,
						Username:     "bob",
						Email:        "bob@example.com",
						PasswordHash: "hash2",
						Role:         models.RoleAdmin,
						CreatedAt:    createdAt,
					},
					{
						ID:           1,
						Username:     "alice",
						Email:        "alice@example.com",
						PasswordHash: "hash1",
						Role:         models.RoleUser,
						CreatedAt:    createdAt,
					},
				},
			},
			expectedError: false,
			expectedItems: []models.UserListItem{
				{ID: 2, Username: "bob", Email: "bob@example.com", Role: models.RoleAdmin, CreatedAt: createdAt},
				{ID: 1, Username: "alice", Email: "alice@example.com", Role: models.RoleUser, CreatedAt: createdAt},
			},
		},
		{
			name:          "empty list",
			mockRepo:      &mockAdminUserRepository{users: []models.User{}},
			expectedError: false,
			expectedItems: []models.UserListItem{},
		},
		{
			name:          "database error",
			mockRepo:      &mockAdminUserRepository{getAllErr: errors.New("database error")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAdminService(tt.mockRepo, zap.NewNop())

			items, err := svc.ListUsers(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, items)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedItems, items)
			}
		})
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	tests := []struct {
		name          string
		userID        int
		mockRepo      *mockAdminUserRepository
		expectedError bool
		notFound      bool
		deleteCalled  bool
	}{
		{
			name:          "success",
			userID:        1,
			mockRepo:      &mockAdminUserRepository{},
			expectedError: false,
			deleteCalled:  true,
		},
		{
			name:          "zero id rejected without repo call",
			userID:        0,
			mockRepo:      &mockAdminUserRepository{},
			expectedError: true,
			notFound:      true,
			deleteCalled:  false,
		},
		{
			name:          "negative id rejected without repo call",
			userID:        -5,
			mockRepo:      &mockAdminUserRepository{},
			expectedError: true,
			notFound:      true,
			deleteCalled:  false,
		},
		{
			name:          "user not found",
			userID:        999,
			mockRepo:      &mockAdminUserRepository{deleteErr: apperrors.NotFound("User not found")},
			expectedError: true,
			notFound:      true,
			deleteCalled:  true,
		},
		{
			name:          "database error",
			userID:        1,
			mockRepo:      &mockAdminUserRepository{deleteErr: errors.New("database error")},
			expectedError: true,
			deleteCalled:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAdminService(tt.mockRepo, zap.NewNop())

			err := svc.DeleteUser(context.Background(), tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.notFound {
					assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
				}
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.deleteCalled, tt.mockRepo.deleteCalled)
		})
	}
}
