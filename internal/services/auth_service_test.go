package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskmanager/backend/internal/apperrors"
	"github.com/taskmanager/backend/internal/auth/service"
	"github.com/taskmanager/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockAuthUserRepository is a mock implementation of AuthUserRepository for service tests
type mockAuthUserRepository struct {
	createdUser         *models.User
	createErr           error
	userByEmail         *models.User
	getByEmailErr       error
	existsByEmail       bool
	existsByEmailErr    error
	existsByUsername    bool
	existsByUsernameErr error
}

func (m *mockAuthUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 1
	m.createdUser = user
	return nil
}

func (m *mockAuthUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	return m.userByEmail, nil
}

func (m *mockAuthUserRepository) ExistsByEmail(ctx context.Context, email string, excludeUserID int) (bool, error) {
	if m.existsByEmailErr != nil {
		return false, m.existsByEmailErr
	}
	return m.existsByEmail, nil
}

func (m *mockAuthUserRepository) ExistsByUsername(ctx context.Context, username string, excludeUserID int) (bool, error) {
	if m.existsByUsernameErr != nil {
		return false, m.existsByUsernameErr
	}
	return m.existsByUsername, nil
}

// mockNotifier records dispatched emails for assertions
type mockNotifier struct {
	welcomeSent  chan string
	reminderSent chan string
	sendErr      error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{
		welcomeSent:  make(chan string, 1),
		reminderSent: make(chan string, 1),
	}
}

func (m *mockNotifier) SendWelcome(ctx context.Context, email, username string) error {
	m.welcomeSent <- email
	return m.sendErr
}

func (m *mockNotifier) SendTaskReminder(ctx context.Context, email, taskTitle string, dueDate time.Time) error {
	m.reminderSent <- email
	return m.sendErr
}

func newTestTokenGenerator() *service.TokenGenerator {
	return service.NewTokenGenerator("test-secret", 1*time.Hour)
}

func TestNewAuthService(t *testing.T) {
	svc := NewAuthService(&mockAuthUserRepository{}, newTestTokenGenerator(), newMockNotifier(), zap.NewNop())

	assert.NotNil(t, svc)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name            string
		req             *models.RegisterRequest
		mockRepo        *mockAuthUserRepository
		expectedError   bool
		expectedKind    apperrors.Kind
		expectedMessage string
	}{
		{
			name: "success",
			req: &models.RegisterRequest{
				Username: "testuser",
				Email:    "Test@Example.COM",
				Password: "secret123",
			},
			mockRepo:      &mockAuthUserRepository{},
			expectedError: false,
		},
		{
			name: "email already in use",
			req: &models.RegisterRequest{
				Username: "testuser",
				Email:    "taken@example.com",
				Password: "secret123",
			},
			mockRepo:        &mockAuthUserRepository{existsByEmail: true},
			expectedError:   true,
			expectedKind:    apperrors.KindValidation,
			expectedMessage: "Email already in use",
		},
		{
			name: "username already in use",
			req: &models.RegisterRequest{
				Username: "takenuser",
				Email:    "test@example.com",
				Password: "secret123",
			},
			mockRepo:        &mockAuthUserRepository{existsByUsername: true},
			expectedError:   true,
			expectedKind:    apperrors.KindValidation,
			expectedMessage: "Username already in use",
		},
		{
			name: "uniqueness check failure",
			req: &models.RegisterRequest{
				Username: "testuser",
				Email:    "test@example.com",
				Password: "secret123",
			},
			mockRepo:      &mockAuthUserRepository{existsByEmailErr: errors.New("database error")},
			expectedError: true,
			expectedKind:  apperrors.KindInternal,
		},
		{
			name: "create failure",
			req: &models.RegisterRequest{
				Username: "testuser",
				Email:    "test@example.com",
				Password: "secret123",
			},
			mockRepo:      &mockAuthUserRepository{createErr: errors.New("database error")},
			expectedError: true,
			expectedKind:  apperrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := newMockNotifier()
			svc := NewAuthService(tt.mockRepo, newTestTokenGenerator(), notifier, zap.NewNop())

			resp, err := svc.Register(context.Background(), tt.req)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, resp)
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
				if tt.expectedMessage != "" {
					assert.Equal(t, tt.expectedMessage, apperrors.MessageOf(err))
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, 1, resp.ID)
				assert.Equal(t, "testuser", resp.Username)
				assert.Equal(t, "test@example.com", resp.Email)
				assert.Equal(t, models.RoleUser, resp.Role)
				assert.NotEmpty(t, resp.Token)

				// Stored user carries a bcrypt hash, never the plain password
				require.NotNil(t, tt.mockRepo.createdUser)
				assert.NotEqual(t, tt.req.Password, tt.mockRepo.createdUser.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword(
					[]byte(tt.mockRepo.createdUser.PasswordHash), []byte(tt.req.Password)))

				// Welcome email goes to the normalized address
				select {
				case email := <-notifier.welcomeSent:
					assert.Equal(t, "test@example.com", email)
				case <-time.After(2 * time.Second):
					t.Fatal("welcome email was not dispatched")
				}
			}
		})
	}
}

func TestAuthService_Register_WelcomeFailureDoesNotFail(t *testing.T) {
	mockRepo := &mockAuthUserRepository{}
	notifier := newMockNotifier()
	notifier.sendErr = errors.New("smtp error")
	svc := NewAuthService(mockRepo, newTestTokenGenerator(), notifier, zap.NewNop())

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.NotNil(t, resp)

	select {
	case <-notifier.welcomeSent:
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was not dispatched")
	}
}

func TestAuthService_Login(t *testing.T) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	storedUser := &models.User{
		ID:           1,
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: string(passwordHash),
		Role:         models.RoleAdmin,
	}

	tests := []struct {
		name            string
		req             *models.LoginRequest
		mockRepo        *mockAuthUserRepository
		expectedError   bool
		expectedKind    apperrors.Kind
		expectedMessage string
	}{
		{
			name: "success",
			req: &models.LoginRequest{
				Email:    "Test@Example.com",
				Password: "secret123",
			},
			mockRepo:      &mockAuthUserRepository{userByEmail: storedUser},
			expectedError: false,
		},
		{
			name: "unknown email",
			req: &models.LoginRequest{
				Email:    "missing@example.com",
				Password: "secret123",
			},
			mockRepo:        &mockAuthUserRepository{getByEmailErr: apperrors.NotFound("User not found")},
			expectedError:   true,
			expectedKind:    apperrors.KindAuthentication,
			expectedMessage: "Invalid email or password",
		},
		{
			name: "wrong password",
			req: &models.LoginRequest{
				Email:    "test@example.com",
				Password: "wrongpassword",
			},
			mockRepo:        &mockAuthUserRepository{userByEmail: storedUser},
			expectedError:   true,
			expectedKind:    apperrors.KindAuthentication,
			expectedMessage: "Invalid email or password",
		},
		{
			name: "database error",
			req: &models.LoginRequest{
				Email:    "test@example.com",
				Password: "secret123",
			},
			mockRepo:      &mockAuthUserRepository{getByEmailErr: errors.New("database error")},
			expectedError: true,
			expectedKind:  apperrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(tt.mockRepo, newTestTokenGenerator(), newMockNotifier(), zap.NewNop())

			resp, err := svc.Login(context.Background(), tt.req)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, resp)
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
				if tt.expectedMessage != "" {
					assert.Equal(t, tt.expectedMessage, apperrors.MessageOf(err))
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, storedUser.ID, resp.ID)
				assert.Equal(t, storedUser.Username, resp.Username)
				assert.Equal(t, storedUser.Email, resp.Email)
				assert.Equal(t, storedUser.Role, resp.Role)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}
