package services

import (
	"context"
	"strings"
	"time"

	"github.com/taskmanager/backend/internal/apperrors"
	"github.com/taskmanager/backend/internal/auth/service"
	"github.com/taskmanager/backend/internal/models"
	"github.com/taskmanager/backend/internal/notifier"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthUserRepository is the interface that wraps methods for User table data access needed by the auth service
type AuthUserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// "email" parameter is used to retrieve a user by email.
	//
	// If user with such email does not exist, the error will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// "email" parameter is used to check if a user with such email exists.
	// "excludeUserID" parameter skips that user's own row; pass 0 to check all rows.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string, excludeUserID int) (bool, error)
	// Method ExistsByUsername checks if a user with such username exists.
	//
	// "username" parameter is used to check if a user with such username exists.
	// "excludeUserID" parameter skips that user's own row; pass 0 to check all rows.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByUsername(ctx context.Context, username string, excludeUserID int) (bool, error)
}

// authService implements registration and login
type authService struct {
	userRepo       AuthUserRepository
	tokenGenerator *service.TokenGenerator
	notifier       notifier.Notifier
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo AuthUserRepository,
	tokenGenerator *service.TokenGenerator,
	notifier notifier.Notifier,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		notifier:       notifier,
		logger:         logger,
	}
}

// Register creates a new user account and returns the identity with a signed token
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))
	normalizedUsername := strings.TrimSpace(req.Username)

	// Check email and username uniqueness in parallel
	//
	// The checks are independent, so goroutines run them concurrently.
	uniquenessErrors := make(chan error, 2)

	go func() {
		exists, err := s.userRepo.ExistsByEmail(ctx, normalizedEmail, 0)
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
		exists, err := s.userRepo.ExistsByUsername(ctx, normalizedUsername, 0)
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

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	// Create user
	user := &models.User{
		Username:     normalizedUsername,
		Email:        normalizedEmail,
		PasswordHash: string(passwordHash),
		Role:         models.RoleUser, // Default role
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Send the welcome email without blocking the registration response.
	// Delivery failures are logged and never fail the registration.
	welcomeCtx := context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.SendWelcome(welcomeCtx, user.Email, user.Username); err != nil {
			s.logger.Warn("failed to send welcome email", zap.Int("user_id", user.ID), zap.Error(err))
		}
	}()

	token, err := s.tokenGenerator.Generate(user.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}

	return &models.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Token:    token,
	}, nil
}

// Login authenticates a user by email and password.
// Unknown email and wrong password produce the same error, so the endpoint
// does not reveal which accounts exist.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, normalizedEmail)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Unauthenticated("Invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}

	token, err := s.tokenGenerator.Generate(user.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}

	return &models.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Token:    token,
	}, nil
}
