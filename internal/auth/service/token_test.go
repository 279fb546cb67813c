package service

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenGenerator(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		accessExpiry   time.Duration
		expectedSecret string
	}{
		{
			name:           "standard initialization",
			secret:         "test-secret-key",
			accessExpiry:   1 * time.Hour,
			expectedSecret: "test-secret-key",
		},
		{
			name:           "short expiry time",
			secret:         "short-secret",
			accessExpiry:   1 * time.Minute,
			expectedSecret: "short-secret",
		},
		{
			name:           "long expiry time",
			secret:         "long-secret",
			accessExpiry:   30 * 24 * time.Hour,
			expectedSecret: "long-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := NewTokenGenerator(tt.secret, tt.accessExpiry)

			assert.NotNil(t, tg)
			assert.Equal(t, tt.expectedSecret, tg.secret)
			assert.Equal(t, tt.accessExpiry, tg.accessExpiry)
		})
	}
}

func TestTokenGenerator_Generate(t *testing.T) {
	secret := "b8a3c2267dc85f855dea9b46b452bf20"
	tg := NewTokenGenerator(secret, 1*time.Hour)

	t.Run("success with standard userID", func(t *testing.T) {
		token, err := tg.Generate(123)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("userID zero", func(t *testing.T) {
		token, err := tg.Generate(0)
		require.NoError(t, err)

		userID, err := tg.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, 0, userID)
	})

	t.Run("max int userID", func(t *testing.T) {
		token, err := tg.Generate(math.MaxInt32)
		require.NoError(t, err)

		userID, err := tg.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt32, userID)
	})

	t.Run("token format validation", func(t *testing.T) {
		token, err := tg.Generate(789)
		require.NoError(t, err)

		// JWT tokens should have 3 parts separated by dots
		parts := strings.Split(token, ".")
		assert.Len(t, parts, 3)
	})
}

func TestTokenGenerator_Validate(t *testing.T) {
	secret := "b8a3c2267dc85f855dea9b46b452bf20"
	accessExpiry := 1 * time.Hour
	tg := NewTokenGenerator(secret, accessExpiry)

	t.Run("valid token", func(t *testing.T) {
		userID := 456
		token, err := tg.Generate(userID)
		require.NoError(t, err)

		validatedUserID, err := tg.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, userID, validatedUserID)
	})

	t.Run("empty string token", func(t *testing.T) {
		_, err := tg.Validate("")
		assert.Error(t, err)
	})

	t.Run("invalid token format", func(t *testing.T) {
		_, err := tg.Validate("invalid-token")
		assert.Error(t, err)
	})

	t.Run("malformed JWT - missing parts", func(t *testing.T) {
		_, err := tg.Validate("header.payload")
		assert.Error(t, err)
	})

	t.Run("wrong signature method - non-HMAC", func(t *testing.T) {
		claims := jwt.MapClaims{
			"user_id": 123,
			"exp":     time.Now().Add(1 * time.Hour).Unix(),
			"iat":     time.Now().Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tg.Validate(tokenString)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected signing method")
	})

	t.Run("token without user_id claim", func(t *testing.T) {
		claims := jwt.MapClaims{
			"exp": time.Now().Add(1 * time.Hour).Unix(),
			"iat": time.Now().Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = tg.Validate(tokenString)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "user_id not found")
	})

	t.Run("token with string user_id", func(t *testing.T) {
		claims := jwt.MapClaims{
			"user_id": "not-a-number",
			"exp":     time.Now().Add(1 * time.Hour).Unix(),
			"iat":     time.Now().Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = tg.Validate(tokenString)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "user_id not found")
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"user_id": 123,
			"exp":     time.Now().Add(-1 * time.Hour).Unix(),
			"iat":     time.Now().Add(-2 * time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = tg.Validate(tokenString)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := tg.Generate(789)
		require.NoError(t, err)

		wrongTG := NewTokenGenerator("wrong-secret", accessExpiry)
		_, err = wrongTG.Validate(token)
		assert.Error(t, err)
	})
}

func TestTokenGenerator_TokenClaims(t *testing.T) {
	secret := "b8a3c2267dc85f855dea9b46b452bf20"
	accessExpiry := 1 * time.Hour
	tg := NewTokenGenerator(secret, accessExpiry)

	userID := 123
	beforeGeneration := time.Now().Unix()
	tokenString, err := tg.Generate(userID)
	require.NoError(t, err)
	afterGeneration := time.Now().Unix()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)

	// Verify user_id is present and correct
	userIDFloat, ok := claims["user_id"].(float64)
	require.True(t, ok)
	assert.Equal(t, userID, int(userIDFloat))

	// No role claim: role is resolved from the user record on every request
	_, hasRole := claims["role"]
	assert.False(t, hasRole)

	// Verify iat is set correctly (within reasonable time window)
	iat, ok := claims["iat"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, int64(iat), beforeGeneration)
	assert.LessOrEqual(t, int64(iat), afterGeneration)

	// Verify exp is set correctly
	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	expectedExp := time.Unix(int64(iat), 0).Add(accessExpiry).Unix()
	assert.InDelta(t, expectedExp, int64(exp), 1)
}
