package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agure-la/alx-poll/pkg/logger"
)

const testSecret = "test-jwt-secret"

func newTestService(t *testing.T, secret string) *Service {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return &Service{jwtSecret: secret, logger: log}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken_Valid(t *testing.T) {
	svc := newTestService(t, testSecret)

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub":            "user-42",
		"email":          "user@example.com",
		"email_verified": true,
		"exp":            time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{
			"name":       "Test User",
			"avatar_url": "https://cdn.example.com/a.png",
		},
	})

	profile, err := svc.ValidateToken(context.Background(), tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-42", profile.Sub)
	assert.Equal(t, "user@example.com", profile.Email)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, "Test User", profile.Name)
	assert.Equal(t, "https://cdn.example.com/a.png", profile.Picture)
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := newTestService(t, testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "wrong secret",
			token: signToken(t, "another-secret", jwt.MapClaims{
				"sub": "user-42",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name: "expired",
			token: signToken(t, testSecret, jwt.MapClaims{
				"sub": "user-42",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
		},
		{
			name: "missing subject",
			token: signToken(t, testSecret, jwt.MapClaims{
				"email": "user@example.com",
				"exp":   time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name:  "garbage",
			token: "not.a.jwt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := svc.ValidateToken(context.Background(), tt.token)
			assert.Error(t, err)
			assert.Nil(t, profile)
		})
	}
}

func TestValidateToken_RejectsUnexpectedSigningMethod(t *testing.T) {
	svc := newTestService(t, testSecret)

	// alg=none is never acceptable
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	profile, err := svc.ValidateToken(context.Background(), signed)
	assert.Error(t, err)
	assert.Nil(t, profile)
}

func TestValidateToken_UnconfiguredSecret(t *testing.T) {
	svc := newTestService(t, "")

	profile, err := svc.ValidateToken(context.Background(), signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}))
	assert.Error(t, err)
	assert.Nil(t, profile)
}
