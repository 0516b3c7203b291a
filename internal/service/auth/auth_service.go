package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/internal/service"
	"github.com/Agure-la/alx-poll/pkg/errors"
	"github.com/Agure-la/alx-poll/pkg/logger"
)

// Service validates Supabase session JWTs. Sessions are issued by the
// hosted auth provider; this service only verifies signature and expiry
// and extracts the profile, it never mints tokens.
type Service struct {
	jwtSecret string
	logger    *logger.Logger
}

// NewService creates a new auth service
func NewService(jwtSecret string, logger *logger.Logger) service.AuthService {
	return &Service{
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// ValidateToken validates a Supabase JWT with signature verification and
// returns the verified user profile.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.UserProfile, error) {
	if s.jwtSecret == "" {
		s.logger.Error("SUPABASE_JWT_SECRET not configured")
		return nil, errors.NewAuthenticationError("JWT validation not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		s.logger.WithError(err).Error("Failed to parse/validate JWT token")
		return nil, errors.NewAuthenticationError("Invalid JWT token")
	}

	if !token.Valid {
		s.logger.Error("JWT token is not valid")
		return nil, errors.NewAuthenticationError("Invalid JWT token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		s.logger.Error("Failed to extract JWT claims")
		return nil, errors.NewAuthenticationError("Invalid JWT token")
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(exp) {
			s.logger.Error("JWT token has expired")
			return nil, errors.NewAuthenticationError("Token has expired")
		}
	}

	profile := &domain.UserProfile{
		Sub:           getStringValue(claims, "sub"),
		Email:         getStringValue(claims, "email"),
		EmailVerified: getBoolValue(claims, "email_verified"),
	}

	if userMeta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		profile.Name = getStringValue(userMeta, "name")
		profile.Picture = getStringValue(userMeta, "avatar_url")
	}

	if profile.Sub == "" {
		s.logger.Error("No user identifier found in JWT token")
		return nil, errors.NewAuthenticationError("Invalid JWT token: no user identifier")
	}

	s.logger.WithField("user_id", profile.Sub).Debug("JWT token validated successfully")
	return profile, nil
}

func getStringValue(m map[string]interface{}, key string) string {
	if value, ok := m[key].(string); ok {
		return value
	}
	return ""
}

func getBoolValue(m map[string]interface{}, key string) bool {
	if value, ok := m[key].(bool); ok {
		return value
	}
	return false
}
