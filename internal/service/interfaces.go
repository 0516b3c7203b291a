package service

import (
	"context"

	"github.com/Agure-la/alx-poll/internal/domain"
)

// AuthService defines the interface for session validation. The session
// provider is the only source of authenticated voter ids; handlers never
// trust a client-supplied user id.
type AuthService interface {
	// ValidateToken validates a bearer token and returns the verified profile
	ValidateToken(ctx context.Context, token string) (*domain.UserProfile, error)
}

// Services aggregates all service interfaces
type Services struct {
	Auth AuthService
}
