package handler

import (
	"net/http"

	apperrors "github.com/Agure-la/alx-poll/pkg/errors"
	"github.com/Agure-la/alx-poll/pkg/logger"
)

// AuthHandler handles authentication related requests
type AuthHandler struct {
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		logger: logger,
	}
}

// GetProfile handles GET /api/user/profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := userProfile(r)
	if user == nil {
		h.logger.Error("User not found in context")
		respondAppError(w, h.logger, apperrors.NewAuthenticationError("User not authenticated"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"success": true,
	})
}
