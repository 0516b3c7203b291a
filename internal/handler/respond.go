package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/internal/middleware"
	apperrors "github.com/Agure-la/alx-poll/pkg/errors"
	"github.com/Agure-la/alx-poll/pkg/logger"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondAppError serializes an AppError. Internal causes are logged but
// never leak to the client.
func respondAppError(w http.ResponseWriter, log *logger.Logger, appErr *apperrors.AppError) {
	if appErr.Internal != nil {
		log.WithError(appErr.Internal).Error(appErr.Message)
	}

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}

// respondDomainError maps the vote-intake error taxonomy to stable
// machine-readable codes. Every expected rejection stays distinguishable;
// only unexpected storage failures collapse to a generic internal error.
func respondDomainError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrPollNotFound):
		respondAppError(w, log, apperrors.NewNotFoundError("Poll not found"))
	case errors.Is(err, domain.ErrVoteNotFound):
		respondAppError(w, log, apperrors.NewNotFoundError("Vote not found"))
	case errors.Is(err, domain.ErrPollInactive):
		respondAppError(w, log, apperrors.NewPollInactiveError("Poll is not accepting votes"))
	case errors.Is(err, domain.ErrPollExpired):
		respondAppError(w, log, apperrors.NewPollExpiredError("Poll has expired"))
	case errors.Is(err, domain.ErrAuthenticationRequired):
		respondAppError(w, log, apperrors.NewAuthenticationError("This poll requires a signed-in voter"))
	case errors.Is(err, domain.ErrInvalidOption):
		respondAppError(w, log, apperrors.NewInvalidOptionError("Option selection does not fit this poll"))
	case errors.Is(err, domain.ErrAlreadyVoted):
		respondAppError(w, log, apperrors.NewAlreadyVotedError("You have already voted"))
	case errors.Is(err, domain.ErrNotPollOwner):
		respondAppError(w, log, apperrors.NewAuthorizationError("Only the poll owner can do this"))
	default:
		respondAppError(w, log, apperrors.NewInternalError("Request failed", err))
	}
}

// userProfile returns the verified session profile, or nil for anonymous requests
func userProfile(r *http.Request) *domain.UserProfile {
	if user, ok := r.Context().Value(middleware.UserContextKey).(*domain.UserProfile); ok {
		return user
	}
	return nil
}

// getClientIP resolves the requester IP, preferring proxy headers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr

	if strings.HasPrefix(ip, "[") {
		// IPv6 address like [::1]:port
		if idx := strings.LastIndex(ip, "]:"); idx != -1 {
			ip = ip[1:idx]
		}
	} else {
		if idx := strings.LastIndex(ip, ":"); idx != -1 {
			ip = ip[:idx]
		}
	}

	if ip == "::1" {
		return "127.0.0.1"
	}

	return ip
}
