package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/internal/service"
	apperrors "github.com/Agure-la/alx-poll/pkg/errors"
	"github.com/Agure-la/alx-poll/pkg/logger"
)

const qrImageSize = 256

type PollHandler struct {
	pollService *service.PollService
	logger      *logger.Logger
}

func NewPollHandler(pollService *service.PollService, logger *logger.Logger) *PollHandler {
	return &PollHandler{
		pollService: pollService,
		logger:      logger,
	}
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := userProfile(r)
	if user == nil {
		respondAppError(w, h.logger, apperrors.NewAuthenticationError("Authentication required"))
		return
	}

	var req domain.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, h.logger, apperrors.NewValidationError("Invalid request body", nil))
		return
	}

	poll, err := h.pollService.CreatePoll(ctx, user.Sub, &req)
	if err != nil {
		respondAppError(w, h.logger, apperrors.NewValidationError(err.Error(), nil))
		return
	}

	respondJSON(w, http.StatusCreated, poll)
}

// GetPoll handles GET /api/polls/{pollID}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pollID := chi.URLParam(r, "pollID")
	if pollID == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Poll ID is required", nil))
		return
	}

	poll, err := h.pollService.GetPoll(ctx, pollID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

// GetSharedPoll handles GET /api/polls/shared/{shareToken}
func (h *PollHandler) GetSharedPoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shareToken := chi.URLParam(r, "shareToken")
	if shareToken == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Share token is required", nil))
		return
	}

	poll, err := h.pollService.GetPollByShareToken(ctx, shareToken)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

// ListMyPolls handles GET /api/polls
func (h *PollHandler) ListMyPolls(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := userProfile(r)
	if user == nil {
		respondAppError(w, h.logger, apperrors.NewAuthenticationError("Authentication required"))
		return
	}

	polls, err := h.pollService.ListMyPolls(ctx, user.Sub)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"polls": polls,
		"count": len(polls),
	})
}

// UpdatePoll handles PATCH /api/polls/{pollID}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := userProfile(r)
	if user == nil {
		respondAppError(w, h.logger, apperrors.NewAuthenticationError("Authentication required"))
		return
	}

	pollID := chi.URLParam(r, "pollID")
	if pollID == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Poll ID is required", nil))
		return
	}

	var req domain.UpdatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, h.logger, apperrors.NewValidationError("Invalid request body", nil))
		return
	}

	poll, err := h.pollService.UpdatePoll(ctx, user.Sub, pollID, &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /api/polls/{pollID}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := userProfile(r)
	if user == nil {
		respondAppError(w, h.logger, apperrors.NewAuthenticationError("Authentication required"))
		return
	}

	pollID := chi.URLParam(r, "pollID")
	if pollID == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Poll ID is required", nil))
		return
	}

	if err := h.pollService.DeletePoll(ctx, user.Sub, pollID); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPollQR handles GET /api/polls/{pollID}/qr. It renders the poll's
// public share link as a PNG QR code.
func (h *PollHandler) GetPollQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pollID := chi.URLParam(r, "pollID")
	if pollID == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Poll ID is required", nil))
		return
	}

	poll, err := h.pollService.GetPoll(ctx, pollID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	png, err := qrcode.Encode(h.pollService.ShareURL(poll), qrcode.Medium, qrImageSize)
	if err != nil {
		respondAppError(w, h.logger, apperrors.NewInternalError("Failed to render QR code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
