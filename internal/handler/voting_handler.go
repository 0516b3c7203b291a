package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/internal/service"
	apperrors "github.com/Agure-la/alx-poll/pkg/errors"
	"github.com/Agure-la/alx-poll/pkg/logger"
)

type VotingHandler struct {
	voteService *service.VoteService
	logger      *logger.Logger
}

func NewVotingHandler(voteService *service.VoteService, logger *logger.Logger) *VotingHandler {
	return &VotingHandler{
		voteService: voteService,
		logger:      logger,
	}
}

// SubmitVote handles POST /api/polls/{pollID}/votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pollID := chi.URLParam(r, "pollID")
	if pollID == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Poll ID is required", nil))
		return
	}

	var req domain.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, h.logger, apperrors.NewValidationError("Invalid request body", nil))
		return
	}

	optionIDs, err := optionSet(&req)
	if err != nil {
		respondAppError(w, h.logger, apperrors.NewValidationError(err.Error(), nil))
		return
	}

	identity, err := resolveIdentity(r, &req)
	if err != nil {
		respondAppError(w, h.logger, apperrors.NewValidationError(err.Error(), nil))
		return
	}

	meta := domain.VoteMetadata{
		IPAddress: getClientIP(r),
		UserAgent: r.Header.Get("User-Agent"),
	}

	votes, err := h.voteService.SubmitVote(ctx, pollID, optionIDs, identity, meta)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, &domain.VoteResponse{
		PollID:    pollID,
		Votes:     votes,
		Timestamp: time.Now().UTC(),
		Message:   "Vote submitted successfully",
	})
}

// GetMyVoteStatus handles GET /api/polls/{pollID}/my-vote
func (h *VotingHandler) GetMyVoteStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pollID := chi.URLParam(r, "pollID")
	if pollID == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Poll ID is required", nil))
		return
	}

	identity, err := resolveIdentity(r, &domain.VoteRequest{
		VoterEmail: r.URL.Query().Get("voter_email"),
		VoterPhone: r.URL.Query().Get("voter_phone"),
	})
	if err != nil {
		respondAppError(w, h.logger, apperrors.NewValidationError(err.Error(), nil))
		return
	}

	status, err := h.voteService.GetMyVoteStatus(ctx, pollID, identity)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// VerifyVote handles GET /api/votes/{voteID}
func (h *VotingHandler) VerifyVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	voteID := chi.URLParam(r, "voteID")
	if voteID == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Vote ID is required", nil))
		return
	}

	vote, err := h.voteService.VerifyVote(ctx, voteID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, vote)
}

// optionSet normalizes the single-choice and multi-choice request forms
// into one option id list. Exactly one form must be used.
func optionSet(req *domain.VoteRequest) ([]string, error) {
	if req.OptionID != "" && len(req.OptionIDs) > 0 {
		return nil, fmt.Errorf("use either option_id or option_ids, not both")
	}
	if req.OptionID != "" {
		return []string{req.OptionID}, nil
	}
	if len(req.OptionIDs) > 0 {
		return req.OptionIDs, nil
	}
	return nil, fmt.Errorf("option_id or option_ids is required")
}

// resolveIdentity picks the voter identity for a request. A verified
// session always wins; the body's email/phone are only consulted for
// anonymous voters, and exactly one of them must be present then.
func resolveIdentity(r *http.Request, req *domain.VoteRequest) (domain.VoterIdentity, error) {
	if user := userProfile(r); user != nil {
		return domain.NewAuthenticatedIdentity(user.Sub)
	}

	if req.VoterEmail != "" && req.VoterPhone != "" {
		return domain.VoterIdentity{}, fmt.Errorf("supply either voter_email or voter_phone, not both")
	}
	if req.VoterEmail != "" {
		return domain.NewEmailIdentity(req.VoterEmail)
	}
	if req.VoterPhone != "" {
		return domain.NewPhoneIdentity(req.VoterPhone)
	}

	return domain.VoterIdentity{}, fmt.Errorf("voter_email or voter_phone is required for anonymous votes")
}
