package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/internal/repository"
)

// VoteService accepts candidate votes and either persists them or rejects
// them with a precise, machine-distinguishable reason. Checks run in a
// fixed short-circuiting order; the first failing rule wins.
type VoteService struct {
	pollStore repository.PollStore
	voteStore repository.VoteStore
	cache     *CacheService
	logger    *zap.Logger
}

func NewVoteService(pollStore repository.PollStore, voteStore repository.VoteStore, cache *CacheService, logger *zap.Logger) *VoteService {
	return &VoteService{
		pollStore: pollStore,
		voteStore: voteStore,
		cache:     cache,
		logger:    logger,
	}
}

// SubmitVote validates and persists one submission: a single option for
// single-choice polls, or a batch of options for multi-choice polls. The
// batch is one atomic unit: every requested option is inserted in one
// transaction or none are.
//
// The duplicate pre-check here is a fast path for UX only. The partial
// unique indexes on the votes table are the authoritative guard against
// concurrent duplicates; the repository maps their violation to
// domain.ErrAlreadyVoted.
func (s *VoteService) SubmitVote(ctx context.Context, pollID string, optionIDs []string, identity domain.VoterIdentity, meta domain.VoteMetadata) ([]domain.Vote, error) {
	if identity.IsZero() {
		return nil, fmt.Errorf("voter identity is required")
	}

	// 1. Poll must exist
	poll, err := s.cache.GetPollWithCache(ctx, pollID, s.pollStore.GetPollByID)
	if err != nil {
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}

	// 2. Poll must be active
	if !poll.IsActive {
		return nil, domain.ErrPollInactive
	}

	// 3. Expiry wins over the active flag
	if poll.HasExpired(time.Now()) {
		return nil, domain.ErrPollExpired
	}

	// 4. Auth-required polls accept only session-backed identities
	if poll.RequireAuthentication && !identity.IsAuthenticated() {
		return nil, domain.ErrAuthenticationRequired
	}

	// 5. Option set must fit the poll
	if err := validateOptionSet(poll, optionIDs); err != nil {
		return nil, err
	}

	// 6. Duplicate fast path: cached voted flag, then existing rows
	if !poll.AllowMultipleVotes {
		if voted, cacheErr := s.cache.IdentityVoted(ctx, pollID, identity.Key()); cacheErr == nil && voted {
			return nil, domain.ErrAlreadyVoted
		}
	}

	existing, err := s.voteStore.ListVotesByIdentity(ctx, pollID, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing votes: %w", err)
	}

	if !poll.AllowMultipleVotes && len(existing) > 0 {
		return nil, domain.ErrAlreadyVoted
	}
	if poll.AllowMultipleVotes {
		votedOptions := make(map[string]bool, len(existing))
		for _, vote := range existing {
			votedOptions[vote.OptionID] = true
		}
		// Atomic batch semantics: one duplicated option rejects the
		// whole submission, leaving no partial state.
		for _, optionID := range optionIDs {
			if votedOptions[optionID] {
				return nil, domain.ErrAlreadyVoted
			}
		}
	}

	// 7. Persist all rows in one transaction
	votes := make([]*domain.Vote, 0, len(optionIDs))
	for _, optionID := range optionIDs {
		vote := &domain.Vote{
			ID:        uuid.NewString(),
			PollID:    pollID,
			OptionID:  optionID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}
		switch identity.Kind {
		case domain.IdentityAuthenticated:
			vote.VoterID = identity.Value
		case domain.IdentityAnonymousEmail:
			vote.VoterEmail = identity.Value
		case domain.IdentityAnonymousPhone:
			vote.VoterPhone = identity.Value
		}
		votes = append(votes, vote)
	}

	if err := s.voteStore.InsertVotes(ctx, votes, !poll.AllowMultipleVotes); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			// Lost a race against a concurrent submission from the
			// same identity; the constraint is the arbiter.
			return nil, domain.ErrAlreadyVoted
		}
		s.logger.Error("Failed to persist votes",
			zap.String("poll_id", pollID),
			zap.Int("options", len(optionIDs)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to persist votes: %w", err)
	}

	if err := s.cache.CacheVoteSubmission(ctx, pollID, identity.Key()); err != nil {
		s.logger.Warn("Failed to cache vote submission",
			zap.String("poll_id", pollID),
			zap.Error(err))
	}
	s.cache.InvalidateResultCaches(pollID)

	s.logger.Info("Vote submitted",
		zap.String("poll_id", pollID),
		zap.String("identity_kind", string(identity.Kind)),
		zap.Int("options", len(optionIDs)))

	result := make([]domain.Vote, 0, len(votes))
	for _, vote := range votes {
		result = append(result, *vote)
	}
	return result, nil
}

// GetMyVoteStatus reports whether an identity has voted on a poll and
// which options it selected.
func (s *VoteService) GetMyVoteStatus(ctx context.Context, pollID string, identity domain.VoterIdentity) (*domain.MyVoteStatus, error) {
	poll, err := s.cache.GetPollWithCache(ctx, pollID, s.pollStore.GetPollByID)
	if err != nil {
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}

	votes, err := s.voteStore.ListVotesByIdentity(ctx, pollID, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	status := &domain.MyVoteStatus{
		PollID:   pollID,
		HasVoted: len(votes) > 0,
	}
	for _, vote := range votes {
		status.OptionIDs = append(status.OptionIDs, vote.OptionID)
	}
	return status, nil
}

// VerifyVote retrieves a recorded vote by id
func (s *VoteService) VerifyVote(ctx context.Context, voteID string) (*domain.Vote, error) {
	vote, err := s.voteStore.GetVoteByID(ctx, voteID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify vote: %w", err)
	}
	if vote == nil {
		return nil, domain.ErrVoteNotFound
	}
	return vote, nil
}

// validateOptionSet enforces rule 5: every supplied option must belong to
// the poll, the set must be non-empty and free of duplicates, and more
// than one option is only valid on multi-choice polls.
func validateOptionSet(poll *domain.Poll, optionIDs []string) error {
	if len(optionIDs) == 0 {
		return domain.ErrInvalidOption
	}
	if len(optionIDs) > 1 && !poll.AllowMultipleVotes {
		return domain.ErrInvalidOption
	}

	seen := make(map[string]bool, len(optionIDs))
	for _, optionID := range optionIDs {
		if seen[optionID] {
			return domain.ErrInvalidOption
		}
		seen[optionID] = true

		if poll.OptionByID(optionID) == nil {
			return domain.ErrInvalidOption
		}
	}
	return nil
}
