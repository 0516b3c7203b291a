package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/internal/repository"
)

// Poll shape limits
const (
	minPollOptions = 2
	maxPollOptions = 20
	maxTitleLength = 200
)

// PollService owns poll lifecycle: atomic creation with options, lookups
// by id and share token, owner-only settings edits and deletion.
type PollService struct {
	pollStore     repository.PollStore
	cache         *CacheService
	publicBaseURL string
	logger        *zap.Logger
}

func NewPollService(pollStore repository.PollStore, cache *CacheService, publicBaseURL string, logger *zap.Logger) *PollService {
	return &PollService{
		pollStore:     pollStore,
		cache:         cache,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// CreatePoll creates a poll and its options atomically. The share token
// is an unguessable uuid minted here, never client-supplied.
func (s *PollService) CreatePoll(ctx context.Context, ownerID string, req *domain.CreatePollRequest) (*domain.Poll, error) {
	if err := validateCreatePoll(req); err != nil {
		return nil, err
	}

	pollID := uuid.NewString()
	poll := &domain.Poll{
		ID:                    pollID,
		Title:                 strings.TrimSpace(req.Title),
		Description:           strings.TrimSpace(req.Description),
		CreatedBy:             ownerID,
		IsActive:              true,
		AllowMultipleVotes:    req.AllowMultipleVotes,
		RequireAuthentication: req.RequireAuthentication,
		ExpiresAt:             req.ExpiresAt,
		ShareToken:            uuid.NewString(),
	}

	for i, text := range req.Options {
		poll.Options = append(poll.Options, domain.PollOption{
			ID:         uuid.NewString(),
			PollID:     pollID,
			Text:       strings.TrimSpace(text),
			OrderIndex: i,
		})
	}

	if err := s.pollStore.CreatePoll(ctx, poll); err != nil {
		s.logger.Error("Failed to create poll",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	s.logger.Info("Poll created",
		zap.String("poll_id", poll.ID),
		zap.String("owner_id", ownerID),
		zap.Int("options", len(poll.Options)))

	return poll, nil
}

// GetPoll retrieves a poll by id
func (s *PollService) GetPoll(ctx context.Context, pollID string) (*domain.Poll, error) {
	poll, err := s.cache.GetPollWithCache(ctx, pollID, s.pollStore.GetPollByID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}
	return poll, nil
}

// GetPollByShareToken retrieves a poll by its unguessable share token
func (s *PollService) GetPollByShareToken(ctx context.Context, shareToken string) (*domain.Poll, error) {
	poll, err := s.pollStore.GetPollByShareToken(ctx, shareToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll by share token: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}
	return poll, nil
}

// ListMyPolls retrieves all polls created by the given user
func (s *PollService) ListMyPolls(ctx context.Context, ownerID string) ([]domain.Poll, error) {
	polls, err := s.pollStore.ListPollsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	return polls, nil
}

// UpdatePoll applies an owner-only settings edit. Nil request fields are
// left unchanged; options are immutable after creation.
func (s *PollService) UpdatePoll(ctx context.Context, ownerID, pollID string, req *domain.UpdatePollRequest) (*domain.Poll, error) {
	poll, err := s.pollStore.GetPollByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}
	if poll.CreatedBy != ownerID {
		return nil, domain.ErrNotPollOwner
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > maxTitleLength {
			return nil, fmt.Errorf("title must be 1-%d characters", maxTitleLength)
		}
		poll.Title = title
	}
	if req.Description != nil {
		poll.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		poll.IsActive = *req.IsActive
	}
	if req.AllowMultipleVotes != nil {
		poll.AllowMultipleVotes = *req.AllowMultipleVotes
	}
	if req.RequireAuthentication != nil {
		poll.RequireAuthentication = *req.RequireAuthentication
	}
	if req.ExpiresAt != nil {
		poll.ExpiresAt = req.ExpiresAt
	}

	if err := s.pollStore.UpdatePoll(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to update poll: %w", err)
	}

	if err := s.cache.InvalidatePoll(ctx, pollID); err != nil {
		s.logger.Warn("Failed to invalidate poll cache",
			zap.String("poll_id", pollID),
			zap.Error(err))
	}

	s.logger.Info("Poll updated", zap.String("poll_id", pollID))
	return poll, nil
}

// DeletePoll removes a poll and, through schema cascades, its options
// and votes. Owner only.
func (s *PollService) DeletePoll(ctx context.Context, ownerID, pollID string) error {
	poll, err := s.pollStore.GetPollByID(ctx, pollID)
	if err != nil {
		return fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return domain.ErrPollNotFound
	}
	if poll.CreatedBy != ownerID {
		return domain.ErrNotPollOwner
	}

	if err := s.pollStore.DeletePoll(ctx, pollID); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}

	if err := s.cache.InvalidatePoll(ctx, pollID); err != nil {
		s.logger.Warn("Failed to invalidate poll cache",
			zap.String("poll_id", pollID),
			zap.Error(err))
	}
	s.cache.InvalidateResultCaches(pollID)

	s.logger.Info("Poll deleted", zap.String("poll_id", pollID))
	return nil
}

// ShareURL builds the public link encoded into the poll's QR code
func (s *PollService) ShareURL(poll *domain.Poll) string {
	return fmt.Sprintf("%s/polls/shared/%s", s.publicBaseURL, poll.ShareToken)
}

func validateCreatePoll(req *domain.CreatePollRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("title must be at most %d characters", maxTitleLength)
	}

	if len(req.Options) < minPollOptions || len(req.Options) > maxPollOptions {
		return fmt.Errorf("polls need %d-%d options", minPollOptions, maxPollOptions)
	}

	seen := make(map[string]bool, len(req.Options))
	for _, text := range req.Options {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return fmt.Errorf("option text cannot be empty")
		}
		if seen[trimmed] {
			return fmt.Errorf("duplicate option: %s", trimmed)
		}
		seen[trimmed] = true
	}

	return nil
}
