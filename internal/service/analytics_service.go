package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/internal/repository"
)

// AnalyticsService computes poll snapshots from the authoritative vote
// set. Derivation itself lives in BuildSnapshot and stays pure; this
// wrapper only adds loading and a short-TTL cache in front of it.
type AnalyticsService struct {
	pollStore repository.PollStore
	voteStore repository.VoteStore
	cache     *CacheService
	logger    *zap.Logger
}

func NewAnalyticsService(pollStore repository.PollStore, voteStore repository.VoteStore, cache *CacheService, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		pollStore: pollStore,
		voteStore: voteStore,
		cache:     cache,
		logger:    logger,
	}
}

// GetSnapshot returns the poll's analytics snapshot at the current time,
// bucketing the trend series at the requested granularity.
func (s *AnalyticsService) GetSnapshot(ctx context.Context, pollID string, granularity domain.TrendGranularity) (*domain.AnalyticsSnapshot, error) {
	cacheKey := s.cache.SnapshotKey(pollID, granularity)
	if cacheKey != "" {
		if cached, err := s.cache.GetSnapshotCached(ctx, cacheKey); err == nil && cached != nil {
			return cached, nil
		}
	}

	poll, err := s.cache.GetPollWithCache(ctx, pollID, s.pollStore.GetPollByID)
	if err != nil {
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}

	votes, err := s.voteStore.ListVotesByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}

	snapshot := BuildSnapshot(poll, votes, granularity, time.Now())

	if cacheKey != "" {
		s.cache.SetSnapshotCached(ctx, cacheKey, snapshot)
	}

	s.logger.Debug("Snapshot computed",
		zap.String("poll_id", pollID),
		zap.String("granularity", string(granularity)),
		zap.Int("total_votes", snapshot.TotalVotes))

	return snapshot, nil
}
