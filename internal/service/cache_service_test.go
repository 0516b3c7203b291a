package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/pkg/redis"
)

func setupCacheService(t *testing.T) (*miniredis.Miniredis, *CacheService) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewCacheService(client, zap.NewNop())
}

func TestCacheService_NilRedisDegradesToPassThrough(t *testing.T) {
	cache := NewCacheService(nil, zap.NewNop())
	ctx := context.Background()

	poll := testPoll()
	fallbackCalls := 0
	got, err := cache.GetPollWithCache(ctx, poll.ID, func(ctx context.Context, id string) (*domain.Poll, error) {
		fallbackCalls++
		return poll, nil
	})
	require.NoError(t, err)
	assert.Equal(t, poll, got)
	assert.Equal(t, 1, fallbackCalls)

	voted, err := cache.IdentityVoted(ctx, "poll-1", "anonymous_email:a@x.com")
	require.NoError(t, err)
	assert.False(t, voted)

	assert.NoError(t, cache.CacheVoteSubmission(ctx, "poll-1", "anonymous_email:a@x.com"))
	assert.NoError(t, cache.InvalidatePoll(ctx, "poll-1"))
	assert.NoError(t, cache.HealthCheck(ctx))
	assert.Empty(t, cache.SnapshotKey("poll-1", domain.TrendDaily))

	snapshot, err := cache.GetSnapshotCached(ctx, "any-key")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestCacheService_VotedFlagRoundTrip(t *testing.T) {
	_, cache := setupCacheService(t)
	ctx := context.Background()

	voted, err := cache.IdentityVoted(ctx, "poll-1", "authenticated:user-1")
	require.NoError(t, err)
	assert.False(t, voted)

	require.NoError(t, cache.CacheVoteSubmission(ctx, "poll-1", "authenticated:user-1"))

	voted, err = cache.IdentityVoted(ctx, "poll-1", "authenticated:user-1")
	require.NoError(t, err)
	assert.True(t, voted)

	// A different identity on the same poll is unaffected
	voted, err = cache.IdentityVoted(ctx, "poll-1", "authenticated:user-2")
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestCacheService_VotedFlagExpires(t *testing.T) {
	mr, cache := setupCacheService(t)
	ctx := context.Background()

	require.NoError(t, cache.CacheVoteSubmission(ctx, "poll-1", "authenticated:user-1"))

	mr.FastForward(redis.TTLIdentityVoted + time.Minute)

	voted, err := cache.IdentityVoted(ctx, "poll-1", "authenticated:user-1")
	require.NoError(t, err)
	assert.False(t, voted, "an expired flag means unknown, the database decides")
}

func TestCacheService_GetPollWithCache_FallbackOnMiss(t *testing.T) {
	_, cache := setupCacheService(t)
	ctx := context.Background()

	poll := testPoll()
	fallbackCalls := 0
	got, err := cache.GetPollWithCache(ctx, poll.ID, func(ctx context.Context, id string) (*domain.Poll, error) {
		fallbackCalls++
		return poll, nil
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, poll.ID, got.ID)
	assert.Equal(t, 1, fallbackCalls)
}

func TestCacheService_GetPollWithCache_CorruptedEntryFallsBack(t *testing.T) {
	mr, cache := setupCacheService(t)
	ctx := context.Background()

	key := cache.redis.KeyBuilder.KeyPollByID("poll-1")
	require.NoError(t, mr.Set(key, "{not json"))

	poll := testPoll()
	got, err := cache.GetPollWithCache(ctx, poll.ID, func(ctx context.Context, id string) (*domain.Poll, error) {
		return poll, nil
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, poll.ID, got.ID)
}

func TestCacheService_SnapshotRoundTrip(t *testing.T) {
	_, cache := setupCacheService(t)
	ctx := context.Background()

	key := cache.SnapshotKey("poll-1", domain.TrendDaily)
	require.NotEmpty(t, key)

	cached, err := cache.GetSnapshotCached(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, cached)

	snapshot := &domain.AnalyticsSnapshot{
		PollID:       "poll-1",
		TotalVotes:   3,
		UniqueVoters: 2,
		Granularity:  domain.TrendDaily,
		AsOf:         time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	cache.SetSnapshotCached(ctx, key, snapshot)

	cached, err = cache.GetSnapshotCached(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, snapshot.TotalVotes, cached.TotalVotes)
	assert.Equal(t, snapshot.UniqueVoters, cached.UniqueVoters)
	assert.True(t, snapshot.AsOf.Equal(cached.AsOf))
}

func TestCacheService_SnapshotKeyVariesByGranularity(t *testing.T) {
	_, cache := setupCacheService(t)

	daily := cache.SnapshotKey("poll-1", domain.TrendDaily)
	hourly := cache.SnapshotKey("poll-1", domain.TrendHourly)
	assert.NotEqual(t, daily, hourly)
}
