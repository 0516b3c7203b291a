package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/pkg/redis"
)

// CacheService provides cache-aside helpers over Redis. Every method
// tolerates a nil client: without Redis the fallbacks run unconditionally
// and correctness is unchanged, only latency suffers.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// GetPollWithCache retrieves a poll with cache-aside pattern. Cache
// corruption or errors fall through to the database fallback.
func (c *CacheService) GetPollWithCache(ctx context.Context, pollID string, dbFallback func(ctx context.Context, id string) (*domain.Poll, error)) (*domain.Poll, error) {
	if c.redis == nil {
		return dbFallback(ctx, pollID)
	}

	cacheKey := c.redis.KeyBuilder.KeyPollByID(pollID)

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var poll domain.Poll
		if marshalErr := json.Unmarshal([]byte(cachedData), &poll); marshalErr == nil {
			c.logger.Debug("Poll cache hit", zap.String("poll_id", pollID))
			return &poll, nil
		}
		c.logger.Warn("Poll cache corrupted, falling back to database",
			zap.String("poll_id", pollID))
	}

	c.logger.Debug("Poll cache miss", zap.String("poll_id", pollID))
	poll, err := dbFallback(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if poll != nil {
		go c.cachePollAsync(poll)
	}

	return poll, nil
}

// IdentityVoted checks the cached voted flag for an identity on a poll.
// A miss means "unknown", never "has not voted"; the database check and
// the unique constraint remain authoritative.
func (c *CacheService) IdentityVoted(ctx context.Context, pollID, identityKey string) (bool, error) {
	if c.redis == nil {
		return false, nil
	}

	cacheKey := c.redis.KeyBuilder.KeyIdentityVoted(pollID, identityKey)
	exists, err := c.redis.Exists(ctx, cacheKey)
	if err != nil {
		c.logger.Warn("Voted-flag cache error, falling back to database",
			zap.String("poll_id", pollID),
			zap.Error(err))
		return false, err
	}

	return exists > 0, nil
}

// CacheVoteSubmission records the voted flag after a successful insert
func (c *CacheService) CacheVoteSubmission(ctx context.Context, pollID, identityKey string) error {
	if c.redis == nil {
		return nil
	}

	cacheKey := c.redis.KeyBuilder.KeyIdentityVoted(pollID, identityKey)
	if err := c.redis.Set(ctx, cacheKey, "1", redis.TTLIdentityVoted); err != nil {
		c.logger.Error("Failed to cache vote submission",
			zap.String("poll_id", pollID),
			zap.Error(err))
		return err
	}

	c.logger.Debug("Vote submission cached", zap.String("poll_id", pollID))
	return nil
}

// InvalidateResultCaches drops the derived results/analytics entries for
// a poll after a vote write. Runs asynchronously; a stale 30s window is
// acceptable and the snapshot is recomputed on the next read anyway.
func (c *CacheService) InvalidateResultCaches(pollID string) {
	if c.redis == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		keysToDelete := []string{
			c.redis.KeyBuilder.KeyPollResults(pollID),
			c.redis.KeyBuilder.KeyPollAnalytics(pollID, string(domain.TrendHourly)),
			c.redis.KeyBuilder.KeyPollAnalytics(pollID, string(domain.TrendDaily)),
			c.redis.KeyBuilder.KeyPollAnalytics(pollID, string(domain.TrendWeekly)),
			c.redis.KeyBuilder.KeyPollAnalytics(pollID, string(domain.TrendMonthly)),
		}

		if err := c.redis.Delete(ctx, keysToDelete...); err != nil {
			c.logger.Error("Failed to invalidate result caches",
				zap.String("poll_id", pollID),
				zap.Error(err))
			return
		}

		c.logger.Debug("Result caches invalidated", zap.String("poll_id", pollID))
	}()
}

// InvalidatePoll drops the cached poll after a settings edit or delete
func (c *CacheService) InvalidatePoll(ctx context.Context, pollID string) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Delete(ctx, c.redis.KeyBuilder.KeyPollByID(pollID))
}

// GetSnapshotCached retrieves a cached analytics snapshot, (nil, nil) on miss
func (c *CacheService) GetSnapshotCached(ctx context.Context, cacheKey string) (*domain.AnalyticsSnapshot, error) {
	if c.redis == nil {
		return nil, nil
	}

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err != nil || cachedData == "" {
		return nil, nil
	}

	var snapshot domain.AnalyticsSnapshot
	if err := json.Unmarshal([]byte(cachedData), &snapshot); err != nil {
		c.logger.Warn("Snapshot cache corrupted", zap.String("key", cacheKey))
		return nil, nil
	}

	return &snapshot, nil
}

// SetSnapshotCached stores an analytics snapshot with the short counts TTL
func (c *CacheService) SetSnapshotCached(ctx context.Context, cacheKey string, snapshot *domain.AnalyticsSnapshot) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey, string(data), redis.TTLCounts); err != nil {
		c.logger.Warn("Failed to cache snapshot", zap.Error(err))
	}
}

// SnapshotKey builds the analytics cache key for a poll and granularity
func (c *CacheService) SnapshotKey(pollID string, granularity domain.TrendGranularity) string {
	if c.redis == nil {
		return ""
	}
	return c.redis.KeyBuilder.KeyPollAnalytics(pollID, string(granularity))
}

// HealthCheck performs a health check on the cache system
func (c *CacheService) HealthCheck(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}

	start := time.Now()
	err := c.redis.Health(ctx)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Cache health check failed",
			zap.Duration("duration", duration),
			zap.Error(err))
		return err
	}

	c.logger.Debug("Cache health check passed", zap.Duration("duration", duration))
	return nil
}

// cachePollAsync caches poll data asynchronously
func (c *CacheService) cachePollAsync(poll *domain.Poll) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pollData, err := json.Marshal(poll)
	if err != nil {
		c.logger.Error("Failed to marshal poll for caching",
			zap.String("poll_id", poll.ID),
			zap.Error(err))
		return
	}

	cacheKey := c.redis.KeyBuilder.KeyPollByID(poll.ID)
	if err := c.redis.Set(ctx, cacheKey, string(pollData), redis.TTLPoll); err != nil {
		c.logger.Error("Failed to cache poll",
			zap.String("poll_id", poll.ID),
			zap.Error(err))
	}
}
