package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/domain"
)

const profileKeyPrefix = "profile:"

// ProfileCache is a read-through Redis cache for profile lookups. Every
// operation degrades to a miss when Redis is unreachable; the store stays
// authoritative.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProfileCache builds the cache. A nil client disables caching entirely.
func NewProfileCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached profile for the user id, if fresh.
func (c *ProfileCache) Get(ctx context.Context, userID string) (*domain.Profile, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, profileKeyPrefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("profile cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

// Set stores the profile under the configured TTL.
func (c *ProfileCache) Set(ctx context.Context, profile domain.Profile) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, profileKeyPrefix+profile.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("profile cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached entry after any mutation of the user record.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, profileKeyPrefix+userID).Err(); err != nil {
		c.logger.Debug("profile cache invalidate failed", zap.Error(err))
	}
}
