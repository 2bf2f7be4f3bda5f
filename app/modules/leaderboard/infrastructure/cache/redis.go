// Package leaderboardcache stores the computed standings table.
package leaderboardcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	leaderboardevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/leaderboard"
	"github.com/redis/go-redis/v9"
)

// StandingsKey holds the JSON encoded table.
const StandingsKey = "pickem:standings:v1"

// RedisCache keeps the standings in Redis with a TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ leaderboardservice.StandingsCache = (*RedisCache)(nil)

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// Get reports false on a missing key.
func (c *RedisCache) Get(ctx context.Context) ([]scoringdomain.Standing, bool, error) {
	data, err := c.client.Get(ctx, StandingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading standings: %w", err)
	}

	var p leaderboardevents.StandingsUpdatedPayloadV1
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("unmarshaling standings: %w", err)
	}
	return leaderboardservice.FromPayload(p), true, nil
}

func (c *RedisCache) Set(ctx context.Context, standings []scoringdomain.Standing) error {
	data, err := json.Marshal(leaderboardservice.ToPayload(standings, "cache", time.Now()))
	if err != nil {
		return fmt.Errorf("marshaling standings: %w", err)
	}
	return c.client.Set(ctx, StandingsKey, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, StandingsKey).Err()
}

// NopCache never holds anything. It stands in when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context) ([]scoringdomain.Standing, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, []scoringdomain.Standing) error         { return nil }
func (NopCache) Invalidate(context.Context) error                            { return nil }
