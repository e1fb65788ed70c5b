package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

const snapshotTTL = 30 * time.Second

// StatsCache stores per-owner statistics snapshots in Redis.
// Key format: stats:<owner_id>. Entries expire after snapshotTTL and are
// additionally invalidated by every successful mutation, so a cached read
// never hides the caller's own writes.
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get returns the cached snapshot for the owner, or (nil, nil) on a miss.
func (c *StatsCache) Get(ctx context.Context, ownerID string) (*ports.StatsSnapshot, error) {
	raw, err := c.client.Get(ctx, c.key(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("stats cache get: %w", err)
	}

	var snapshot ports.StatsSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}
	return &snapshot, nil
}

// Set stores the snapshot with the cache TTL.
func (c *StatsCache) Set(ctx context.Context, ownerID string, snapshot *ports.StatsSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(ownerID), raw, snapshotTTL).Err()
}

// Invalidate drops the owner's cached snapshot.
func (c *StatsCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.client.Del(ctx, c.key(ownerID)).Err()
}

func (c *StatsCache) key(ownerID string) string {
	return "stats:" + ownerID
}
