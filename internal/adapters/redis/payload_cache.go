package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/classdash/classdash/internal/domain/model"
)

// PayloadCache caches the flat roster snapshot so repeated dashboard loads do
// not hit Postgres on every request. A short TTL keeps stale windows bounded;
// Invalidate is called after each ingestion run.
type PayloadCache struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

const (
	defaultSnapshotKey = "roster:snapshot"
	defaultSnapshotTTL = 5 * time.Minute
)

// NewPayloadCache creates a snapshot cache with the default key and TTL.
func NewPayloadCache(client redis.UniversalClient) *PayloadCache {
	return &PayloadCache{
		client: client,
		key:    defaultSnapshotKey,
		ttl:    defaultSnapshotTTL,
	}
}

// NewPayloadCacheWithTTL creates a snapshot cache with a custom TTL.
func NewPayloadCacheWithTTL(client redis.UniversalClient, ttl time.Duration) *PayloadCache {
	c := NewPayloadCache(client)
	if ttl > 0 {
		c.ttl = ttl
	}
	return c
}

// Get returns the cached snapshot, or (nil, nil) on a cache miss. Corrupt
// cache entries are treated as misses and dropped.
func (c *PayloadCache) Get(ctx context.Context) (*model.RosterPayload, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}

	var payload model.RosterPayload
	if unmarshalErr := json.Unmarshal(data, &payload); unmarshalErr != nil {
		_ = c.client.Del(ctx, c.key).Err()
		return nil, nil
	}
	return &payload, nil
}

// Set stores the snapshot with the configured TTL.
func (c *PayloadCache) Set(ctx context.Context, payload *model.RosterPayload) error {
	if payload == nil {
		return errors.New("payload cannot be nil")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.client.Set(ctx, c.key, data, c.ttl).Err()
}

// Invalidate drops the cached snapshot.
func (c *PayloadCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
