// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go provides a Valkey-backed TTL memoization cache for expensive
// aggregate queries (featured posts, category counts, popular posts) and
// the SETNX markers used for per-session view deduplication.
//
// There is no invalidation path: staleness is bounded only by TTL expiry,
// which is an accepted trade-off for read-heavy display data.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// queryKeyPrefix namespaces memoized query results.
	queryKeyPrefix = "query:"

	// viewKeyPrefix namespaces view-dedup markers.
	viewKeyPrefix = "view:"

	// ViewDedupWindow is how long a (post, session) pair stays marked.
	// Repeat views inside the window do not count and do not extend it.
	ViewDedupWindow = 30 * time.Minute
)

// Cache wraps a Valkey client for query memoization and dedup markers.
type Cache struct {
	client *redis.Client
}

// New creates a Cache backed by the given Valkey client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetOrCompute returns the cached value for key if present and unexpired,
// otherwise invokes compute, stores the JSON-encoded result with the given
// TTL, and returns it. Cache transport errors degrade to a direct compute
// so a Valkey outage never takes down reads.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	var value T

	payload, err := c.client.Get(ctx, queryKeyPrefix+key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(payload, &value); jsonErr == nil {
			slog.Debug("query cache hit", "key", key)
			return value, nil
		}
		// Corrupt entry; recompute and overwrite below.
		slog.Warn("query cache entry unreadable", "key", key)
	} else if err != redis.Nil {
		slog.Warn("query cache get error", "key", key, "error", err)
	}

	value, err = compute()
	if err != nil {
		return value, err
	}

	if payload, err := json.Marshal(value); err == nil {
		if err := c.client.Set(ctx, queryKeyPrefix+key, payload, ttl).Err(); err != nil {
			slog.Warn("query cache set error", "key", key, "error", err)
		}
	}

	return value, nil
}

// MarkViewed records a (post, session) dedup marker with the standard
// window. Returns true if this is the first view inside the window. SETNX
// leaves an existing marker's TTL untouched, so repeat views never extend
// the window.
func (c *Cache) MarkViewed(ctx context.Context, postID uuid.UUID, sessionID string) (bool, error) {
	key := viewKeyPrefix + postID.String() + ":" + sessionID
	first, err := c.client.SetNX(ctx, key, 1, ViewDedupWindow).Result()
	if err != nil {
		return false, fmt.Errorf("view dedup mark: %w", err)
	}
	return first, nil
}

// Flush removes all memoized query results. Only used by tests and the
// development seed path; production relies solely on TTL expiry.
func (c *Cache) Flush(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, queryKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("query cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("query cache bulk delete error", "error", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
}
