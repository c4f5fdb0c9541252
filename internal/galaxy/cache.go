package galaxy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/redis"
	"starmap-server/internal/spatial"
)

// RouteCache stores route results, including negative ones.
type RouteCache interface {
	Get(ctx context.Context, key string) (CachedRoute, bool, error)
	Set(ctx context.Context, key string, route CachedRoute, ttl time.Duration) error
}

type CachedRoute struct {
	Found bool  `json:"found"`
	Route Route `json:"route"`
}

// RouteKey identifies a route query bit-exactly.
func RouteKey(galaxyID string, from, to spatial.Location, opts RouteOptions) string {
	f, t := spatial.KeyOf(from), spatial.KeyOf(to)
	return fmt.Sprintf("route:%s:%x:%x:%x:%x:%x:%x:%x:%d:%d",
		galaxyID,
		f[0], f[1], f[2],
		t[0], t[1], t[2],
		math.Float64bits(opts.Range),
		opts.MaxJumps,
		opts.MaxExpansions,
	)
}

type memoryEntry struct {
	route     CachedRoute
	expiresAt time.Time
}

// MemoryCache is the in-process fallback used when Redis is disabled.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (CachedRoute, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return CachedRoute{}, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return CachedRoute{}, false, nil
	}
	return entry.route, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, route CachedRoute, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.cleanupExpired()
		if len(c.entries) >= c.maxEntries {
			// Arbitrary eviction keeps the fallback bounded.
			for k := range c.entries {
				delete(c.entries, k)
				break
			}
		}
	}

	c.entries[key] = memoryEntry{route: route, expiresAt: c.now().Add(ttl)}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) cleanupExpired() {
	now := c.now()
	expired := 0
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			expired++
		}
	}
	if expired > 0 {
		slog.Debug("Cleaned up expired routes",
			"component", "route_cache",
			"expired_count", expired,
			"remaining_count", len(c.entries))
	}
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (CachedRoute, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return CachedRoute{}, false, nil
	}
	if err != nil {
		return CachedRoute{}, false, errors.WrapExternal("failed to read cached route", err)
	}

	var route CachedRoute
	if err := json.Unmarshal(data, &route); err != nil {
		return CachedRoute{}, false, fmt.Errorf("failed to decode cached route: %w", err)
	}
	return route, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, route CachedRoute, ttl time.Duration) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("failed to encode route: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.WrapExternal("failed to cache route", err)
	}
	return nil
}
