package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sangnt1552314/ytmp3api/internal/metrics"
	"github.com/sangnt1552314/ytmp3api/internal/models"
)

// Cache is a two tier cache: a bounded in-memory LRU in front of an
// optional Redis instance shared between replicas.
type Cache struct {
	l1      *lru.Cache[string, cacheEntry]
	rdb     *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewCache builds the cache. An empty redisURL disables L2, and so does an
// unreachable Redis.
func NewCache(redisURL string, ttl time.Duration, maxEntries int, m *metrics.Metrics) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	l1, err := lru.New[string, cacheEntry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	c := &Cache{l1: l1, ttl: ttl, metrics: m}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Invalid redis URL, L2 cache disabled")
		} else {
			rdb := redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Msg("Redis unreachable, L2 cache disabled")
				_ = rdb.Close()
			} else {
				c.rdb = rdb
				log.Info().Str("addr", opts.Addr).Msg("L2 redis cache connected")
			}
		}
	}

	log.Info().Dur("ttl", ttl).Bool("redis", c.rdb != nil).Int("max_entries", maxEntries).Msg("Cache initialized")
	return c, nil
}

// CacheKey builds a deterministic key from parts.
func CacheKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("yt:%x", hash[:12])
}

// Get decodes the cached value for key into out. L2 hits are copied into L1.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c == nil || c.ttl <= 0 {
		return false
	}

	if entry, ok := c.l1.Get(key); ok {
		if time.Now().Before(entry.expiresAt) && json.Unmarshal(entry.data, out) == nil {
			log.Debug().Str("key", key).Msg("Cache L1 hit")
			c.metrics.ObserveCache("l1")
			return true
		}
		c.l1.Remove(key)
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil && json.Unmarshal(data, out) == nil {
			log.Debug().Str("key", key).Msg("Cache L2 hit")
			c.metrics.ObserveCache("l2")
			c.l1.Add(key, cacheEntry{data: data, expiresAt: time.Now().Add(c.ttl)})
			return true
		}
		if err != nil && err != redis.Nil {
			log.Debug().Err(err).Str("key", key).Msg("Cache L2 get failed")
		}
	}

	c.metrics.ObserveCache("miss")
	return false
}

// Set stores value in both tiers.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Cache encode failed")
		return
	}

	c.l1.Add(key, cacheEntry{data: data, expiresAt: time.Now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("Cache L2 set failed")
		}
	}
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.l1.Len()
}

func (c *Cache) RedisEnabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// CachedResolver serves repeated lookups of the same video from the cache.
// Only successful results are stored.
type CachedResolver struct {
	next  VideoResolver
	cache *Cache
}

func NewCachedResolver(next VideoResolver, cache *Cache) *CachedResolver {
	return &CachedResolver{next: next, cache: cache}
}

func (r *CachedResolver) ResolveVideo(ctx context.Context, urlOrID string) (*models.Video, error) {
	key := CacheKey("video", urlOrID)

	var cached models.Video
	if r.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	v, err := r.next.ResolveVideo(ctx, urlOrID)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, v)
	return v, nil
}

type CachedSearcher struct {
	next  VideoSearcher
	cache *Cache
}

func NewCachedSearcher(next VideoSearcher, cache *Cache) *CachedSearcher {
	return &CachedSearcher{next: next, cache: cache}
}

func (s *CachedSearcher) SearchVideos(ctx context.Context, query string) ([]models.Video, error) {
	key := CacheKey("search", strings.ToLower(strings.TrimSpace(query)))

	var cached []models.Video
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	videos, err := s.next.SearchVideos(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, videos)
	return videos, nil
}
