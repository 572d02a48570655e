package topic

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache remembers model-made translations so each custom topic is
// translated once.
type Cache interface {
	// Get returns the cached translation. A miss is ("", false, nil).
	Get(ctx context.Context, lang, topic string) (string, bool, error)

	// Set stores a translation.
	Set(ctx context.Context, lang, topic, translation string) error
}

func cacheKey(lang, topic string) string {
	return fmt.Sprintf("topic:%s:%s", lang, strings.ToLower(strings.TrimSpace(topic)))
}

// MemoryCache is a process-local Cache. Safe for concurrent use.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]string)}
}

func (c *MemoryCache) Get(_ context.Context, lang, topic string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[cacheKey(lang, topic)]
	return v, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, lang, topic, translation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[cacheKey(lang, topic)] = translation
	return nil
}

// DefaultRedisTTL is how long translations stay in Redis.
const DefaultRedisTTL = 30 * 24 * time.Hour

// RedisCache stores translations in Redis under topic:<lang>:<topic>.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache. A ttl of zero means DefaultRedisTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// OpenRedis connects to the server at url (redis://host:port/db) and
// checks it is reachable.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, lang, topic string) (string, bool, error) {
	v, err := c.client.Get(ctx, cacheKey(lang, topic)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, lang, topic, translation string) error {
	return c.client.Set(ctx, cacheKey(lang, topic), translation, c.ttl).Err()
}
