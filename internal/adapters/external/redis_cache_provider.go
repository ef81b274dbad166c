package external

import (
	"context"
	"sync"
	"time"

	"climacast.app/internal/config"
	"climacast.app/internal/ports"
	"climacast.app/pkg/errors"
	"github.com/go-redis/redis/v8"
)

// RedisCacheProvider implements the CacheProvider port using Redis. Expiry
// is delegated to Redis' native TTL, so expired entries are simply absent.
type RedisCacheProvider struct {
	client *redis.Client
	stats  struct {
		hits   int64
		misses int64
		mutex  sync.RWMutex
	}
}

// NewRedisCacheProvider creates a new Redis cache provider
func NewRedisCacheProvider(cfg *config.RedisConfig) (*RedisCacheProvider, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("redis config cannot be nil", nil)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewUpstreamError("failed to connect to Redis", err)
	}

	return &RedisCacheProvider{
		client: client,
	}, nil
}

// Get retrieves a value from Redis cache
func (r *RedisCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("cache key cannot be empty")
	}

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.recordMiss()
			return nil, errors.NewNotFoundError("cache miss")
		}
		return nil, errors.NewUpstreamError("redis get operation failed", err)
	}

	r.recordHit()
	return []byte(val), nil
}

// Set stores a value in Redis cache with TTL
func (r *RedisCacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.NewUpstreamError("redis set operation failed", err)
	}

	return nil
}

// Delete removes a value from Redis cache
func (r *RedisCacheProvider) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errors.NewUpstreamError("redis delete operation failed", err)
	}

	return nil
}

// Exists checks if a key exists in Redis cache
func (r *RedisCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.NewValidationError("cache key cannot be empty")
	}

	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, errors.NewUpstreamError("redis exists operation failed", err)
	}

	return count > 0, nil
}

// Clear removes all keys from the Redis database
func (r *RedisCacheProvider) Clear(ctx context.Context) error {
	if err := r.client.FlushDB(ctx).Err(); err != nil {
		return errors.NewUpstreamError("redis clear operation failed", err)
	}

	return nil
}

// GetStats returns cache statistics
func (r *RedisCacheProvider) GetStats() ports.CacheStats {
	r.stats.mutex.RLock()
	defer r.stats.mutex.RUnlock()

	total := r.stats.hits + r.stats.misses
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(r.stats.hits) / float64(total)
	}

	return ports.CacheStats{
		Hits:        r.stats.hits,
		Misses:      r.stats.misses,
		TotalOps:    total,
		HitRatio:    hitRatio,
		LastUpdated: time.Now(),
	}
}

// RecordHit increments the cache hit counter
func (r *RedisCacheProvider) RecordHit() {
	r.recordHit()
}

// RecordMiss increments the cache miss counter
func (r *RedisCacheProvider) RecordMiss() {
	r.recordMiss()
}

func (r *RedisCacheProvider) recordHit() {
	r.stats.mutex.Lock()
	defer r.stats.mutex.Unlock()
	r.stats.hits++
}

func (r *RedisCacheProvider) recordMiss() {
	r.stats.mutex.Lock()
	defer r.stats.mutex.Unlock()
	r.stats.misses++
}

// Close closes the Redis client connection
func (r *RedisCacheProvider) Close() error {
	if err := r.client.Close(); err != nil {
		return errors.NewUpstreamError("failed to close Redis connection", err)
	}
	return nil
}

// Ping checks if Redis connection is alive
func (r *RedisCacheProvider) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.NewUpstreamError("Redis ping failed", err)
	}
	return nil
}
