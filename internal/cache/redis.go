package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
)

// Redis caches results in a Redis instance shared across service
// replicas. All backend errors are logged and swallowed: a broken
// cache degrades to recomputation, never to a failed analysis.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// RedisOptions configures the Redis cache backend.
type RedisOptions struct {
	Address  string
	Password string
	Database int
	Timeout  time.Duration
	TTL      time.Duration
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, opts RedisOptions, log logger.Logger) (*Redis, error) {
	if log == nil {
		log = logger.NewNop()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.Database,
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client, ttl: ttl, log: log}, nil
}

// Get fetches and decodes a cached result. Any failure is a miss.
func (r *Redis) Get(ctx context.Context, key string) (domain.AnalysisResult, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("cache get failed", logger.String("key", key), logger.Error(err))
		}
		return domain.AnalysisResult{}, false
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.log.Warn("cache entry corrupt", logger.String("key", key), logger.Error(err))
		return domain.AnalysisResult{}, false
	}
	return result, true
}

// Set stores the result as JSON under key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, result domain.AnalysisResult) {
	data, err := json.Marshal(result)
	if err != nil {
		r.log.Warn("cache encode failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.log.Warn("cache set failed", logger.String("key", key), logger.Error(err))
	}
}

// Close releases the underlying Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
