package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"portero-http-service/config"
)

// Cache TTLs
const (
	departmentsCacheTTL    = 30 * time.Second
	callStatisticsCacheTTL = 60 * time.Second
)

// ErrCacheDisabled is returned when Redis is not reachable
var ErrCacheDisabled = errors.New("redis cache disabled")

// RedisService is an optional read cache. When Redis is unreachable at startup
// the service stays disabled and every caller falls through to the database.
type RedisService struct {
	Client  *redis.Client
	Ctx     context.Context
	enabled bool
}

// NewRedisService creates a new Redis service and probes the server once
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.GetRedisAddr(),
		DB:   cfg.RedisDB,
	})

	ctx := context.Background()

	s := &RedisService{
		Client: client,
		Ctx:    ctx,
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		config.Warning("Redis not reachable at %s, cache disabled: %v", cfg.GetRedisAddr(), err)
		return s
	}

	s.enabled = true
	config.Info("Redis cache enabled at %s", cfg.GetRedisAddr())
	return s
}

// Enabled reports whether the cache can be used
func (s *RedisService) Enabled() bool {
	return s != nil && s.enabled
}

// Set stores a JSON-encoded value with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	if !s.Enabled() {
		return ErrCacheDisabled
	}
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get loads a JSON-encoded value by key
func (s *RedisService) Get(key string, dest interface{}) error {
	if !s.Enabled() {
		return ErrCacheDisabled
	}
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Delete removes a key
func (s *RedisService) Delete(key string) error {
	if !s.Enabled() {
		return ErrCacheDisabled
	}
	return s.Client.Del(s.Ctx, key).Err()
}

// Close releases the underlying client
func (s *RedisService) Close() error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Close()
}
