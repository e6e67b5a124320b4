package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/km-arc/go-lifetime/framework/config"
	"github.com/km-arc/go-lifetime/framework/lifetime"
)

// ── ApiToken ─────────────────────────────────────────────────────────────────

// ApiToken is a bearer credential the application hands to its clients. It is
// registered with a timed lifetime, so a fresh token is issued every TTL and
// the expiry signal tells subscribers when the old one stopped being valid.
type ApiToken struct {
	Value    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// NewApiToken issues a random token.
func NewApiToken() *ApiToken {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return &ApiToken{
		Value:    hex.EncodeToString(buf),
		IssuedAt: time.Now().UTC(),
	}
}

// ── RedisCache ───────────────────────────────────────────────────────────────

// RedisCache wraps a Redis connection. It is registered with a conditional
// lifetime: when the server stops answering pings the instance reports
// expiry, the slot tears the dead client down and the next access dials a
// fresh connection.
type RedisCache struct {
	client *redis.Client
}

var _ lifetime.ExpirableContext = (*RedisCache)(nil)

// NewRedisCache dials cfg.Addr.
func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// ExpiredContext implements lifetime.ExpirableContext. A failed ping means
// the connection is dead and the instance should be rebuilt; that is a
// lifecycle fact, not an error, so the predicate itself never fails.
func (c *RedisCache) ExpiredContext(ctx context.Context) (bool, error) {
	return c.client.Ping(ctx).Err() != nil, nil
}

// Get returns the value under key; ok is false on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Put stores value under key with the given TTL (0 = no expiry).
func (c *RedisCache) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the underlying connection pool. Invoked by the lifetime
// slot when the instance is retired.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
