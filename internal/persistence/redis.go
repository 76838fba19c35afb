package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/config"
	"github.com/storefront-labs/storefront/internal/session"
)

// ErrRedisNotConfigured is returned by a nil Redis handle.
var ErrRedisNotConfigured = errors.New("redis client not configured")

// Redis is the connection the shared session areas are opened on.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis dials and pings the server; an unreachable server is an error.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	logger.Info("redis ready", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return &Redis{client: client}, nil
}

// SessionArea opens one context's view of the shared session area. Areas
// opened on the same connection still see each other's writes.
func (r *Redis) SessionArea(cfg config.SessionConfig, logger *zap.Logger) *session.RedisArea {
	return session.NewRedisArea(r.client, cfg.Channel, logger)
}

// Ping implements handlers.Pinger.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return ErrRedisNotConfigured
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() {
	if r != nil && r.client != nil {
		_ = r.client.Close()
	}
}
