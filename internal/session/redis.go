package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrRedisUnavailable wraps transport failures talking to Redis.
var ErrRedisUnavailable = errors.New("redis unavailable")

// changeMessage is published on the change channel after each mutation.
type changeMessage struct {
	Origin string   `json:"origin"`
	Keys   []string `json:"keys"`
}

// RedisArea shares the session area between processes through Redis. Every
// mutation is followed by a message on the change channel tagged with the
// area's origin id, so watchers skip their own writes.
type RedisArea struct {
	client  redis.UniversalClient
	channel string
	origin  string
	logger  *zap.Logger

	mu      sync.Mutex
	closed  bool
	pubsubs []*redis.PubSub
}

// NewRedisArea creates an area on top of client. Each RedisArea gets a fresh
// origin id and therefore acts as its own context.
func NewRedisArea(client redis.UniversalClient, channel string, logger *zap.Logger) *RedisArea {
	if logger == nil {
		logger = zap.NewNop()
	}
	origin := uuid.NewString()
	return &RedisArea{
		client:  client,
		channel: channel,
		origin:  origin,
		logger:  logger.With(zap.String("area_origin", origin)),
	}
}

// Origin returns the context id stamped on published changes.
func (a *RedisArea) Origin() string {
	return a.origin
}

func (a *RedisArea) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := a.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return val, true, nil
}

// GetMany reads keys with a single MGET.
func (a *RedisArea) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := a.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (a *RedisArea) Put(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, k, v, 0)
			keys = append(keys, k)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	a.publish(ctx, keys)
	return nil
}

func (a *RedisArea) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := a.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	a.publish(ctx, keys)
	return nil
}

// publish is best effort: the data is already written, a lost message only
// delays other contexts until their next read.
func (a *RedisArea) publish(ctx context.Context, keys []string) {
	payload, err := json.Marshal(changeMessage{Origin: a.origin, Keys: keys})
	if err != nil {
		a.logger.Warn("encode change message", zap.Error(err))
		return
	}
	if err := a.client.Publish(ctx, a.channel, payload).Err(); err != nil {
		a.logger.Warn("publish session change", zap.Error(err), zap.String("channel", a.channel))
	}
}

// Watch subscribes to the change channel. The subscription is confirmed
// before Watch returns, so changes published afterwards are not missed.
func (a *RedisArea) Watch(fn func(key string)) (func(), error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrAreaClosed
	}
	a.mu.Unlock()

	ctx := context.Background()
	ps := a.client.Subscribe(ctx, a.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("%w: subscribe %s: %v", ErrRedisUnavailable, a.channel, err)
	}

	a.mu.Lock()
	a.pubsubs = append(a.pubsubs, ps)
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range ps.Channel() {
			var change changeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				a.logger.Debug("ignoring malformed change message", zap.Error(err))
				continue
			}
			if change.Origin == a.origin {
				continue
			}
			for _, key := range change.Keys {
				fn(key)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = ps.Close()
			<-done
			a.mu.Lock()
			defer a.mu.Unlock()
			for i, p := range a.pubsubs {
				if p == ps {
					a.pubsubs = append(a.pubsubs[:i], a.pubsubs[i+1:]...)
					break
				}
			}
		})
	}, nil
}

// Close drops every subscription. The Redis client is owned by the caller.
func (a *RedisArea) Close() error {
	a.mu.Lock()
	a.closed = true
	pubsubs := a.pubsubs
	a.pubsubs = nil
	a.mu.Unlock()

	var errs []error
	for _, ps := range pubsubs {
		if err := ps.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
