package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultTTL        = 15 * time.Second
	defaultRetryDelay = 25 * time.Millisecond
	keyPrefix         = "lock:"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired holder never frees a lock someone else acquired.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-instance Redis lock (SET NX PX) shared by every
// replica of the service.
type RedisLocker struct {
	Client     redis.UniversalClient
	TTL        time.Duration
	RetryDelay time.Duration
	Logger     *zap.Logger
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{Client: client, TTL: ttl, RetryDelay: defaultRetryDelay, Logger: logger}
}

// Lock polls until the key is free or ctx ends. The TTL bounds how long a
// crashed holder can block others.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := keyPrefix + key

	ticker := time.NewTicker(l.RetryDelay)
	defer ticker.Stop()

	for {
		err := l.Client.SetArgs(ctx, redisKey, token, redis.SetArgs{Mode: "NX", TTL: l.TTL}).Err()
		if err == nil {
			return l.unlocker(redisKey, token), nil
		}
		if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlocker(key, token string) func() {
	return func() {
		// the caller's ctx may already be done; release on a short fresh one
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		n, err := releaseScript.Run(ctx, l.Client, []string{key}, token).Int()
		if err != nil {
			l.Logger.Warn("release lock failed", zap.String("key", key), zap.Error(err))
			return
		}
		if n == 0 {
			l.Logger.Warn("lock expired before release", zap.String("key", key))
		}
	}
}

// Ping reports whether Redis is reachable.
func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.Client.Ping(ctx).Err()
}
