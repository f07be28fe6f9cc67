package keylock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redisKeyPrefix = "courtbook:lock:"
	redisRetry     = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every instance pointed at the same server.
// A held key expires after ttl if its holder dies.
type Redis struct {
	client *redis.Client
	wait   time.Duration
	ttl    time.Duration
}

func NewRedis(client *redis.Client, wait, ttl time.Duration) *Redis {
	return &Redis{client: client, wait: wait, ttl: ttl}
}

// NewRedisFromURL parses a redis:// URL and pings the server.
func NewRedisFromURL(ctx context.Context, rawURL string, wait, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, wait, ttl), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Lock(ctx context.Context, keys ...string) (func(), error) {
	acquireCtx, cancel := boundedContext(ctx, r.wait)
	defer cancel()

	unlock, err := acquireAll(acquireCtx, normalize(keys), r.lockOne)
	if err != nil {
		return nil, waitError(ctx, err)
	}
	return unlock, nil
}

func (r *Redis) lockOne(ctx context.Context, key string) (func(), error) {
	redisKey := redisKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(redisRetry)
	defer ticker.Stop()
	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, r.client, []string{redisKey}, token).Err(); err != nil {
			log.Warn().Err(err).Str("lock_key", key).Msg("Failed to release redis lock")
		}
	}, nil
}
