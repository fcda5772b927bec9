package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to addr and pings it once.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// FixedWindow is a Redis-backed hit counter that resets every window.
type FixedWindow struct {
	client redis.Cmdable
}

func NewFixedWindow(client redis.Cmdable) *FixedWindow {
	return &FixedWindow{client: client}
}

// Hit increments key and returns the count inside the current window. The
// window starts on the first hit; a key left without TTL gets one on the next
// hit.
func (w *FixedWindow) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := w.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	count := incr.Val()
	// TTL reports -1 for a key without expiry.
	if count == 1 || ttl.Val() < 0 {
		if err := w.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}
