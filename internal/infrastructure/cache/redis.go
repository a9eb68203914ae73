package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects and pings. The client backs request idempotency and the
// absence event stream.
func OpenRedis(addr, password string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// Ping adapts a client to a health check.
func Ping(r redis.UniversalClient) func(ctx context.Context) error {
	return func(ctx context.Context) error { return r.Ping(ctx).Err() }
}
