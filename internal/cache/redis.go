package cache

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// RedisMedium stores entries in Redis under a shared prefix. No
// Redis-side TTL is set: entries carry their own capture timestamp, so
// stale values are superseded on the next Set rather than evicted.
type RedisMedium struct {
	client *redis.Client
	prefix string
}

func NewRedisMedium(addr, password string, db int) *RedisMedium {
	return &RedisMedium{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: "coinpulse:",
	}
}

// NewRedisMediumWithClient wraps an existing client, for tests and
// shared connections.
func NewRedisMediumWithClient(client *redis.Client) *RedisMedium {
	return &RedisMedium{client: client, prefix: "coinpulse:"}
}

func (m *RedisMedium) Read(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := m.client.Get(ctx, m.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (m *RedisMedium) Write(ctx context.Context, key string, value []byte) error {
	return m.client.Set(ctx, m.prefix+key, value, 0).Err()
}
