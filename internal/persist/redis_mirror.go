package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "cyclemate:state"

// RedisMirror keeps a copy of the state document under a single Redis key so
// other devices can pick it up.
type RedisMirror struct {
	client *redis.Client
	key    string
}

func NewRedisMirror(client *redis.Client, key string) *RedisMirror {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisMirror{client: client, key: key}
}

// DialRedis builds a client from a redis:// or rediss:// URL.
func DialRedis(rawURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(options), nil
}

func (mirror *RedisMirror) Fetch(ctx context.Context) ([]byte, bool, error) {
	payload, err := mirror.client.Get(ctx, mirror.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (mirror *RedisMirror) Store(ctx context.Context, payload []byte) error {
	return mirror.client.Set(ctx, mirror.key, payload, 0).Err()
}

func (mirror *RedisMirror) Ping(ctx context.Context) error {
	return mirror.client.Ping(ctx).Err()
}

func (mirror *RedisMirror) Close() error {
	return mirror.client.Close()
}
