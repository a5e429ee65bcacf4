package scoreboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key holding the serialized leaderboard.
const DefaultRedisKey = "geoquiz:leaderboard"

// Redis stores the serialized leaderboard under a single key.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Load(ctx context.Context) ([]Entry, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard from redis: %w", err)
	}
	return Decode(data)
}

func (r *Redis) Save(ctx context.Context, entries []Entry) error {
	data, err := Encode(entries)
	if err != nil {
		return fmt.Errorf("encoding leaderboard: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("saving leaderboard to redis: %w", err)
	}
	return nil
}

// Check pings the redis server.
func (r *Redis) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }
