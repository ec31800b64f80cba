package counter

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

var _ ReadCounter = (*RedisCounter)(nil)

// RedisCounter keeps the record as an integer string under "<table>:main".
// INCRBY creates a missing key as 0 before adding.
type RedisCounter struct {
	key    string
	client redis.UniversalClient
}

func NewRedisCounter(client redis.UniversalClient, table string) *RedisCounter {
	return &RedisCounter{key: table + ":" + Key, client: client}
}

func (c *RedisCounter) Get(ctx context.Context) (int64, error) {
	n, err := c.client.Get(ctx, c.key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, redisError("Get", err)
	}
	return n, nil
}

func (c *RedisCounter) Up(ctx context.Context) (int64, error) {
	n, err := c.client.IncrBy(ctx, c.key, 1).Result()
	if err != nil {
		return 0, redisError("IncrBy", err)
	}
	return n, nil
}

func redisError(op string, err error) error {
	// A reply error means the server answered, e.g. the key holds a non-integer.
	var re redis.Error
	if errors.As(err, &re) {
		return Unexpected("redis."+op, err)
	}
	return Unavailable("redis."+op, err)
}
