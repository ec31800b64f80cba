package counter

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCounter(t *testing.T) (*RedisCounter, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	cl := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{s.Addr()},
	})
	t.Cleanup(func() { cl.Close() })
	return NewRedisCounter(cl, "visitors"), s
}

func TestRedisCounter_Up(t *testing.T) {
	c, s := newRedisCounter(t)
	ctx := context.Background()

	n, err := c.Up(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = c.Up(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	v, err := s.Get("visitors:main")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestRedisCounter_ExistingValue(t *testing.T) {
	c, s := newRedisCounter(t)
	require.NoError(t, s.Set("visitors:main", "6"))

	n, err := c.Up(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}

func TestRedisCounter_GetMissing(t *testing.T) {
	c, _ := newRedisCounter(t)

	n, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestRedisCounter_NotAnInteger(t *testing.T) {
	c, s := newRedisCounter(t)
	require.NoError(t, s.Set("visitors:main", "many"))

	_, err := c.Up(context.Background())
	require.Error(t, err)
	assert.Equal(t, UnexpectedStoreResponse, KindOf(err))
}

func TestRedisCounter_ServerDown(t *testing.T) {
	c, s := newRedisCounter(t)
	s.Close()

	_, err := c.Up(context.Background())
	require.Error(t, err)
	assert.Equal(t, StoreUnavailable, KindOf(err))
}

func TestRedisCounter_Concurrent(t *testing.T) {
	c, _ := newRedisCounter(t)
	assertConcurrentUp(t, c, 8, 200)
}
