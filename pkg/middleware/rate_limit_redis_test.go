package middleware

import (
	"net/http"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitMiddleware_FixedWindow(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	clock := time.Unix(1_700_000_000, 0)
	now := func() time.Time { return clock }
	// 0.05 rps over 60s plus burst 2 => 5 per window
	r := limitedEngine(redisLimiter(client, "feedback", 0.05, 2, time.Minute, now))

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusCreated, post(r, "").Code, "request %d", i)
	}
	w := post(r, "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	keys := m.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "rl:feedback:ip:")
	assert.Greater(t, m.TTL(keys[0]), time.Duration(0))

	// next window
	clock = clock.Add(time.Minute)
	require.Equal(t, http.StatusCreated, post(r, "").Code)
}

func TestRedisRateLimitMiddleware_FailsOpen(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	m.Close()

	r := limitedEngine(RedisRateLimitMiddleware(client, "feedback", 0, 0, time.Second))
	assert.Equal(t, http.StatusCreated, post(r, "").Code)
}

func TestRedisRateLimitMiddleware_NilClientFallsBack(t *testing.T) {
	r := limitedEngine(RedisRateLimitMiddleware(nil, "feedback", 0.1, 1, time.Minute))
	require.Equal(t, http.StatusCreated, post(r, "").Code)
	require.Equal(t, http.StatusTooManyRequests, post(r, "").Code)
}
