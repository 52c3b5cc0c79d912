package redisconn

import (
	"context"
	"testing"
	"time"

	"blogapi/internal/middleware"
	"blogapi/internal/observability"

	"github.com/alicebob/miniredis/v2"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	rdb, err := NewClient("redis://:secret@localhost:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", rdb.Options().Addr)
	assert.Equal(t, 2, rdb.Options().DB)
	assert.Equal(t, "secret", rdb.Options().Password)

	_, err = NewClient("redis://host:notaport/x")
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	InitRedis(addr)
	require.NotNil(t, GetClient())
	assert.NoError(t, GetClient().Set(context.Background(), "k", "v", 0).Err())
	assert.Equal(t, "v", mustGet(t, mr, "k"))

	mr.Close()
	InitRedis(addr)
	assert.Nil(t, GetClient())
}

func TestMetricsHook_CountsFailedCommandOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	incrErrors := observability.RedisErrorRate.WithLabelValues("incr")
	before := promtest.ToFloat64(incrErrors)

	limiter := middleware.NewRateLimiter(rdb, "production", middleware.FailOpen)
	_, err = limiter.Allow(context.Background(), "login", "ip:127.0.0.1", 5, time.Minute)
	require.Error(t, err)

	assert.Equal(t, before+1, promtest.ToFloat64(incrErrors))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
