package limiter_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-mongo-users/internal/core/limiter"
)

var redisClient *redis.Client

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker unavailable, redis tests will be skipped: %s", err)
		os.Exit(m.Run())
	}

	container, err := pool.Run("redis", "7.2.0-alpine", nil)
	if err != nil {
		log.Fatalf("Could not start container: %s", err)
	}

	addr := fmt.Sprintf("localhost:%s", container.GetPort("6379/tcp"))
	if err := pool.Retry(func() error {
		redisClient = limiter.NewRedisClient(addr, "", 0)
		return redisClient.Ping(context.Background()).Err()
	}); err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	code := m.Run()

	_ = redisClient.Close()
	if err := pool.Purge(container); err != nil {
		log.Fatalf("Could not purge container: %s", err)
	}

	os.Exit(code)
}

func TestRedisFixedWindow(t *testing.T) {
	if redisClient == nil {
		t.Skip("redis container not running")
	}
	ctx := context.Background()
	lim := limiter.NewRedis(redisClient, 2, time.Minute)
	lim.Prefix = fmt.Sprintf("test:%d:", time.Now().UnixNano())

	for i := 0; i < 2; i++ {
		ok, err := lim.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := lim.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = lim.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisUnavailable(t *testing.T) {
	rdb := limiter.NewRedisClient("127.0.0.1:1", "", 0)
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := limiter.NewRedis(rdb, 10, time.Second).Allow(ctx, "k")
	assert.Error(t, err)
}

func TestRedisFractionalRateAdmits(t *testing.T) {
	if redisClient == nil {
		t.Skip("redis container not running")
	}
	lim := limiter.NewRedisRate(redisClient, 0.5, 0)
	lim.Prefix = fmt.Sprintf("test:%d:", time.Now().UnixNano())

	ok, err := lim.Allow(context.Background(), "global")
	require.NoError(t, err)
	assert.True(t, ok, "a rate below one per second still admits a request")
}
