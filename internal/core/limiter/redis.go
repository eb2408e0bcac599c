package limiter

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window counter shared by every instance pointing at the same server.
type Redis struct {
	RDB    *redis.Client
	Prefix string
	Limit  int64
	Window time.Duration
}

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func NewRedis(rdb *redis.Client, limit int64, window time.Duration) *Redis {
	return &Redis{RDB: rdb, Prefix: "ratelimit:", Limit: limit, Window: window}
}

// NewRedisRate sizes the window so that burst requests fit in it at an average
// of rps per second, the same budget the local token bucket allows.
func NewRedisRate(rdb *redis.Client, rps float64, burst int) *Redis {
	limit, window := FixedWindow(rps, burst)
	return NewRedis(rdb, limit, window)
}

// FixedWindow converts a token-bucket rate into a fixed-window budget. burst
// below 1 is raised to 1, so fractional rates still admit traffic.
func FixedWindow(rps float64, burst int) (int64, time.Duration) {
	burst = max(burst, 1)
	window := time.Duration(float64(burst) / rps * float64(time.Second))
	return int64(burst), max(window, time.Millisecond)
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(r.Window)
	k := r.Prefix + key + ":" + strconv.FormatInt(slot, 10)

	var incr *redis.IntCmd
	_, err := r.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, r.Window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= r.Limit, nil
}
