package health

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/gorm"
)

// Checker reports whether one dependency is reachable.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

type Service struct {
	checkers []Checker
	timeout  time.Duration
}

func NewService(checkers ...Checker) *Service {
	return &Service{checkers: checkers, timeout: 2 * time.Second}
}

// Ready runs every checker and reports the first failure.
func (s *Service) Ready(ctx context.Context) error {
	for _, ch := range s.checkers {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := ch.Check(cctx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}

type pingChecker struct {
	name string
	ping func(ctx context.Context) error
}

func (c pingChecker) Name() string                    { return c.name }
func (c pingChecker) Check(ctx context.Context) error { return c.ping(ctx) }

func Func(name string, ping func(ctx context.Context) error) Checker {
	return pingChecker{name: name, ping: ping}
}

func Mongo(client *mongo.Client) Checker {
	return Func("mongo", func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
}

func Gorm(db *gorm.DB) Checker {
	return Func("sql", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

func Redis(rdb *redis.Client) Checker {
	return Func("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
}
