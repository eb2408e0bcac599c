package repo

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-mongo-users/internal/core/config"
	"go-gin-mongo-users/internal/core/database"
	"go-gin-mongo-users/internal/core/health"
	"go-gin-mongo-users/internal/core/logger"
	"go-gin-mongo-users/internal/domain"
)

// Handle is an opened user store together with the health check and shutdown hook of its backend.
type Handle struct {
	Users domain.UserStore
	// Checker is nil for the memory driver.
	Checker health.Checker

	migrate func(ctx context.Context) error
	close   func()
}

// Migrate creates the indexes (mongo) or table (sql) the store relies on for email uniqueness.
func (h *Handle) Migrate(ctx context.Context) error { return h.migrate(ctx) }

func (h *Handle) Close() { h.close() }

// Open connects the backend named by cfg.DB.Driver.
func Open(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Handle, error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		m, err := database.NewMongo(ctx, database.MongoOpts{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			ConnectTimeout: time.Duration(cfg.Mongo.ConnectTimeoutSec) * time.Second,
			MaxPoolSize:    cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, err
		}
		l.Info("mongo connected",
			zap.String("uri", database.RedactURI(cfg.Mongo.URI)),
			zap.String("database", cfg.Mongo.Database),
		)
		s := NewMongoUserStore(m.DB, cfg.Mongo.Collection)
		return &Handle{
			Users:   s,
			Checker: health.Mongo(m.Client),
			migrate: s.EnsureIndexes,
			close: func() {
				cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := m.Close(cctx); err != nil {
					l.Warn("mongo disconnect", zap.Error(err))
				}
			},
		}, nil

	case config.DriverPostgres, config.DriverMySQL:
		gormLog, err := logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel)
		if err != nil {
			return nil, fmt.Errorf("gorm logger: %w", err)
		}
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
			Writer:             gormLog,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
		}
		s := NewGormUserStore(db)
		return &Handle{
			Users:   s,
			Checker: health.Gorm(db),
			migrate: s.Migrate,
			close: func() {
				if err := database.CloseGorm(db); err != nil {
					l.Warn("db close", zap.Error(err))
				}
			},
		}, nil

	case config.DriverMemory:
		l.Warn("using in-memory user store; data is lost on exit")
		return &Handle{
			Users:   NewMemoryUserStore(),
			migrate: func(context.Context) error { return nil },
			close:   func() {},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", database.ErrUnsupportedDriver, cfg.DB.Driver)
}
