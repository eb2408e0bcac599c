package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-mongo-users/internal/core/config"
	"go-gin-mongo-users/internal/core/health"
	"go-gin-mongo-users/internal/core/limiter"
	"go-gin-mongo-users/internal/core/logger"
	"go-gin-mongo-users/internal/core/server"
	"go-gin-mongo-users/internal/repo"
	"go-gin-mongo-users/internal/service"
	"go-gin-mongo-users/internal/transport/http/handler"
	"go-gin-mongo-users/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	l, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.Rotate.Enable,
			Filename:   cfg.Log.Rotate.Filename,
			MaxSizeMB:  cfg.Log.Rotate.MaxSizeMB,
			MaxBackups: cfg.Log.Rotate.MaxBackups,
			MaxAgeDays: cfg.Log.Rotate.MaxAgeDays,
			Compress:   cfg.Log.Rotate.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(l, zapcore.InfoLevel)()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(l.Named("gin"), zapcore.DebugLevel)

	// Store (fatal on failure)
	st, err := repo.Open(context.Background(), cfg, l)
	if err != nil {
		l.Fatal("open user store", zap.String("driver", cfg.DB.Driver), zap.Error(err))
	}
	defer st.Close()
	if cfg.DB.AutoMigrate {
		if err := st.Migrate(context.Background()); err != nil {
			l.Fatal("migrate user store", zap.Error(err))
		}
		l.Info("user store migrated")
	}
	l.Info("user store ready", zap.String("driver", cfg.DB.Driver))

	var checkers []health.Checker
	if st.Checker != nil {
		checkers = append(checkers, st.Checker)
	}

	var lim limiter.Limiter
	if cfg.Limit.RPS > 0 {
		if cfg.Redis.Addr != "" {
			rdb := limiter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			defer rdb.Close()
			lim = limiter.NewRedisRate(rdb, cfg.Limit.RPS, cfg.Limit.Burst)
			checkers = append(checkers, health.Redis(rdb))
			l.Info("rate limit shared through redis", zap.String("addr", cfg.Redis.Addr))
		} else {
			lim = limiter.NewLocal(cfg.Limit.RPS, cfg.Limit.Burst)
		}
	}
	ready := health.NewService(checkers...)

	svc := service.NewUserService(st.Users)
	svc = service.NewLoggingService(svc, l)
	svc = service.NewMetricsService(svc, prometheus.DefaultRegisterer)

	r := router.NewAPIEngine(l, router.Options{
		Name:           cfg.App.Name,
		Version:        cfg.App.Version,
		APIPrefix:      cfg.App.APIPrefix,
		CORSOrigins:    cfg.App.CORSOrigins,
		Limiter:        lim,
		PerIP:          cfg.Limit.PerIP,
		Concurrency:    cfg.Limit.Concurrency,
		MaxBodyBytes:   cfg.Limit.MaxBodyBytes,
		RequestTimeout: time.Duration(cfg.Limit.RequestTimeoutSec) * time.Second,
		Ready:          ready,
		Metrics:        prometheus.DefaultRegisterer,
	}, handler.NewUserHandler(svc, l))

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	l.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("users", baseURL+cfg.App.APIPrefix+"/users"),
	)
	server.StartHTTP(srv, l, "user api")

	var adminSrv *http.Server
	if cfg.App.Admin.Port > 0 {
		adminSrv = server.BuildServer(
			server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port),
			router.NewAdminEngine(l.Named("admin"), ready, prometheus.DefaultGatherer),
			5*time.Second, 10*time.Second, 60*time.Second,
		)
		server.StartHTTP(adminSrv, l, "admin api")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.Shutdown(ctx, l, "user api", srv)
	if adminSrv != nil {
		server.Shutdown(ctx, l, "admin api", adminSrv)
	}
}
