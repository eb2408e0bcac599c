package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/health"
	"go-gin-mongo-users/internal/core/limiter"
	"go-gin-mongo-users/internal/core/server"
	mdw "go-gin-mongo-users/internal/transport/http/middleware"
	resp "go-gin-mongo-users/internal/transport/http/response"
)

type Options struct {
	Name           string
	Version        string
	APIPrefix      string
	CORSOrigins    []string
	Limiter        limiter.Limiter // nil disables rate limiting
	PerIP          bool
	Concurrency    int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	Ready          *health.Service
	// Metrics receives the HTTP collectors; nil leaves the engine uninstrumented.
	Metrics prometheus.Registerer
}

func NewAPIEngine(l *zap.Logger, o Options, mods ...APIModule) *gin.Engine {
	if o.APIPrefix == "" {
		o.APIPrefix = "/api/v1"
	}
	if o.Ready == nil {
		o.Ready = health.NewService()
	}

	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Recovery(l),
	)
	if o.Metrics != nil {
		r.Use(mdw.NewHTTPMetrics(o.Metrics).Handler())
	}
	r.Use(server.CORS(o.CORSOrigins))
	if o.Limiter != nil {
		if o.PerIP {
			r.Use(mdw.RateLimitPerIP(o.Limiter, l))
		} else {
			r.Use(mdw.RateLimit(o.Limiter, l))
		}
	}
	if o.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(o.Concurrency))
	}
	if o.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(o.MaxBodyBytes))
	}
	if o.RequestTimeout > 0 {
		r.Use(mdw.Timeout(o.RequestTimeout))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(gin.H{
			"message": "Welcome to " + o.Name,
			"version": o.Version,
			"api":     o.APIPrefix,
		}))
	})
	r.GET("/health", healthHandler(o.Ready))

	MountAllAPI(r.Group(o.APIPrefix), mods...)
	return r
}

func healthHandler(ready *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ready.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, resp.New(resp.CodeUnavailable, err.Error(), gin.H{"status": "unhealthy"}))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"status": "healthy"}))
	}
}
