package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/health"
	"go-gin-mongo-users/internal/core/server"
)

// NewAdminEngine serves readiness and prometheus metrics on the admin listener.
func NewAdminEngine(l *zap.Logger, ready *health.Service, g prometheus.Gatherer) *gin.Engine {
	if ready == nil {
		ready = health.NewService()
	}
	r := server.NewRouter(l)
	r.GET("/health", healthHandler(ready))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	return r
}
