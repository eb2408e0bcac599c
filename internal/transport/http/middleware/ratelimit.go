package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/limiter"
	resp "go-gin-mongo-users/internal/transport/http/response"
)

const globalKey = "global"

// RateLimit 全局限速（所有请求共用一个额度）
func RateLimit(lim limiter.Limiter, l *zap.Logger) gin.HandlerFunc {
	return rateLimit(lim, l, func(*gin.Context) string { return globalKey })
}

// RateLimitPerIP 每 IP 限速
func RateLimitPerIP(lim limiter.Limiter, l *zap.Logger) gin.HandlerFunc {
	return rateLimit(lim, l, func(c *gin.Context) string { return c.ClientIP() })
}

func rateLimit(lim limiter.Limiter, l *zap.Logger, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := lim.Allow(c.Request.Context(), key(c))
		if err != nil {
			// 限速后端不可用时直接放行
			l.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			resp.Abort(c, resp.CodeTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
