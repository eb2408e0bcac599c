package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-gin-mongo-users/internal/core/logger"
)

const KeyRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// RequestID 复用调用方的 X-Request-ID，没有则生成；回写响应头，
// 同时存入 gin context（访问日志用）和 request context（service 日志用）
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}
		c.Header(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
