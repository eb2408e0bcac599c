package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	resp "go-gin-mongo-users/internal/transport/http/response"
)

var errRequestTimeout = errors.New("request deadline exceeded")

// Timeout 给请求 context 加超时，存储调用都会继承；超时且尚未写响应时返回 504
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeoutCause(c.Request.Context(), d, errRequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if c.Writer.Written() || !errors.Is(context.Cause(ctx), errRequestTimeout) {
			return
		}
		resp.Abort(c, resp.CodeTimeout, "timeout")
	}
}
