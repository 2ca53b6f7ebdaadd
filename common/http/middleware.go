package http

import (
	"time"

	"soumahjong/common/log"

	"github.com/google/uuid"
)

const requestIDKey = "requestID"

// LoggerMiddleware 请求结束后记录方法、路径、状态码与耗时
func LoggerMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		start := time.Now()
		c.Next()
		log.Info("HTTP [%s] %s %s -> %d in %v from %s", c.GetString(requestIDKey),
			c.Method(), c.Path(), c.StatusCode(), time.Since(start), c.ClientIP())
		return nil
	}
}

// RequestIDMiddleware 沿用请求头中的 X-Request-ID，没有则生成
func RequestIDMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		requestID := c.Header("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.SetHeader("X-Request-ID", requestID)
		return nil
	}
}
