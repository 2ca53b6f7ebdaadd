package http

import (
	"github.com/gin-gonic/gin"
)

// Context 处理器和中间件看到的请求上下文，只暴露会话接口用到的部分
type Context struct {
	gc *gin.Context
}

func (c *Context) Param(key string) string {
	return c.gc.Param(key)
}

func (c *Context) Header(key string) string {
	return c.gc.GetHeader(key)
}

// BindJSON 请求体为空时返回 io.EOF
func (c *Context) BindJSON(obj interface{}) error {
	return c.gc.ShouldBindJSON(obj)
}

func (c *Context) SetHeader(key, value string) {
	c.gc.Header(key, value)
}

func (c *Context) ClientIP() string {
	return c.gc.ClientIP()
}

func (c *Context) Method() string {
	return c.gc.Request.Method
}

func (c *Context) Path() string {
	return c.gc.Request.URL.Path
}

// StatusCode 已写出的响应状态码
func (c *Context) StatusCode() int {
	return c.gc.Writer.Status()
}

// Set / GetString 在中间件与处理器之间传值
func (c *Context) Set(key string, value interface{}) {
	c.gc.Set(key, value)
}

func (c *Context) GetString(key string) string {
	return c.gc.GetString(key)
}

// Next 中间件中先执行后续处理器
func (c *Context) Next() {
	c.gc.Next()
}
