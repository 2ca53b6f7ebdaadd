package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerFunc 返回的错误统一按 500 处理；中间件返回错误时中断后续处理
type HandlerFunc func(*Context) error
type MiddlewareFunc func(*Context) error

// HttpServer 基于 gin 的 HTTP 服务器
type HttpServer struct {
	engine *gin.Engine
	server *http.Server
	port   int
}

type ServerOption func(*HttpServer)

func WithPort(port int) ServerOption {
	return func(s *HttpServer) {
		s.port = port
	}
}

// WithMode debug / test 原样使用，其它值（包括日志级别 info 等）按 release 处理
func WithMode(mode string) ServerOption {
	return func(s *HttpServer) {
		switch mode {
		case gin.DebugMode, gin.TestMode:
			gin.SetMode(mode)
		default:
			gin.SetMode(gin.ReleaseMode)
		}
	}
}

func NewHttpServer(opts ...ServerOption) *HttpServer {
	s := &HttpServer{port: 8080}
	// gin 模式必须在 gin.New 之前设置
	for _, opt := range opts {
		opt(s)
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	return s
}

func handler(h HandlerFunc) gin.HandlerFunc {
	return func(gc *gin.Context) {
		c := &Context{gc: gc}
		if err := h(c); err != nil {
			c.InternalServerError(err.Error())
		}
	}
}

func middleware(m MiddlewareFunc) gin.HandlerFunc {
	return func(gc *gin.Context) {
		c := &Context{gc: gc}
		if err := m(c); err != nil {
			c.InternalServerError(err.Error())
			gc.Abort()
			return
		}
		gc.Next()
	}
}

// Use 全局中间件，需在注册路由之前调用
func (s *HttpServer) Use(ms ...MiddlewareFunc) {
	for _, m := range ms {
		s.engine.Use(middleware(m))
	}
}

func (s *HttpServer) GET(path string, h HandlerFunc) {
	s.engine.GET(path, handler(h))
}

func (s *HttpServer) Group(prefix string) *RouterGroup {
	return &RouterGroup{group: s.engine.Group(prefix)}
}

// RouterGroup 路由组
type RouterGroup struct {
	group *gin.RouterGroup
}

func (rg *RouterGroup) Group(prefix string) *RouterGroup {
	return &RouterGroup{group: rg.group.Group(prefix)}
}

func (rg *RouterGroup) GET(path string, h HandlerFunc) {
	rg.group.GET(path, handler(h))
}

func (rg *RouterGroup) POST(path string, h HandlerFunc) {
	rg.group.POST(path, handler(h))
}

func (rg *RouterGroup) DELETE(path string, h HandlerFunc) {
	rg.group.DELETE(path, handler(h))
}

// Start 阻塞监听，Shutdown 触发的正常关闭返回 nil
func (s *HttpServer) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.engine,
	}
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// GetEngine 测试中直接 ServeHTTP
func (s *HttpServer) GetEngine() *gin.Engine {
	return s.engine
}
