package api

import (
	"soumahjong/common/http"
	"soumahjong/framework/game"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(server *http.HttpServer, sessions *game.SessionManager) {
	h := NewSessionHandler(sessions)

	server.GET("/ping", PingHandler)
	v1 := server.Group("/api/v1")
	{
		s := v1.Group("/sessions")
		{
			s.POST("", h.Create)
			s.GET("/:id", h.Get)
			s.DELETE("/:id", h.Delete)
			s.POST("/:id/start", h.Start)
			s.POST("/:id/draw", h.Draw)
			s.POST("/:id/discard", h.Discard)
			s.POST("/:id/quad", h.Quad)
			s.POST("/:id/win", h.Win)
			s.POST("/:id/reset", h.Reset)
			s.GET("/:id/waits", h.Waits)
			s.GET("/:id/history", h.History)
		}
	}
}
