package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soumahjong/common/cache"
	"soumahjong/common/config"
	"soumahjong/common/http"
	"soumahjong/common/log"
	"soumahjong/framework/game"
	"soumahjong/framework/game/engines"
	"soumahjong/framework/game/engines/mahjong"
	"soumahjong/solo/api"
)

// 空闲超过该时长的会话会被清理
const sessionIdle = 30 * time.Minute

// NewSearcher cache.enabled 时使用 ristretto 作为搜索缓存，返回的 closer 需要在退出时调用
func NewSearcher(cfg *config.Configuration) (*mahjong.Searcher, func(), error) {
	if !cfg.CacheConf.Enabled {
		return mahjong.NewSearcher(nil), func() {}, nil
	}
	c, err := cache.NewGeneralCache(cfg.CacheConf.MaxCost, time.Duration(cfg.CacheConf.Ttl)*time.Second)
	if err != nil {
		return nil, nil, err
	}
	log.Info("搜索缓存使用 ristretto，maxCost: %d，ttl: %ds", cfg.CacheConf.MaxCost, cfg.CacheConf.Ttl)
	return mahjong.NewSearcher(c), c.Close, nil
}

// NewSessionManager 每个会话的引擎诊断日志带上会话 ID
func NewSessionManager(cfg *config.Configuration, searcher *mahjong.Searcher) *game.SessionManager {
	sink := log.NewSink(cfg.AppName, cfg.LogConf.Level, nil)
	factory := game.NewEngineFactory(searcher, cfg.GameConf.Seed, func(id string) engines.Diagnostics {
		return sink.With("session", id)
	})
	return game.NewSessionManager(factory, cfg.GameConf.MaxSessions)
}

// Serve 启动 HTTP 会话服务与负载监控，收到退出信号或 ctx 结束时优雅关闭
func Serve(ctx context.Context, cfg *config.Configuration) error {
	searcher, closeCache, err := NewSearcher(cfg)
	if err != nil {
		return err
	}
	defer closeCache()
	sessions := NewSessionManager(cfg, searcher)

	server := http.NewHttpServer(
		http.WithPort(cfg.HttpPort),
		http.WithMode(cfg.LogConf.Level),
	)
	server.Use(
		http.RequestIDMiddleware(),
		http.LoggerMiddleware(),
	)
	api.RegisterRoutes(server, sessions)

	errCh := make(chan error, 1)
	go func() {
		log.Info("启动 HTTP 服务器，端口: %d", cfg.HttpPort)
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("HTTP 服务器启动失败: %w", err)
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP 服务器关闭失败: %v", err)
		} else {
			log.Info("HTTP 服务器已优雅关闭")
		}
	}

	monitor := game.NewMonitor(sessions, time.Minute, sessionIdle)
	go monitor.Start(ctx)
	defer monitor.Stop()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)
	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case err := <-errCh:
			return err
		case s := <-c:
			switch s {
			case syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT:
				stop()
				log.Info("中断信号，服务停止")
				return nil
			case syscall.SIGHUP:
				stop()
				log.Info("挂起信号，服务停止")
				return nil
			default:
				return nil
			}
		}
	}
}
