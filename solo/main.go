package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"soumahjong/common/config"
	"soumahjong/common/log"
	"soumahjong/common/metrics"
	"soumahjong/framework/game/engines/mahjong"
	"soumahjong/solo/app"

	"github.com/spf13/cobra"
)

// 加载配置 -> 初始化日志 -> play 进入命令行对局 / serve 启动 HTTP 会话服务

var (
	configFile string
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "solo",
	Short: "solo 单人索子麻将",
	Long:  `solo 单人索子麻将，54 张索子，支持立直、暗杠、自摸`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("文件配置发生错误：%w", err)
		}
		log.InitLog(cfg.AppName, cfg.LogConf.Level)
		log.Debug("配置文件: %+v", cfg)
		return config.Watch(configFile, func(c *config.Configuration) {
			log.SetLevel(c.LogConf.Level)
			log.Info("配置已更新，日志级别: %s", c.LogConf.Level)
		})
	},
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "命令行单局",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := effectiveConfig(cmd)
		searcher, closeCache, err := app.NewSearcher(cfg)
		if err != nil {
			return err
		}
		defer closeCache()

		src := cfg.GameConf.Seed
		if src == 0 {
			src = time.Now().UnixNano()
		}
		// 命令行对局只输出警告，避免日志刷屏
		sink := log.NewSink(cfg.AppName, "warn", os.Stderr)
		eg := mahjong.NewSoloEngine(searcher, mahjong.NewWall(rand.New(rand.NewSource(src))), sink)
		return app.Play(cmd.Context(), eg, os.Stdin, os.Stdout)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP 会话服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := effectiveConfig(cmd)
		go func() {
			log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", cfg.MetricPort)
			if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", cfg.MetricPort)); err != nil {
				log.Error("监控服务异常: %v", err)
			}
		}()
		return app.Serve(cmd.Context(), cfg)
	},
}

// effectiveConfig 命令行 --seed 覆盖配置文件中的 game.seed
func effectiveConfig(cmd *cobra.Command) *config.Configuration {
	cfg := *config.Current()
	if cmd.Flags().Changed("seed") {
		cfg.GameConf.Seed = seed
	}
	return &cfg
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "configFile", "", "resource file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "牌山随机种子，0 表示按时间")
	rootCmd.AddCommand(playCmd, serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
