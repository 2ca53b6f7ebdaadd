package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var current atomic.Pointer[Configuration]

func init() {
	current.Store(Default())
}

// Current 当前生效的配置，Load 与热更新后返回新值，返回值只读
func Current() *Configuration {
	return current.Load()
}

type Configuration struct {
	AppName    string    `mapstructure:"appName"`
	HttpPort   int       `mapstructure:"httpPort"`
	MetricPort int       `mapstructure:"metricPort"`
	LogConf    LogConf   `mapstructure:"log"`
	GameConf   GameConf  `mapstructure:"game"`
	CacheConf  CacheConf `mapstructure:"cache"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type GameConf struct {
	Seed        int64 `mapstructure:"seed"`        // 0 表示按时间随机
	MaxSessions int   `mapstructure:"maxSessions"` // 同时存在的会话上限
}

type CacheConf struct {
	Enabled bool  `mapstructure:"enabled"`
	MaxCost int64 `mapstructure:"maxCost"` // ristretto 最大成本，每条记录成本为 1
	Ttl     int   `mapstructure:"ttl"`     // 单位是秒，0 表示不过期
}

// Default 不读配置文件时使用的默认值
func Default() *Configuration {
	return &Configuration{
		AppName:    "solo",
		HttpPort:   8080,
		MetricPort: 5854,
		LogConf:    LogConf{Level: "info"},
		GameConf:   GameConf{MaxSessions: 1024},
		CacheConf:  CacheConf{Enabled: false, MaxCost: 1 << 20},
	}
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	def := Default()
	v.SetDefault("appName", def.AppName)
	v.SetDefault("httpPort", def.HttpPort)
	v.SetDefault("metricPort", def.MetricPort)
	v.SetDefault("log.level", def.LogConf.Level)
	v.SetDefault("game.seed", def.GameConf.Seed)
	v.SetDefault("game.maxSessions", def.GameConf.MaxSessions)
	v.SetDefault("cache.enabled", def.CacheConf.Enabled)
	v.SetDefault("cache.maxCost", def.CacheConf.MaxCost)
	v.SetDefault("cache.ttl", def.CacheConf.Ttl)

	v.SetEnvPrefix("SOLO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	return v
}

// Load configFile 为空时只使用默认值和环境变量
func Load(configFile string) (*Configuration, error) {
	v := newViper(configFile)
	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", configFile, err)
		}
	}

	cfg := &Configuration{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	current.Store(cfg)
	return cfg, nil
}

// Watch 监听配置文件变化，重新解析成功后回调
func Watch(configFile string, onChange func(*Configuration)) error {
	if configFile == "" {
		return nil
	}
	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件 %s 失败: %w", configFile, err)
	}
	v.OnConfigChange(func(in fsnotify.Event) {
		if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Create) {
			return
		}
		cfg := &Configuration{}
		if err := v.Unmarshal(cfg); err != nil || cfg.validate() != nil {
			return
		}
		current.Store(cfg)
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

func (cfg *Configuration) validate() error {
	if cfg.GameConf.MaxSessions <= 0 {
		return fmt.Errorf("game.maxSessions 必须大于 0, got %d", cfg.GameConf.MaxSessions)
	}
	if cfg.CacheConf.Enabled && cfg.CacheConf.MaxCost <= 0 {
		return fmt.Errorf("cache.maxCost 必须大于 0, got %d", cfg.CacheConf.MaxCost)
	}
	if cfg.CacheConf.Ttl < 0 {
		return fmt.Errorf("cache.ttl 不能为负数, got %d", cfg.CacheConf.Ttl)
	}
	return nil
}
