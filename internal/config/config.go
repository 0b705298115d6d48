// Package config 负责加载和验证 YAML 配置文件。
// 提供应用程序所需的所有配置项，包括价格 API、刷新周期、自选列表持久化路径等。
// 配置文件缺失时使用内置默认值（后台工具不应因缺少配置而无法启动），
// 环境变量（GE_ 前缀）可覆盖文件中的任意配置项。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config 应用配置根结构
// 包含所有子模块的配置项
type Config struct {
	// App 应用基础配置
	App AppConfig `yaml:"app"`
	// API 价格数据源 API 配置
	API APIConfig `yaml:"api"`
	// Refresh 刷新调度配置
	Refresh RefreshConfig `yaml:"refresh"`
	// Watchlist 自选列表持久化配置
	Watchlist WatchlistConfig `yaml:"watchlist"`
	// Output 快照输出配置
	Output OutputConfig `yaml:"output"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	// Name 应用名称，用于日志标识
	Name string `yaml:"name" envconfig:"GE_APP_NAME"`
	// LogLevel 日志级别: debug, info, warn, error
	LogLevel string `yaml:"log_level" envconfig:"GE_LOG_LEVEL"`
}

// APIConfig 价格数据源 API 配置
// 数据源为 OSRS Wiki 实时价格 API，要求请求携带标识用途的 User-Agent
type APIConfig struct {
	// BaseURL API 基础地址
	BaseURL string `yaml:"base_url" envconfig:"GE_API_BASE_URL"`
	// UserAgent 数据源要求的标识请求头
	UserAgent string `yaml:"user_agent" envconfig:"GE_API_USER_AGENT"`
	// TimeoutMs HTTP 请求超时时间（毫秒）
	TimeoutMs int `yaml:"timeout_ms" envconfig:"GE_API_TIMEOUT_MS"`
}

// MappingURL 物品目录（id↔名称映射）端点地址
func (a *APIConfig) MappingURL() string {
	return strings.TrimSuffix(a.BaseURL, "/") + "/mapping"
}

// LatestURL 最新价格端点地址
func (a *APIConfig) LatestURL() string {
	return strings.TrimSuffix(a.BaseURL, "/") + "/latest"
}

// RefreshConfig 刷新调度配置
type RefreshConfig struct {
	// IntervalSec 周期刷新间隔（秒）
	IntervalSec int `yaml:"interval_sec" envconfig:"GE_REFRESH_INTERVAL_SEC"`
	// PollMs 消费端轮询间隔（毫秒），消费端是唯一允许触碰展示层的地方
	PollMs int `yaml:"poll_ms" envconfig:"GE_REFRESH_POLL_MS"`
}

// WatchlistConfig 自选列表持久化配置
type WatchlistConfig struct {
	// Path 持久化文件路径，空值时使用 ~/.ge_tracker_config.json
	Path string `yaml:"path" envconfig:"GE_WATCHLIST_PATH"`
}

// OutputConfig 快照输出配置
type OutputConfig struct {
	// Dir 输出目录
	Dir string `yaml:"dir" envconfig:"GE_OUTPUT_DIR"`
	// SnapshotsEnabled 是否输出快照流文件（供外部托盘进程消费）
	SnapshotsEnabled bool `yaml:"snapshots_enabled" envconfig:"GE_OUTPUT_SNAPSHOTS_ENABLED"`
	// BufferSize 异步写入缓冲区大小
	BufferSize int `yaml:"buffer_size" envconfig:"GE_OUTPUT_BUFFER_SIZE"`
}

// Load 加载配置并验证
// 配置文件不存在时不报错，直接使用默认值；文件存在但无法解析时返回错误。
// 加载顺序: 文件 -> 环境变量覆盖 -> 默认值 -> 验证
// 参数 path: 配置文件路径
// 返回: 解析后的配置对象，若失败则返回错误
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 环境变量覆盖（仅覆盖已设置的变量）
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("处理环境变量失败: %w", err)
	}

	// 设置默认值
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置配置默认值
func (c *Config) setDefaults() error {
	// 应用默认值
	if c.App.Name == "" {
		c.App.Name = "ge-price-watch"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	// API 默认值
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://prices.runescape.wiki/api/v1/osrs"
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = "ge-price-watch/1.0 - Personal Use"
	}
	if c.API.TimeoutMs == 0 {
		c.API.TimeoutMs = 10000 // 10 秒
	}

	// 刷新默认值
	if c.Refresh.IntervalSec == 0 {
		c.Refresh.IntervalSec = 300 // 5 分钟
	}
	if c.Refresh.PollMs == 0 {
		c.Refresh.PollMs = 1000 // 1 秒
	}

	// 自选列表默认路径: ~/.ge_tracker_config.json
	if c.Watchlist.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("获取用户目录失败: %w", err)
		}
		c.Watchlist.Path = filepath.Join(home, ".ge_tracker_config.json")
	}

	// 输出默认值
	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if c.Output.BufferSize == 0 {
		c.Output.BufferSize = 100
	}

	return nil
}

// Validate 验证配置合法性
// 检查所有必填项和数值范围
// 返回: 若配置无效则返回描述性错误
func (c *Config) Validate() error {
	var errs []string

	if c.API.BaseURL == "" {
		errs = append(errs, "api.base_url: API 基础地址不能为空")
	}
	if c.API.UserAgent == "" {
		errs = append(errs, "api.user_agent: 数据源要求标识请求头，不能为空")
	}
	if c.API.TimeoutMs <= 0 {
		errs = append(errs, "api.timeout_ms: 超时时间必须为正数")
	}

	if c.Refresh.IntervalSec <= 0 {
		errs = append(errs, "refresh.interval_sec: 刷新间隔必须为正数")
	}
	if c.Refresh.PollMs <= 0 {
		errs = append(errs, "refresh.poll_ms: 轮询间隔必须为正数")
	}

	if c.Watchlist.Path == "" {
		errs = append(errs, "watchlist.path: 持久化路径不能为空")
	}

	if c.Output.BufferSize < 0 {
		errs = append(errs, "output.buffer_size: 缓冲区大小不能为负数")
	}

	// 验证日志级别
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.App.LogLevel)] {
		errs = append(errs, fmt.Sprintf("app.log_level: 无效的日志级别 '%s'，有效值: debug, info, warn, error", c.App.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("配置验证错误:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
