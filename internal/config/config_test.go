// Package config 配置模块测试
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createValidConfig 创建一个通过验证的最小配置
func createValidConfig() *Config {
	cfg := &Config{}
	if err := cfg.setDefaults(); err != nil {
		panic(err)
	}
	return cfg
}

// TestLoad_MissingFile 测试配置文件缺失时使用默认值
// 后台工具不应因缺少配置文件而无法启动
func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Name != "ge-price-watch" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("App.LogLevel = %q", cfg.App.LogLevel)
	}
	if cfg.API.BaseURL != "https://prices.runescape.wiki/api/v1/osrs" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutMs != 10000 {
		t.Errorf("API.TimeoutMs = %d", cfg.API.TimeoutMs)
	}
	if cfg.Refresh.IntervalSec != 300 {
		t.Errorf("Refresh.IntervalSec = %d", cfg.Refresh.IntervalSec)
	}
	if cfg.Refresh.PollMs != 1000 {
		t.Errorf("Refresh.PollMs = %d", cfg.Refresh.PollMs)
	}
	if !strings.HasSuffix(cfg.Watchlist.Path, ".ge_tracker_config.json") {
		t.Errorf("Watchlist.Path = %q", cfg.Watchlist.Path)
	}
}

// TestLoad_File 测试从 YAML 文件加载配置
func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  name: my-watch
  log_level: debug
api:
  base_url: http://localhost:8080/api
  timeout_ms: 500
refresh:
  interval_sec: 60
watchlist:
  path: /tmp/wl.json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Name != "my-watch" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("App.LogLevel = %q", cfg.App.LogLevel)
	}
	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutMs != 500 {
		t.Errorf("API.TimeoutMs = %d", cfg.API.TimeoutMs)
	}
	if cfg.Refresh.IntervalSec != 60 {
		t.Errorf("Refresh.IntervalSec = %d", cfg.Refresh.IntervalSec)
	}
	if cfg.Watchlist.Path != "/tmp/wl.json" {
		t.Errorf("Watchlist.Path = %q", cfg.Watchlist.Path)
	}
	// 未在文件中指定的字段仍取默认值
	if cfg.API.UserAgent == "" {
		t.Error("API.UserAgent 应有默认值")
	}
	if cfg.Refresh.PollMs != 1000 {
		t.Errorf("Refresh.PollMs = %d", cfg.Refresh.PollMs)
	}
}

// TestLoad_EnvOverride 测试环境变量覆盖文件配置
func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  log_level: info\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("GE_LOG_LEVEL", "warn")
	t.Setenv("GE_REFRESH_INTERVAL_SEC", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.LogLevel != "warn" {
		t.Errorf("App.LogLevel = %q, want warn", cfg.App.LogLevel)
	}
	if cfg.Refresh.IntervalSec != 42 {
		t.Errorf("Refresh.IntervalSec = %d, want 42", cfg.Refresh.IntervalSec)
	}
}

// TestLoad_InvalidYAML 测试文件存在但无法解析时返回错误
// 与文件缺失不同，损坏的配置文件提示操作者出错，应当快速失败
func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("app: [not: valid"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("期望解析错误")
	}
}

// TestValidate 测试配置验证
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"默认配置通过", func(c *Config) {}, false},
		{"无效日志级别", func(c *Config) { c.App.LogLevel = "verbose" }, true},
		{"空 UserAgent", func(c *Config) { c.API.UserAgent = "" }, true},
		{"非正超时", func(c *Config) { c.API.TimeoutMs = -1 }, true},
		{"非正刷新间隔", func(c *Config) { c.Refresh.IntervalSec = 0 }, true},
		{"非正轮询间隔", func(c *Config) { c.Refresh.PollMs = -5 }, true},
		{"空持久化路径", func(c *Config) { c.Watchlist.Path = "" }, true},
		{"负缓冲区", func(c *Config) { c.Output.BufferSize = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createValidConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

// TestEndpointURLs 测试端点地址拼接
func TestEndpointURLs(t *testing.T) {
	api := APIConfig{BaseURL: "https://example.com/api/"}
	if got := api.MappingURL(); got != "https://example.com/api/mapping" {
		t.Errorf("MappingURL = %q", got)
	}
	if got := api.LatestURL(); got != "https://example.com/api/latest" {
		t.Errorf("LatestURL = %q", got)
	}
}
