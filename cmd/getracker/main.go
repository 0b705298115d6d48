// Package main 是 GE 价格追踪核心的入口点。
// 后台周期拉取 OSRS Grand Exchange 最新价格，结合用户自选列表
// 渲染只读展示快照，经 JSONL 快照流交给外部托盘/菜单进程消费。
//
// 托盘进程通过 SIGUSR1 触发立即刷新；设置进程（gesettings）通过
// 共享的自选列表文件与本进程交互，文件变更按秒级轮询感知。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ge-price-watch/internal/app"
	"ge-price-watch/internal/catalog"
	"ge-price-watch/internal/config"
	"ge-price-watch/internal/output/jsonl"
	"ge-price-watch/internal/prices"
	"ge-price-watch/internal/scheduler"
	"ge-price-watch/internal/watchlist"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	flag.Parse()

	// .env 是可选的本地开发便利
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 捕获 SIGINT/SIGTERM，触发优雅退出
	sigCh := make(chan os.Signal, 2)
	ossignal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("收到退出信号，开始优雅关闭")
		cancel()
	}()

	// 启动时获取一次物品目录；失败不致命，旧/空目录继续服务搜索
	catStore := catalog.NewStore(
		catalog.NewHTTPFetcher(cfg.API.MappingURL(), cfg.API.UserAgent, cfg.API.TimeoutMs),
		logger,
	)
	if err := catStore.Refresh(ctx); err != nil {
		logger.Warn("启动获取物品目录失败，继续以空目录运行", zap.Error(err))
	}

	// 自选列表独立于网络，从持久化状态加载
	wlStore := watchlist.NewStore(cfg.Watchlist.Path, logger)
	logger.Info("自选列表已加载",
		zap.Int("entries", len(wlStore.Entries())),
		zap.String("path", cfg.Watchlist.Path))

	sched := scheduler.New(
		prices.NewHTTPFetcher(cfg.API.LatestURL(), cfg.API.UserAgent, cfg.API.TimeoutMs),
		time.Duration(cfg.Refresh.IntervalSec)*time.Second,
		logger,
	)

	core := app.New(catStore, wlStore, sched, logger)

	var snapWriter *jsonl.Writer
	if cfg.Output.SnapshotsEnabled {
		snapWriter, err = jsonl.NewWriter(filepath.Join(cfg.Output.Dir, "snapshots.jsonl"), cfg.Output.BufferSize)
		if err != nil {
			logger.Error("创建快照流写入器失败", zap.Error(err))
			os.Exit(1)
		}
	}

	// SIGUSR1 -> 手动刷新（供托盘进程触发"立即刷新"）
	refreshCh := make(chan os.Signal, 1)
	ossignal.Notify(refreshCh, syscall.SIGUSR1)
	go func() {
		for range refreshCh {
			core.RefreshNow(ctx)
		}
	}()

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		sched.Run(ctx)
	}()

	runConsumer(ctx, logger, core, snapWriter, cfg.Refresh.PollMs)

	// 优雅关闭（10s 超时）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-schedDone
		if snapWriter != nil {
			_ = snapWriter.Close()
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("关闭超时，强制退出")
	case <-done:
		logger.Info("关闭完成")
	}
}

// runConsumer 运行消费循环，直到 ctx 取消
// 这是唯一允许触碰展示输出的地方: 按固定间隔轮询脏信号，
// 有新数据（新价格快照、自选列表变更）时重建展示快照并写入快照流。
// 网络工作协程与本循环之间只通过脏标志交接，避免并发触碰展示状态。
func runConsumer(ctx context.Context, logger *zap.Logger, core *app.App, snapWriter *jsonl.Writer, pollMs int) {
	ticker := time.NewTicker(time.Duration(pollMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !core.ConsumeDirty() {
				continue
			}
			snap := core.Snapshot()
			logger.Debug("重建展示快照",
				zap.Bool("available", snap.Available),
				zap.Int("entries", len(snap.Entries)))
			if snapWriter != nil {
				if err := snapWriter.Write(snap); err != nil {
					logger.Warn("写入快照流失败", zap.Error(err))
				}
			}
		}
	}
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
