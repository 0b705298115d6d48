// Package app 组合各存储组件，向展示适配层暴露统一的操作边界。
// 入站: 手动刷新、自选列表增删排序、搜索；出站: 只读展示快照与脏信号。
// 展示层（托盘/菜单进程）之外的任何组件都不应绕过本层直接访问存储。
package app

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"ge-price-watch/internal/catalog"
	"ge-price-watch/internal/scheduler"
	"ge-price-watch/internal/view"
	"ge-price-watch/internal/watchlist"
)

// App 核心门面
type App struct {
	// catalog 物品目录缓存
	catalog *catalog.Store
	// watchlist 自选列表存储
	watchlist *watchlist.Store
	// scheduler 价格刷新调度器
	scheduler *scheduler.Scheduler
	// logger 日志
	logger *zap.Logger

	// localDirty 本进程内自选列表变更产生的重绘信号
	localDirty atomic.Bool
}

// New 创建核心门面
func New(cat *catalog.Store, wl *watchlist.Store, sched *scheduler.Scheduler, logger *zap.Logger) *App {
	return &App{
		catalog:   cat,
		watchlist: wl,
		scheduler: sched,
		logger:    logger,
	}
}

// RefreshNow 触发一次立即价格刷新
// 独立于周期定时器，立即返回
func (a *App) RefreshNow(ctx context.Context) {
	a.logger.Info("手动刷新价格")
	a.scheduler.RefreshNow(ctx)
}

// Search 在物品目录中搜索
// 返回: 最佳匹配（可能为 nil）与候选项
func (a *App) Search(query string) (*catalog.Item, []catalog.Item) {
	return a.catalog.Search(query)
}

// AddToWatchlist 添加或覆盖自选条目
func (a *App) AddToWatchlist(name string, id int) {
	a.watchlist.Add(name, id)
	a.localDirty.Store(true)
}

// RemoveFromWatchlist 删除自选条目（不存在时为空操作）
func (a *App) RemoveFromWatchlist(name string) {
	a.watchlist.Remove(name)
	a.localDirty.Store(true)
}

// ReorderWatchlist 按给定名称顺序重建自选列表
func (a *App) ReorderWatchlist(names []string) {
	a.watchlist.Reorder(names)
	a.localDirty.Store(true)
}

// Snapshot 构建当前的只读展示快照
// 自选列表顺序 × 最新价格快照
func (a *App) Snapshot() view.Snapshot {
	return view.Build(a.watchlist.Entries(), a.scheduler.Snapshot())
}

// ConsumeDirty 消费所有重绘信号
// 三个来源: 新价格快照、自选列表文件的外部变更、本进程内的列表变更。
// 每个来源都必须实际求值（外部变更检测同时触发重载），不能短路。
// 返回: 自上次调用以来是否需要重绘
func (a *App) ConsumeDirty() bool {
	priceDirty := a.scheduler.ConsumeDirty()
	fileDirty := a.watchlist.ReloadIfChanged()
	localDirty := a.localDirty.CompareAndSwap(true, false)
	return priceDirty || fileDirty || localDirty
}

// DetailURL 构造物品详情页地址
func (a *App) DetailURL(id int) string {
	return view.DetailURL(id)
}
