// Package scheduler 驱动价格快照的周期与按需刷新。
// 三种触发方式（启动、周期、手动）写入同一个快照槽位并置位脏标志；
// 网络工作协程绝不直接触碰展示层，脏标志是与消费端之间唯一的交接点。
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"ge-price-watch/internal/prices"
)

// sleepStep 可中断休眠的步长
// 周期休眠按此步长分段检查取消信号，保证退出在一个步长内完成
const sleepStep = time.Second

// Scheduler 价格刷新调度器
// 独占持有最新快照与脏标志；快照由最后完成的获取整体替换（last-writer-wins），
// 周期获取与手动获取并发交错是刻意接受的陈旧度权衡。
type Scheduler struct {
	// fetcher 价格获取器
	fetcher prices.Fetcher
	// interval 周期刷新间隔
	interval time.Duration
	// logger 日志
	logger *zap.Logger

	mu sync.Mutex
	// snapshot 最新成功获取的价格快照，获取失败时保持不变
	snapshot *prices.Snapshot

	// dirty 脏标志: 自消费端上次读取以来是否有新的成功快照
	// 单布尔覆盖写，并发置位幂等，消费端只关心"上次检查后是否为真"
	dirty atomic.Bool

	// manual 手动刷新的在途协程
	manual sync.WaitGroup
}

// New 创建刷新调度器
// 参数 fetcher: 价格获取器
// 参数 interval: 周期刷新间隔
// 参数 logger: 日志
func New(fetcher prices.Fetcher, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
	}
}

// Run 运行后台刷新循环，直到 ctx 取消
// 进入即执行一次启动获取（避免长时间停留在"加载中"状态），
// 之后每个周期获取一次。休眠按 ≤1s 步长分段，退出及时。
// 参数 ctx: 上下文，取消即停止
func (s *Scheduler) Run(ctx context.Context) {
	// 启动获取
	s.fetchOnce(ctx)

	for {
		if !s.sleep(ctx, s.interval) {
			break
		}
		s.fetchOnce(ctx)
	}

	// 等待在途的手动刷新收尾
	s.manual.Wait()
	s.logger.Info("刷新调度器已停止")
}

// RefreshNow 触发一次立即刷新
// 由用户操作调用，独立于周期定时器的相位，不重置周期计时。
// 在单独的短生命周期协程中执行，立即返回。
// 参数 ctx: 上下文
func (s *Scheduler) RefreshNow(ctx context.Context) {
	s.manual.Add(1)
	go func() {
		defer s.manual.Done()
		s.fetchOnce(ctx)
	}()
}

// Snapshot 获取最新价格快照
// 返回值可能为 nil（尚无成功获取）；返回的指针应视为只读。
func (s *Scheduler) Snapshot() *prices.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// ConsumeDirty 消费脏标志
// 返回: 自上次消费以来是否有新的成功快照；调用即清除标志
func (s *Scheduler) ConsumeDirty() bool {
	return s.dirty.CompareAndSwap(true, false)
}

// fetchOnce 执行一次获取并在成功时替换快照
// 获取本身不随 ctx 取消而中止（允许在途请求完成），
// 但关停后到达的结果会被丢弃。失败只记录日志，旧快照保持原样。
func (s *Scheduler) fetchOnce(ctx context.Context) {
	snap, err := s.fetcher.FetchLatest(context.WithoutCancel(ctx))
	if err != nil {
		s.logger.Warn("获取最新价格失败", zap.Error(err))
		return
	}

	if ctx.Err() != nil {
		// 已在关停，丢弃结果
		return
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	s.dirty.Store(true)

	s.logger.Debug("价格快照已更新", zap.Int("items", len(snap.Quotes)))
}

// sleep 可中断休眠
// 按 sleepStep 步长分段休眠并检查取消信号
// 返回: true 表示休眠完成，false 表示被取消
func (s *Scheduler) sleep(ctx context.Context, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		step := sleepStep
		if remaining < step {
			step = remaining
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(step):
		}
	}
}
