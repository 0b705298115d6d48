// Package app 核心门面测试
package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ge-price-watch/internal/catalog"
	"ge-price-watch/internal/prices"
	"ge-price-watch/internal/scheduler"
	"ge-price-watch/internal/watchlist"
)

// queueFetcher 按队列顺序返回价格快照
type queueFetcher struct {
	mu    sync.Mutex
	snaps []*prices.Snapshot
	idx   int
}

func (f *queueFetcher) FetchLatest(ctx context.Context) (*prices.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.idx
	if i >= len(f.snaps) {
		i = len(f.snaps) - 1
	}
	f.idx++
	return f.snaps[i], nil
}

// catalogFetcher 返回固定目录
type catalogFetcher struct{ items []catalog.Item }

func (f *catalogFetcher) FetchMapping(ctx context.Context) ([]catalog.Item, error) {
	return f.items, nil
}

// newTestApp 组装使用临时文件与桩获取器的核心
func newTestApp(t *testing.T, snaps ...*prices.Snapshot) *App {
	t.Helper()
	logger := zap.NewNop()

	cat := catalog.NewStore(&catalogFetcher{items: []catalog.Item{
		{ID: 13190, Name: "Old school bond"},
		{ID: 3144, Name: "Cooked karambwan"},
	}}, logger)
	require.NoError(t, cat.Refresh(context.Background()))

	wl := watchlist.NewStore(filepath.Join(t.TempDir(), "watchlist.json"), logger)
	sched := scheduler.New(&queueFetcher{snaps: snaps}, time.Hour, logger)

	return New(cat, wl, sched, logger)
}

func waitDirty(t *testing.T, a *App) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if a.ConsumeDirty() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("等待脏信号超时")
}

// TestEndToEnd 测试端到端场景
// 空持久化状态 -> 默认列表 -> 获取成功 -> 快照含默认物品的格式化价格
// -> 手动刷新的结果整体替换首次结果
func TestEndToEnd(t *testing.T) {
	first := &prices.Snapshot{
		Quotes: map[string]prices.Quote{
			"13190": {High: 5_100_000, Low: 4_900_000},
			"3144":  {High: 500, Low: 400},
		},
		FetchedAt: time.Now(),
	}
	second := &prices.Snapshot{
		Quotes: map[string]prices.Quote{
			"13190": {High: 6_000_000, Low: 6_000_000},
		},
		FetchedAt: time.Now(),
	}

	a := newTestApp(t, first, second)

	// 默认列表已加载
	snap := a.Snapshot()
	assert.False(t, snap.Available, "尚无价格数据")

	// 第一次获取
	a.RefreshNow(context.Background())
	waitDirty(t, a)

	snap = a.Snapshot()
	assert.True(t, snap.Available)
	require.Len(t, snap.Entries, 2, "默认三项中只有两项有价格数据")
	assert.Equal(t, "Old school bond", snap.Entries[0].Name)
	assert.Equal(t, "5.00M", snap.Entries[0].Average)
	assert.Equal(t, "Cooked karambwan", snap.Entries[1].Name)
	assert.Equal(t, "450", snap.Entries[1].Average)

	// 手动刷新: 新快照整体替换，旧物品价格消失
	a.RefreshNow(context.Background())
	waitDirty(t, a)

	snap = a.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "Old school bond", snap.Entries[0].Name)
	assert.Equal(t, "6.00M", snap.Entries[0].Average)
}

// TestSearch 测试门面搜索透传
func TestSearch(t *testing.T) {
	a := newTestApp(t, &prices.Snapshot{Quotes: map[string]prices.Quote{}})

	best, sugs := a.Search("old school bond")
	require.NotNil(t, best)
	assert.Equal(t, 13190, best.ID)
	assert.Empty(t, sugs)
}

// TestWatchlistMutation_SetsDirty 测试本进程内列表变更触发重绘信号
func TestWatchlistMutation_SetsDirty(t *testing.T) {
	a := newTestApp(t, &prices.Snapshot{Quotes: map[string]prices.Quote{}})

	assert.False(t, a.ConsumeDirty())

	a.AddToWatchlist("Foo", 1)
	assert.True(t, a.ConsumeDirty())
	assert.False(t, a.ConsumeDirty())

	a.RemoveFromWatchlist("Foo")
	assert.True(t, a.ConsumeDirty())

	a.ReorderWatchlist([]string{"Old school bond"})
	assert.True(t, a.ConsumeDirty())
}

// TestExternalFileChange_SetsDirty 测试设置进程改写文件触发重载与重绘
func TestExternalFileChange_SetsDirty(t *testing.T) {
	logger := zap.NewNop()
	path := filepath.Join(t.TempDir(), "watchlist.json")

	cat := catalog.NewStore(&catalogFetcher{}, logger)
	wl := watchlist.NewStore(path, logger)
	sched := scheduler.New(&queueFetcher{snaps: []*prices.Snapshot{{
		Quotes:    map[string]prices.Quote{"42": {High: 10, Low: 8}},
		FetchedAt: time.Now(),
	}}}, time.Hour, logger)
	a := New(cat, wl, sched, logger)

	// 另一个存储实例扮演设置进程
	other := watchlist.NewStore(path, logger)
	other.Reorder(nil)
	other.Add("External", 42)

	assert.True(t, a.ConsumeDirty(), "外部文件变更应触发重绘")

	entries := wl.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "External", entries[0].Name)
}

// TestDetailURL 测试详情页地址透传
func TestDetailURL(t *testing.T) {
	a := newTestApp(t, &prices.Snapshot{Quotes: map[string]prices.Quote{}})
	assert.Equal(t, "https://prices.runescape.wiki/osrs/item/4151", a.DetailURL(4151))
}
