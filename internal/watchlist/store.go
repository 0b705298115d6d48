// Package watchlist 维护用户的自选物品列表及其持久化。
// 列表有序（顺序由用户拖拽决定）且按名称唯一；每次变更后同步落盘。
// 持久化文件可被独立运行的设置进程修改，消费端通过 mtime 轮询感知外部变更。
package watchlist

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry 自选列表中的单个条目
// 条目持有自己的 id 与名称副本，不引用目录，目录刷新失败不影响列表
type Entry struct {
	// Name 展示名称，同时作为条目的唯一键
	Name string
	// ID 物品唯一标识
	ID int
}

// DefaultEntries 内置默认自选列表
// 持久化文件不存在时使用
func DefaultEntries() []Entry {
	return []Entry{
		{Name: "Old school bond", ID: 13190},
		{Name: "Cooked karambwan", ID: 3144},
		{Name: "Raw karambwan", ID: 3142},
	}
}

// Store 自选列表存储
// 变更与持久化互斥执行，避免两次落盘交错写坏文件。
// 持久化失败只记录日志不向上抛出，内存中的变更保留。
type Store struct {
	mu sync.Mutex

	// entries 有序条目列表
	entries []Entry
	// path 持久化文件路径
	path string
	// fileMod 最近一次本进程读写后观测到的文件修改时间
	fileMod time.Time
	// fileSize 最近一次本进程读写后观测到的文件大小
	fileSize int64
	// logger 日志
	logger *zap.Logger
}

// NewStore 创建自选列表存储并加载持久化状态
// 文件不存在时使用内置默认列表；文件损坏时记录日志并使用空列表。
// 参数 path: 持久化文件路径
// 参数 logger: 日志
func NewStore(path string, logger *zap.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
	}
	s.mu.Lock()
	s.loadLocked()
	s.mu.Unlock()
	return s
}

// Entries 获取当前列表的只读副本
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Add 添加或覆盖条目
// 名称已存在时原位覆盖其 id（last-write-wins），否则追加到末尾；随后同步落盘。
// 参数 name: 展示名称
// 参数 id: 物品 id
func (s *Store) Add(name string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Name == name {
			s.entries[i].ID = id
			s.persistLocked()
			return
		}
	}
	s.entries = append(s.entries, Entry{Name: name, ID: id})
	s.persistLocked()
}

// Remove 删除条目
// 名称不存在时为空操作（不落盘）。
// 参数 name: 展示名称
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Name == name {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// Reorder 按给定名称顺序重建列表
// 给定顺序即新的事实来源: 未出现在 newOrder 中的既有条目被静默移除，
// newOrder 中不存在于当前列表的名称被忽略。随后同步落盘。
// 注意: "静默移除未列出条目"复刻了设置界面"列表框即真相"的既有行为，
// 可能并非产品本意，但契约按观测行为保留。
// 参数 newOrder: 新的名称顺序
func (s *Store) Reorder(newOrder []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName := make(map[string]int, len(s.entries))
	for _, e := range s.entries {
		byName[e.Name] = e.ID
	}

	rebuilt := make([]Entry, 0, len(newOrder))
	for _, name := range newOrder {
		if id, ok := byName[name]; ok {
			rebuilt = append(rebuilt, Entry{Name: name, ID: id})
		}
	}

	s.entries = rebuilt
	s.persistLocked()
}

// ReloadIfChanged 检测持久化文件是否被外部进程修改，是则整体重载
// 供消费端按 ≤1s 粒度轮询调用；本进程自己的写入不会被误判为外部变更。
// 返回: 是否发生了重载
func (s *Store) ReloadIfChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		// 文件消失视为无变化，下一次写入会重建
		return false
	}
	if info.ModTime().Equal(s.fileMod) && info.Size() == s.fileSize {
		return false
	}

	s.logger.Info("检测到自选列表文件外部变更，重新加载")
	s.loadLocked()
	return true
}

// loadLocked 从持久化文件加载列表（需持有锁）
// 文件不存在 -> 内置默认列表; 文件损坏 -> 空列表（记录日志）
func (s *Store) loadLocked() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = DefaultEntries()
			s.recordStatLocked()
			return
		}
		s.logger.Warn("读取自选列表文件失败", zap.Error(err))
		s.entries = nil
		s.recordStatLocked()
		return
	}

	entries, err := decodeOrdered(data)
	if err != nil {
		s.logger.Warn("自选列表文件损坏，使用空列表", zap.Error(err))
		s.entries = nil
		s.recordStatLocked()
		return
	}

	s.entries = entries
	s.recordStatLocked()
}

// persistLocked 把完整列表同步落盘（需持有锁）
// 失败只记录日志，避免瞬时磁盘错误拖垮宿主 UI
func (s *Store) persistLocked() {
	data, err := encodeOrdered(s.entries)
	if err != nil {
		s.logger.Error("序列化自选列表失败", zap.Error(err))
		return
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("写入自选列表文件失败", zap.Error(err))
		return
	}

	s.recordStatLocked()
}

// recordStatLocked 记录文件当前的 mtime 与大小（需持有锁）
// 用于区分本进程写入与外部进程写入
func (s *Store) recordStatLocked() {
	info, err := os.Stat(s.path)
	if err != nil {
		s.fileMod = time.Time{}
		s.fileSize = 0
		return
	}
	s.fileMod = info.ModTime()
	s.fileSize = info.Size()
}
