// Package catalog 负责获取物品目录并提供名称搜索。
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// MaxSuggestions 搜索返回的候选项数量上限
const MaxSuggestions = 5

// Store 物品目录缓存
// 持有完整的名称⇄id 双向映射，Refresh 成功时整体替换，失败时保留旧快照继续服务。
// 名称查找不区分大小写；一个目录快照内 id 与名称一一对应。
type Store struct {
	mu sync.RWMutex

	// nameToID 小写名称 -> id
	nameToID map[string]int
	// idToName id -> 规范展示名称
	idToName map[int]string
	// names 小写名称按目录加载顺序排列，用于稳定的搜索遍历顺序
	names []string

	// fetcher 目录获取器
	fetcher Fetcher
	// logger 日志
	logger *zap.Logger
}

// NewStore 创建目录缓存
// 参数 fetcher: 目录获取器
// 参数 logger: 日志
func NewStore(fetcher Fetcher, logger *zap.Logger) *Store {
	return &Store{
		nameToID: make(map[string]int),
		idToName: make(map[int]string),
		fetcher:  fetcher,
		logger:   logger,
	}
}

// Refresh 执行一次目录批量获取
// 成功时原子替换内存映射；任何传输或解析错误都保留旧映射并返回错误。
// 调用方应把错误视为暂时性失败，旧数据继续服务搜索。
// 参数 ctx: 上下文
func (s *Store) Refresh(ctx context.Context) error {
	items, err := s.fetcher.FetchMapping(ctx)
	if err != nil {
		return fmt.Errorf("获取物品目录失败: %w", err)
	}

	nameToID := make(map[string]int, len(items))
	idToName := make(map[int]string, len(items))
	names := make([]string, 0, len(items))

	for _, it := range items {
		lower := strings.ToLower(it.Name)
		if _, ok := nameToID[lower]; !ok {
			names = append(names, lower)
		}
		nameToID[lower] = it.ID
		idToName[it.ID] = it.Name
	}

	s.mu.Lock()
	s.nameToID = nameToID
	s.idToName = idToName
	s.names = names
	s.mu.Unlock()

	s.logger.Info("物品目录已更新", zap.Int("items", len(names)))
	return nil
}

// Search 按名称搜索物品
// 流程:
//  1. 查询归一化（去首尾空白、转小写），空查询返回空结果
//  2. 精确匹配: 归一化查询命中已知名称时作为唯一结果返回，无候选项
//  3. 分词包含匹配: 查询按空白分词，名称需包含每个词（顺序无关、不区分大小写）
//  4. 排序: 展示名称越短越靠前（短名称通常是"基础"物品），长度相同时保持目录加载顺序
//
// 这里刻意使用宽松的子串启发式而非编辑距离，以便在数万条目录上保持快速。
// 参数 query: 用户输入
// 返回: 最佳匹配（可能为 nil）与至多 MaxSuggestions 个候选项
func (s *Store) Search(query string) (*Item, []Item) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// 精确匹配
	if id, ok := s.nameToID[q]; ok {
		return &Item{ID: id, Name: s.idToName[id]}, nil
	}

	// 分词包含匹配
	tokens := strings.Fields(q)
	if len(tokens) == 0 {
		return nil, nil
	}

	var matches []string
	for _, name := range s.names {
		if containsAll(name, tokens) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// 短名称优先，长度相同保持目录顺序
	sort.SliceStable(matches, func(i, j int) bool {
		return len(matches[i]) < len(matches[j])
	})

	bestID := s.nameToID[matches[0]]
	best := &Item{ID: bestID, Name: s.idToName[bestID]}

	var suggestions []Item
	for _, name := range matches[1:] {
		if len(suggestions) >= MaxSuggestions {
			break
		}
		id := s.nameToID[name]
		suggestions = append(suggestions, Item{ID: id, Name: s.idToName[id]})
	}

	return best, suggestions
}

// Size 当前目录条目数
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// containsAll 判断名称是否包含所有查询词
func containsAll(name string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(name, tok) {
			return false
		}
	}
	return true
}
