// Package prices 负责获取最新价格快照并提供展示格式化。
package prices

import (
	"strconv"
	"time"
)

// Quote 单个物品的最新高低价
// 流动性差的物品可能缺少 high 或 low（JSON null 解码为 0），
// 调用方需把缺失或为零的值视为"无法计算均价"。
type Quote struct {
	// High 最近成交高价
	High int64 `json:"high"`
	// Low 最近成交低价
	Low int64 `json:"low"`
}

// Average 计算均价（整数向下取整除法）
// 返回: 均价与是否可计算（high/low 任一缺失或为零时不可计算）
func (q Quote) Average() (int64, bool) {
	if q.High == 0 || q.Low == 0 {
		return 0, false
	}
	return (q.High + q.Low) / 2, true
}

// Snapshot 最新价格快照
// 每次成功获取时整体替换，永不逐字段合并
type Snapshot struct {
	// Quotes 按物品 id（字符串形式）索引的最新报价
	Quotes map[string]Quote
	// FetchedAt 快照获取时间
	FetchedAt time.Time
}

// Get 查询指定物品的报价
// 参数 itemID: 物品 id
// 返回: 报价与是否存在
func (s *Snapshot) Get(itemID int) (Quote, bool) {
	if s == nil || s.Quotes == nil {
		return Quote{}, false
	}
	q, ok := s.Quotes[strconv.Itoa(itemID)]
	return q, ok
}
