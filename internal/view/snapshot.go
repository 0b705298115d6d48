// Package view 把自选列表与价格快照组合为只读的展示快照。
// 核心不持有任何 UI 句柄，展示层只消费这里产出的快照并自行维护
// id->控件 的映射，这是核心与 UI 之间唯一的出站契约。
package view

import (
	"fmt"

	"ge-price-watch/internal/prices"
	"ge-price-watch/internal/watchlist"
)

// DetailBaseURL 物品详情页（价格走势图）的基础地址
const DetailBaseURL = "https://prices.runescape.wiki/osrs/item"

// NotAvailable 无法计算价格时的占位文本
const NotAvailable = "N/A"

// EntryView 单个自选条目的展示数据
type EntryView struct {
	// Name 展示名称
	Name string `json:"name"`
	// ID 物品 id
	ID int `json:"id"`
	// Average 格式化均价，无法计算时为 N/A
	Average string `json:"average"`
	// High 格式化高价，缺失时为 N/A
	High string `json:"high"`
	// Low 格式化低价，缺失时为 N/A
	Low string `json:"low"`
}

// Snapshot 只读展示快照
// 每次消费端观测到新数据时整体重建
type Snapshot struct {
	// Available 是否有可用的价格数据；false 对应"无法获取价格"的展示状态
	Available bool `json:"available"`
	// UpdatedAt 最近成功更新时间（HH:MM:SS），从未更新时为 Never
	UpdatedAt string `json:"updated_at"`
	// Entries 按自选列表顺序排列的条目展示数据
	Entries []EntryView `json:"entries"`
}

// Build 构建展示快照
// 快照中不存在的物品 id 直接跳过；存在但高低价缺失（为零）的物品
// 均价渲染为 N/A。条目顺序严格跟随自选列表顺序。
// 参数 entries: 自选列表条目
// 参数 snap: 最新价格快照（可能为 nil）
// 返回: 展示快照
func Build(entries []watchlist.Entry, snap *prices.Snapshot) Snapshot {
	if snap == nil {
		return Snapshot{Available: false, UpdatedAt: "Never"}
	}

	out := Snapshot{
		Available: true,
		UpdatedAt: snap.FetchedAt.Format("15:04:05"),
	}

	for _, e := range entries {
		quote, ok := snap.Get(e.ID)
		if !ok {
			continue
		}

		ev := EntryView{
			Name:    e.Name,
			ID:      e.ID,
			Average: NotAvailable,
			High:    NotAvailable,
			Low:     NotAvailable,
		}
		if avg, ok := quote.Average(); ok {
			ev.Average = prices.Format(avg)
		}
		if quote.High > 0 {
			ev.High = prices.Format(quote.High)
		}
		if quote.Low > 0 {
			ev.Low = prices.Format(quote.Low)
		}

		out.Entries = append(out.Entries, ev)
	}

	return out
}

// DetailURL 构造物品详情页地址
// 展示层用它委托外部浏览器打开价格走势图
// 参数 id: 物品 id
func DetailURL(id int) string {
	return fmt.Sprintf("%s/%d", DetailBaseURL, id)
}
