// Package catalog 负责获取物品目录并提供名称搜索。
package catalog

// Item 目录中的单个物品
// id 由数据源分配且稳定，name 为展示用名称
type Item struct {
	// ID 物品唯一标识
	ID int `json:"id"`
	// Name 展示名称
	Name string `json:"name"`
}

// mappingEntry 目录端点返回的单条记录
// 数据源还会返回 examine/members/limit 等字段，这里全部忽略
type mappingEntry struct {
	// ID 物品唯一标识
	ID int `json:"id"`
	// Name 展示名称
	Name string `json:"name"`
}
