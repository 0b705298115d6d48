// Package prices 负责获取最新价格快照并提供展示格式化。
package prices

import (
	"fmt"
	"strconv"
)

// Format 格式化价格为带 K/M/B 后缀的展示文本
// 规则:
//   - >= 10 亿: 两位小数 + B（如 1.00B）
//   - >= 100 万: 两位小数 + M（如 2.50M）
//   - >= 1000: 一位小数 + K（如 1.5K）
//   - 其余: 原始整数
//
// 参数 price: 价格值
// 返回: 格式化后的字符串
func Format(price int64) string {
	switch {
	case price >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(price)/1_000_000_000)
	case price >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(price)/1_000_000)
	case price >= 1_000:
		return fmt.Sprintf("%.1fK", float64(price)/1_000)
	default:
		return strconv.FormatInt(price, 10)
	}
}
