// Package catalog 负责获取物品目录并提供名称搜索。
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher 目录获取器接口
// 定义从数据源批量获取物品映射的方法
type Fetcher interface {
	// FetchMapping 获取完整物品目录
	FetchMapping(ctx context.Context) ([]Item, error)
}

// HTTPFetcher HTTP 目录获取器
// 通过 HTTP 请求获取数据源的完整物品映射
type HTTPFetcher struct {
	// url 目录端点地址
	url string
	// userAgent 数据源要求的标识请求头
	userAgent string
	// client HTTP 客户端
	client *http.Client
}

// NewHTTPFetcher 创建 HTTP 目录获取器
// 参数 url: 目录端点地址
// 参数 userAgent: 标识请求头
// 参数 timeoutMs: HTTP 请求超时时间（毫秒）
func NewHTTPFetcher(url, userAgent string, timeoutMs int) *HTTPFetcher {
	return &HTTPFetcher{
		url:       url,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: time.Duration(timeoutMs) * time.Millisecond,
		},
	}
}

// FetchMapping 获取完整物品目录
// 目录端点返回物品记录数组，一次性整体消费，不分页
// 参数 ctx: 上下文，用于取消请求
// 返回: 物品列表
func (f *HTTPFetcher) FetchMapping(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	// 设置请求头（数据源要求标识用途）
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求物品目录失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP 状态码错误: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	var entries []mappingEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("解析物品目录失败: %w", err)
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.ID == 0 {
			continue
		}
		items = append(items, Item{ID: e.ID, Name: e.Name})
	}

	return items, nil
}
