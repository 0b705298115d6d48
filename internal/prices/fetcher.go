// Package prices 负责获取最新价格快照并提供展示格式化。
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher 价格获取器接口
// 定义从数据源获取最新价格快照的方法
type Fetcher interface {
	// FetchLatest 获取最新价格快照
	FetchLatest(ctx context.Context) (*Snapshot, error)
}

// latestResponse 最新价格端点的响应结构
// 顶层 data 按物品 id（字符串）索引，其余字段（highTime/lowTime 等）忽略
type latestResponse struct {
	// Data 按物品 id 索引的报价
	Data map[string]Quote `json:"data"`
}

// HTTPFetcher HTTP 价格获取器
type HTTPFetcher struct {
	// url 最新价格端点地址
	url string
	// userAgent 数据源要求的标识请求头
	userAgent string
	// client HTTP 客户端
	client *http.Client
}

// NewHTTPFetcher 创建 HTTP 价格获取器
// 参数 url: 最新价格端点地址
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

// FetchLatest 获取最新价格快照
// 非 2xx 或解析失败均视为无数据的空操作失败，由调用方保留旧快照
// 参数 ctx: 上下文，用于取消请求
// 返回: 价格快照
func (f *HTTPFetcher) FetchLatest(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	// 设置请求头（数据源要求标识用途）
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求最新价格失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP 状态码错误: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	var parsed latestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("解析最新价格失败: %w", err)
	}
	if parsed.Data == nil {
		return nil, fmt.Errorf("最新价格响应缺少 data 字段")
	}

	return &Snapshot{
		Quotes:    parsed.Data,
		FetchedAt: time.Now(),
	}, nil
}
