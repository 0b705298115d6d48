// Package main 是自选列表设置工具的入口点。
// 作为独立进程运行，与追踪核心只共享同一个自选列表持久化文件；
// 核心通过文件变更轮询感知这里做出的修改并重新渲染。
//
// 用法:
//
//	gesettings -list                     查看当前自选列表
//	gesettings -search "rune scim"       搜索物品目录
//	gesettings -add "rune scim"          搜索并把最佳匹配加入自选
//	gesettings -remove "Rune scimitar"   按名称删除
//	gesettings -reorder "A,B,C"          按给定顺序重排（未列出的条目会被移除）
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ge-price-watch/internal/catalog"
	"ge-price-watch/internal/config"
	"ge-price-watch/internal/watchlist"
)

func main() {
	var (
		configPath string
		list       bool
		search     string
		add        string
		remove     string
		reorder    string
	)
	flag.StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	flag.BoolVar(&list, "list", false, "查看当前自选列表")
	flag.StringVar(&search, "search", "", "搜索物品目录")
	flag.StringVar(&add, "add", "", "搜索并把最佳匹配加入自选列表")
	flag.StringVar(&remove, "remove", "", "按名称删除自选条目")
	flag.StringVar(&reorder, "reorder", "", "按逗号分隔的名称顺序重排自选列表")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 设置工具是交互式命令，诊断日志只在出错时有用
	logger := zap.NewNop()
	if lvl := strings.ToLower(cfg.App.LogLevel); lvl == "debug" {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	wlStore := watchlist.NewStore(cfg.Watchlist.Path, logger)

	switch {
	case list:
		printWatchlist(wlStore)

	case search != "":
		cat := loadCatalog(cfg, logger)
		best, suggestions := cat.Search(search)
		printResults(best, suggestions)

	case add != "":
		cat := loadCatalog(cfg, logger)
		best, _ := cat.Search(add)
		if best == nil {
			fmt.Println("未找到匹配的物品")
			os.Exit(1)
		}
		wlStore.Add(best.Name, best.ID)
		fmt.Printf("已加入自选: %s (id %d)\n", best.Name, best.ID)

	case remove != "":
		wlStore.Remove(remove)
		fmt.Printf("已删除: %s\n", remove)

	case reorder != "":
		names := splitNames(reorder)
		wlStore.Reorder(names)
		printWatchlist(wlStore)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// loadCatalog 获取物品目录
// 设置工具的搜索必须有目录数据，获取失败直接退出
func loadCatalog(cfg *config.Config, logger *zap.Logger) *catalog.Store {
	store := catalog.NewStore(
		catalog.NewHTTPFetcher(cfg.API.MappingURL(), cfg.API.UserAgent, cfg.API.TimeoutMs),
		logger,
	)
	if err := store.Refresh(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "获取物品目录失败: %v\n", err)
		os.Exit(1)
	}
	return store
}

// printWatchlist 打印当前自选列表
func printWatchlist(store *watchlist.Store) {
	entries := store.Entries()
	if len(entries) == 0 {
		fmt.Println("自选列表为空")
		return
	}
	for i, e := range entries {
		fmt.Printf("%2d. %s (id %d)\n", i+1, e.Name, e.ID)
	}
}

// printResults 打印搜索结果
func printResults(best *catalog.Item, suggestions []catalog.Item) {
	if best == nil {
		fmt.Println("未找到匹配的物品")
		return
	}
	fmt.Printf("最佳匹配: %s (id %d)\n", best.Name, best.ID)
	for _, s := range suggestions {
		fmt.Printf("  候选: %s (id %d)\n", s.Name, s.ID)
	}
}

// splitNames 解析逗号分隔的名称列表
func splitNames(s string) []string {
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
