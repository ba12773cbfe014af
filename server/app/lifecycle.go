// Package app 定義應用程式根目錄用以管理長期運行元件的最小生命週期抽象。
package app

import "context"

// Component 任何可啟動、可關閉的長生命週期元件（HTTP server、背景 worker）。
//
// Run 阻塞到元件停止；Shutdown 需尊重 ctx 的期限。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// Named 可選：提供名稱給生命週期 log 使用
type Named interface {
	Name() string
}

func nameOf(c Component) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	return "component"
}
