package netsvr

import (
	"net/http"

	"github.com/zintix-labs/reelspin/server/app"
)

// NetSvr 封裝「路由行為 + 服務啟停」的抽象介面。
//   - 只暴露給最外層組裝使用，其他層只面向 NetRouter。
//   - 實作基於 net/http；換框架時只要提供相容 net/http handler 的實作。
//   - NetSvr 同時是 app.Component，可直接交給 app.App 管理生命週期。
type NetSvr interface {
	NetRouter
	app.Component
	// Handler 回傳根 handler（測試可直接交給 httptest）
	Handler() http.Handler
	Address() string
}

// NetRouter 定義純路由行為，讓子模組只操作路由而不持有啟停控制權。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	// GetPost 同一個 handler 同時掛 GET 與 POST
	GetPost(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
