package demo_configs

import (
	"embed"
)

// FS 內嵌的示範機台設定（YAML 與 JSON 各自走不同的解碼器）
//
//go:embed *.yaml *.json
var FS embed.FS
