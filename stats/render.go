package stats

import (
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// StatReportRender 定義輸出行為
type StatReportRender interface {
	Write(w io.Writer, r *StatReport) error
}

// Json渲染
type JsonStatReportRender struct{}

func (jr *JsonStatReportRender) Write(w io.Writer, r *StatReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLStatReportRender struct{}

func (yr *YAMLStatReportRender) Write(w io.Writer, r *StatReport) error {
	// 最內層一維陣列輸出成 flow style，其餘維持展開
	return forceReadableList(w, r)
}

// ZstdRender 以 zstd 壓縮內層渲染結果，用於大量報表歸檔（Inner 缺省為 JSON）。
type ZstdRender struct {
	Inner StatReportRender
	Level zstd.EncoderLevel
}

func (zr *ZstdRender) Write(w io.Writer, r *StatReport) error {
	inner := zr.Inner
	if inner == nil {
		inner = &JsonStatReportRender{}
	}
	level := zr.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
	if err != nil {
		return err
	}
	if err := inner.Write(enc, r); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

type EstimatorRender interface {
	Write(w io.Writer, e *EstimatorPlayers) error
}

// Json渲染
type JsonEstimatorRender struct{}

func (jr *JsonEstimatorRender) Write(w io.Writer, e *EstimatorPlayers) error {
	return json.NewEncoder(w).Encode(e)
}

// YAML渲染
type YAMLEstimatorRender struct{}

func (yr *YAMLEstimatorRender) Write(w io.Writer, e *EstimatorPlayers) error {
	return forceReadableList(w, e)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		nested := false
		for _, c := range n.Content {
			if c == nil {
				continue
			}
			if c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode {
				nested = true
			}
			styleReadableSequences(c)
		}
		// 純量組成的一維陣列 => [a, b, c]
		if !nested {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		return
	}
}
