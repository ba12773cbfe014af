package middleware

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressConfig 壓縮等級設定
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.DefaultCompression,
	ZstdLevel: zstd.SpeedFastest,
}

// Compressor 依 Accept-Encoding 以 zstd 或 gzip 壓縮回應，encoder 以 sync.Pool 重用。
type Compressor struct {
	cfg      CompressConfig
	gzipPool sync.Pool
	zstdPool sync.Pool
}

func NewCompressor(cfg CompressConfig) *Compressor {
	return &Compressor{cfg: cfg}
}

var defaultCompressor = NewCompressor(DefaultCompressConfig)

// Compression 以預設等級壓縮回應
func Compression(next http.Handler) http.Handler {
	return defaultCompressor.Handler(next)
}

func (c *Compressor) zstdWriter(w io.Writer) (*zstd.Encoder, error) {
	if v := c.zstdPool.Get(); v != nil {
		zw := v.(*zstd.Encoder)
		zw.Reset(w)
		return zw, nil
	}
	return zstd.NewWriter(w,
		zstd.WithEncoderLevel(c.cfg.ZstdLevel),
		zstd.WithEncoderConcurrency(1),
	)
}

func (c *Compressor) gzipWriter(w io.Writer) (*gzip.Writer, error) {
	if v := c.gzipPool.Get(); v != nil {
		gw := v.(*gzip.Writer)
		gw.Reset(w)
		return gw, nil
	}
	return gzip.NewWriterLevel(w, c.cfg.GzipLevel)
}

// encoder 是 gzip.Writer 與 zstd.Encoder 的共同子集
type encoder interface {
	io.Writer
	Flush() error
	Close() error
	Reset(io.Writer)
}

func (c *Compressor) acquire(enc string, w io.Writer) (encoder, func(encoder), error) {
	switch enc {
	case "zstd":
		zw, err := c.zstdWriter(w)
		if err != nil {
			return nil, nil, err
		}
		return zw, func(e encoder) { c.zstdPool.Put(e) }, nil
	case "gzip":
		gw, err := c.gzipWriter(w)
		if err != nil {
			return nil, nil, err
		}
		return gw, func(e encoder) { c.gzipPool.Put(e) }, nil
	}
	return nil, nil, errors.New("unsupported encoding " + enc)
}

// Handler 回傳壓縮 middleware。
//
// HEAD、WebSocket upgrade、已帶 Content-Encoding 的回應不處理；
// 1xx/204/304 會在 WriteHeader 時取消壓縮，避免寫出 footer。
func (c *Compressor) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || isWebSocketUpgrade(r) || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}
		enc := negotiate(r.Header.Get("Accept-Encoding"))
		if enc == "" {
			next.ServeHTTP(w, r)
			return
		}
		ew, release, err := c.acquire(enc, w)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", enc)
		w.Header().Add("Vary", "Accept-Encoding")

		cw := &compressResponseWriter{ResponseWriter: w, w: ew}
		defer func() {
			if cw.disabled {
				ew.Reset(io.Discard)
			}
			_ = ew.Close()
			release(ew)
		}()
		next.ServeHTTP(cw, r)
	})
}

// negotiate 從 Accept-Encoding 選出編碼；zstd 優先，q=0 視為拒絕。
func negotiate(header string) string {
	zstdOK, gzipOK := false, false
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if qualityZero(params) {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "zstd":
			zstdOK = true
		case "gzip":
			gzipOK = true
		}
	}
	switch {
	case zstdOK:
		return "zstd"
	case gzipOK:
		return "gzip"
	}
	return ""
}

func qualityZero(params string) bool {
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || strings.TrimSpace(k) != "q" {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil && q == 0
	}
	return false
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") ||
		r.Header.Get("Upgrade") != ""
}

func isNoBodyStatus(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

type compressResponseWriter struct {
	http.ResponseWriter
	w        encoder
	disabled bool // 1xx/204/304 時取消壓縮
}

func (cw *compressResponseWriter) Write(b []byte) (int, error) {
	if cw.disabled {
		return cw.ResponseWriter.Write(b)
	}
	cw.Header().Del("Content-Length")
	if cw.Header().Get("Content-Type") == "" {
		cw.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return cw.w.Write(b)
}

func (cw *compressResponseWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	if isNoBodyStatus(code) {
		cw.disabled = true
		cw.Header().Del("Content-Encoding")
		cw.Header().Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressResponseWriter) Flush() {
	if !cw.disabled {
		_ = cw.w.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying response writer does not support Hijacker")
	}
	return hj.Hijack()
}
