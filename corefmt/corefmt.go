// Package corefmt 負責 RNG 快照在文字傳輸（JSON/URL/log）上的編碼。
package corefmt

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/zintix-labs/reelspin/errs"
)

// EncodeBase64URL 以無 padding 的 URL-safe base64 編碼，可直接放進 query string。
func EncodeBase64URL(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "decode base64url failed")
	}
	return b, nil
}

// EncodeHex 用於 log，方便人工比對
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "decode hex failed")
	}
	return b, nil
}
