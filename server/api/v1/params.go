package v1

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/core"
)

const maxBodyBytes = 1 << 20

// queryReader 逐一讀取 query 參數，第一個錯誤之後的讀取都會略過。
type queryReader struct {
	q   url.Values
	err error
}

func newQueryReader(r *http.Request) *queryReader {
	return &queryReader{q: r.URL.Query()}
}

func (qr *queryReader) Int(key string, dst *int, required bool) {
	if qr.err != nil {
		return
	}
	s := qr.q.Get(key)
	if s == "" {
		if required {
			qr.err = errs.Warnf("%s is required", key)
		}
		return
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		qr.err = errs.Warnf("%s must be integer", key)
		return
	}
	*dst = v
}

func (qr *queryReader) Uint(key string, dst *uint64, required bool) {
	if qr.err != nil {
		return
	}
	s := qr.q.Get(key)
	if s == "" {
		if required {
			qr.err = errs.Warnf("%s is required", key)
		}
		return
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		qr.err = errs.Warnf("%s must be non-negative integer", key)
		return
	}
	*dst = v
}

func (qr *queryReader) Seed(dst **int64) {
	if qr.err != nil {
		return
	}
	s := qr.q.Get("seed")
	if s == "" {
		return
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		qr.err = errs.NewWarn("seed must be int64")
		return
	}
	*dst = &v
}

func (qr *queryReader) String(key string, dst *string) {
	if qr.err != nil {
		return
	}
	if s := qr.q.Get(key); s != "" {
		*dst = s
	}
}

// decodeJSON 嚴格解碼 body（未知欄位拒絕），錯誤一律為 Warn。
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.NewWarn("invalid json: " + err.Error())
	}
	return nil
}

// seedOrRandom 沒有指定 seed 時以 crypto/rand 產生
func seedOrRandom(seed *int64) (int64, error) {
	if seed != nil {
		return *seed, nil
	}
	return core.CryptoSeed()
}
