package v1

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/dto"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/httperr"
	"github.com/zintix-labs/reelspin/server/netsvr/middleware"
)

// SpinHandler 對外 Spin：解碼請求後交給 SlotRuntime，依錯誤分級回應。
type SpinHandler struct {
	rt      *reelspin.SlotRuntime
	log     *slog.Logger
	timeout time.Duration
}

func NewSpinHandler(rt *reelspin.SlotRuntime, log *slog.Logger, timeout time.Duration) (*SpinHandler, error) {
	if rt == nil {
		return nil, errs.NewFatal("slot runtime is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SpinHandler{rt: rt, log: log, timeout: timeout}, nil
}

func (c *SpinHandler) Spin(w http.ResponseWriter, q *http.Request) {
	req, err := dto.DecodeSpinRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), c.timeout)
	defer cancel()

	result, err := c.rt.Spin(ctx, req)
	if err != nil {
		e := errs.Wrap(err, fmt.Sprintf("game %s gid %d", req.GameName, req.GameId)).WithExtra("req_id=" + middleware.GetReqId(q))
		httperr.Log(c.log, "spin failed", e)
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, result)
}
