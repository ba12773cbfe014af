package v1

import (
	"net/http"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/httperr"
)

// RuntimeHandler 對外列舉機台與機台池觀測
type RuntimeHandler struct {
	rt *reelspin.SlotRuntime
}

func NewRuntimeHandler(rt *reelspin.SlotRuntime) (*RuntimeHandler, error) {
	if rt == nil {
		return nil, errs.NewFatal("slot runtime is required")
	}
	return &RuntimeHandler{rt: rt}, nil
}

// Machines GET /v1/machines
func (h *RuntimeHandler) Machines(w http.ResponseWriter, _ *http.Request) {
	sum, err := h.rt.Summary()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, sum)
}

// Metrics GET /v1/metrics
func (h *RuntimeHandler) Metrics(w http.ResponseWriter, _ *http.Request) {
	type metricsResponse struct {
		Closed      bool                          `json:"closed"`
		CloseReason string                        `json:"close_reason"`
		PoolSize    int                           `json:"pool_size"`
		Pools       []reelspin.MachinePoolMetrics `json:"pools"`
	}
	httperr.JSON(w, metricsResponse{
		Closed:      h.rt.Closed(),
		CloseReason: h.rt.ClosedReason(),
		PoolSize:    h.rt.PoolSize(),
		Pools:       h.rt.Metrics(),
	})
}
