// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"net/http"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/catalog"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/httperr"
)

const serviceName = "reelspin"

type route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

var routes = []route{
	{"GET", "/"},
	{"GET|POST", "/v1/spin"},
	{"GET|POST", "/v1/sim"},
	{"GET|POST", "/v1/simplayer"},
	{"POST", "/v1/simbycfg"},
	{"GET", "/v1/machines"},
	{"GET", "/v1/metrics"},
}

type indexHandler struct {
	rt *reelspin.SlotRuntime
}

func newIndexHandler(rt *reelspin.SlotRuntime) (*indexHandler, error) {
	if rt == nil {
		return nil, errs.NewFatal("slot runtime is required")
	}
	return &indexHandler{rt: rt}, nil
}

// Index 服務名稱、已載入的機台與可用路由
func (h *indexHandler) Index(w http.ResponseWriter, _ *http.Request) {
	type indexResponse struct {
		Service  string            `json:"service"`
		Machines []catalog.Summary `json:"machines"`
		Routes   []route           `json:"routes"`
	}
	sum, err := h.rt.Summary()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, indexResponse{Service: serviceName, Machines: sum, Routes: routes})
}
