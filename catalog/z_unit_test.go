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

package catalog

import (
	"errors"
	"testing"
	"testing/fstest"
)

const cfgA = `game_name: Alpha
game_id: 7
rows: 1
reels: [[1], [1], [1]]
lines: [[0, 0, 0]]
prize_table: {0: [0, 0, 5]}
`

const cfgB = `{"game_name":"beta","game_id":3,"rows":1,"reels":[[1],[1]],"lines":[[0,0]],"prize_table":{"0":[0,2]}}`

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	src := fstest.MapFS{
		"alpha.yaml": {Data: []byte(cfgA)},
		"beta.json":  {Data: []byte(cfgB)},
		"README.md":  {Data: []byte("ignored")},
	}
	c, err := New(src)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return c
}

func TestDiscoverAndRegister(t *testing.T) {
	c := newTestCatalog(t)
	ents, err := c.Discover()
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(ents) != 2 || ents[0].ConfigName != "alpha.yaml" || ents[1].ConfigName != "beta.json" {
		t.Fatalf("unexpected entries %+v", ents)
	}
	if err := c.Register(ents...); err != nil {
		t.Fatalf("register: %v", err)
	}
	ids := c.IDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Fatalf("ids must be sorted, got %v", ids)
	}
	if e, ok := c.GetByName("  ALPHA "); !ok || e.GID != 7 {
		t.Fatalf("lookup by name must be case-insensitive")
	}
	ms, err := c.MachineSettingById(3)
	if err != nil || ms.GameName != "beta" || !ms.Ready() {
		t.Fatalf("unexpected setting %+v err %v", ms, err)
	}
	if _, err := c.MachineSettingById(99); err == nil {
		t.Fatalf("expected error for unknown id")
	}

	sum := NewSummary(ents[0], ms)
	if sum.Reels != 2 || sum.Lines != 1 || sum.Wild || sum.FreeSpin {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := newTestCatalog(t)
	if err := c.Register(Entry{GID: 1, Name: "a", ConfigName: "alpha.yaml"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Register(Entry{GID: 1, Name: "b", ConfigName: "beta.json"}); !errors.Is(err, ErrDupID) {
		t.Fatalf("expected duplicate id, got %v", err)
	}
	if err := c.Register(Entry{GID: 2, Name: "A", ConfigName: "beta.json"}); !errors.Is(err, ErrDupName) {
		t.Fatalf("expected duplicate name, got %v", err)
	}
	if err := c.Register(Entry{GID: 2, Name: "b", ConfigName: "alpha.yaml"}); err == nil {
		t.Fatalf("expected duplicate config error")
	}
	if err := c.Register(Entry{GID: 2, Name: "b", ConfigName: "missing.yaml"}); err == nil {
		t.Fatalf("expected missing config error")
	}
	// 批次註冊中任一筆失敗時不寫入
	if err := c.Register(
		Entry{GID: 5, Name: "c", ConfigName: "beta.json"},
		Entry{GID: 5, Name: "d", ConfigName: "beta.json"},
	); err == nil {
		t.Fatalf("expected batch error")
	}
	if _, ok := c.GetByID(5); ok {
		t.Fatalf("failed batch must not be partially registered")
	}
	c.Freeze()
	if err := c.Register(Entry{GID: 9, Name: "z", ConfigName: "beta.json"}); err == nil {
		t.Fatalf("frozen catalog must reject register")
	}
}

func TestMultiFSRules(t *testing.T) {
	nested := fstest.MapFS{"sub/a.yaml": {Data: []byte(cfgA)}}
	if _, err := New(nested); err == nil {
		t.Fatalf("nested config fs must be rejected")
	}
	a := fstest.MapFS{"a.yaml": {Data: []byte(cfgA)}}
	b := fstest.MapFS{"a.yaml": {Data: []byte(cfgA)}}
	if _, err := New(a, b); err == nil {
		t.Fatalf("duplicate file across fs must be rejected")
	}
	if _, err := New(); err == nil {
		t.Fatalf("empty fs list must be rejected")
	}
}
