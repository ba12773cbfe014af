// Package catalog 管理機台目錄：哪些 GID / 名稱對應到哪個設定檔。
//
// 設定檔來源一律是一或多個扁平的 fs.FS（go:embed 或 os.DirFS），
// 只索引 .yaml/.yml/.json，同名檔案跨來源重複直接失敗。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/spec"
)

var (
	ErrDupID   = errs.NewFatal("duplicate game id")
	ErrDupName = errs.NewFatal("duplicate game name")
)

type Entry struct {
	GID        spec.GID
	Name       string
	ConfigName string
}

// Summary 對外列舉用的機台摘要
type Summary struct {
	GID        spec.GID `json:"gid"`
	Name       string   `json:"name"`
	Rows       int      `json:"rows"`
	Reels      int      `json:"reels"`
	Lines      int      `json:"lines"`
	Wild       bool     `json:"wild"`
	FreeSpin   bool     `json:"free_spin"`
	ConfigName string   `json:"config"`
}

// NewSummary 由已通過 Init 的設定建立摘要
func NewSummary(e Entry, ms *spec.MachineSetting) Summary {
	return Summary{
		GID:        e.GID,
		Name:       ms.GameName,
		Rows:       ms.Rows,
		Reels:      len(ms.Reels),
		Lines:      len(ms.Lines),
		Wild:       ms.Wild != nil,
		FreeSpin:   ms.FreeSpin != nil,
		ConfigName: e.ConfigName,
	}
}

type Catalog struct {
	byID   map[spec.GID]Entry
	byName map[string]Entry
	ids    []spec.GID          // 用來穩定排序
	unique map[string]struct{} // 一組遊戲，檔名需唯一
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byID:   map[spec.GID]Entry{},
		byName: map[string]Entry{},
		ids:    make([]spec.GID, 0, 16),
		unique: map[string]struct{}{},
		config: multFS,
	}, nil
}

// Register 一次註冊多筆；任一筆不合法時全部不寫入。
func (c *Catalog) Register(metas ...Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	seenID := map[spec.GID]struct{}{}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range metas {
		meta := &metas[i]
		meta.Name = normName(meta.Name)
		if meta.Name == "" {
			return errs.NewFatal("game name required")
		}
		if err := validFileName(meta.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[meta.ConfigName]; !ok {
			return errs.Fatalf("config file not found: %s", meta.ConfigName)
		}
		if _, ok := c.byID[meta.GID]; ok {
			return ErrDupID
		}
		if _, ok := seenID[meta.GID]; ok {
			return ErrDupID
		}
		if _, ok := c.byName[meta.Name]; ok {
			return ErrDupName
		}
		if _, ok := seenName[meta.Name]; ok {
			return ErrDupName
		}
		_, dupOld := c.unique[meta.ConfigName]
		_, dupNew := seenCfg[meta.ConfigName]
		if dupOld || dupNew {
			return errs.Fatalf("duplicate config name: %s", meta.ConfigName)
		}
		seenID[meta.GID] = struct{}{}
		seenName[meta.Name] = struct{}{}
		seenCfg[meta.ConfigName] = struct{}{}
	}
	for _, meta := range metas {
		c.unique[meta.ConfigName] = struct{}{}
		c.byID[meta.GID] = meta
		c.byName[meta.Name] = meta
		c.ids = append(c.ids, meta.GID)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })
	return nil
}

// Discover 依檔名排序解析所有已索引的設定檔，回傳可直接 Register 的 Entry。
//
// 任何一個檔案解析失敗都會回傳錯誤（fail-fast）。
func (c *Catalog) Discover() ([]Entry, error) {
	names := c.config.Names()
	if len(names) == 0 {
		return nil, errs.NewFatal("no config files found to register")
	}
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		ms, err := c.load(name)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Sprintf("parse machine setting failed: %s", name))
		}
		out = append(out, Entry{
			GID:        ms.GameID,
			Name:       ms.GameName,
			ConfigName: name,
		})
	}
	return out, nil
}

func (c *Catalog) GetByID(id spec.GID) (Entry, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	m, ok := c.byName[normName(name)]
	return m, ok
}

func (c *Catalog) IDs() []spec.GID {
	if len(c.ids) == 0 {
		return nil
	}
	return append([]spec.GID(nil), c.ids...)
}

func (c *Catalog) All() []Entry {
	out := make([]Entry, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

// MachineSettingById 讀取並解析設定檔；每次呼叫都回傳新的 *MachineSetting。
func (c *Catalog) MachineSettingById(id spec.GID) (*spec.MachineSetting, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, errs.Warnf("gid %d does not exist in catalog", id)
	}
	return c.load(e.ConfigName)
}

func (c *Catalog) MachineSettingByName(name string) (*spec.MachineSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.Warnf("game %q does not exist in catalog", name)
	}
	return c.load(e.ConfigName)
}

func (c *Catalog) load(configName string) (*spec.MachineSetting, error) {
	src, ok := c.config.GetFS(configName)
	if !ok {
		return nil, errs.Warnf("config %s does not exist in catalog", configName)
	}
	raw, err := fs.ReadFile(src, configName)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	return parseByExt(configName, raw)
}

func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	if strings.ContainsAny(file, `/\:`) {
		return errs.Fatalf("invalid config filename: %q (must be a basename)", file)
	}
	if !isConfigFile(file) {
		return errs.Fatalf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file)
	}
	if strings.HasPrefix(file, ".") {
		return errs.Fatalf("invalid config filename: %q (cannot start with '.')", file)
	}
	return nil
}

func parseByExt(filename string, raw []byte) (*spec.MachineSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetMachineSettingByYAML(raw)
	case ".json":
		return spec.GetMachineSettingByJSON(raw)
	default:
		return nil, errs.Fatalf("unsupported config format: %q", filename)
	}
}

type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	m := &multiFS{
		src:   src,
		index: make(map[string]int, 16),
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.Fatalf("fs[%d] is nil", i)
		}
		err := fs.WalkDir(s, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			// 只允許根目錄
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.Fatalf("config FS must be flat (no subdirectories): %q", path)
			}
			if strings.HasPrefix(path, ".") || !isConfigFile(path) {
				return nil
			}
			if prev, ok := m.index[path]; ok {
				return errs.Fatalf("duplicate config %q in fs[%d] and fs[%d]", path, prev, i)
			}
			m.index[path] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], true
	}
	return nil, false
}

// Names 回傳排序後的設定檔名
func (m *multiFS) Names() []string {
	out := make([]string, 0, len(m.index))
	for name := range m.index {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
