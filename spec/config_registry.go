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

package spec

import (
	"bytes"
	"encoding/json"

	"github.com/zintix-labs/reelspin/errs"
	"gopkg.in/yaml.v3"
)

// GetMachineSettingByYAML
// 以嚴格模式讀取 YAML 設定（拼錯欄位直接報錯）並初始化
func GetMachineSettingByYAML(data []byte) (*MachineSetting, error) {
	ms := &MachineSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(ms); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal yaml")
	}
	if err := ms.Init(); err != nil {
		return nil, errs.Wrap(err, "machine setting initialized err")
	}
	return ms, nil
}

// GetMachineSettingByJSON
// 以嚴格模式讀取 JSON 設定並初始化
func GetMachineSettingByJSON(data []byte) (*MachineSetting, error) {
	ms := &MachineSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ms); err != nil {
		return nil, errs.Wrap(err, "can not unmarshal json byte")
	}
	if err := ms.Init(); err != nil {
		return nil, errs.Wrap(err, "machine setting initialized err")
	}
	return ms, nil
}
