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

// Package config 定義抽樣器的數值範圍與近似切換門檻。
//
// 預設值來自精確產生器的可信範圍：
//   - 二項分布：n <= 2e9 視為可精確抽樣。
//   - 多項分布：n <= 1e9 視為可精確抽樣（分塊抽樣的上限也是這個值）。
//   - n*p < 100 時以 Poisson 近似，否則以常態近似。
//   - 機率總和允許 1e-13 的絕對誤差。
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/zintix-labs/multinom/errs"
	"github.com/zintix-labs/multinom/sdk/core"
	"gopkg.in/yaml.v3"
)

const (
	DefaultExactBinomialLimit    int64   = 2_000_000_000
	DefaultExactMultinomialLimit int64   = 1_000_000_000
	DefaultPoissonMeanThreshold  float64 = 100
	DefaultSumTolerance          float64 = 1e-13

	// float64 可精確表示的最大整數；上限超過此值時 n*p 的比較已失去意義
	maxExactFloatInt int64 = 1 << 53
)

// Config 抽樣器設定
type Config struct {
	ExactBinomialLimit    int64   `yaml:"exact_binomial_limit" json:"exact_binomial_limit"`
	ExactMultinomialLimit int64   `yaml:"exact_multinomial_limit" json:"exact_multinomial_limit"`
	PoissonMeanThreshold  float64 `yaml:"poisson_mean_threshold" json:"poisson_mean_threshold"`
	SumTolerance          float64 `yaml:"sum_tolerance" json:"sum_tolerance"`
	Engine                string  `yaml:"engine" json:"engine"`
}

// Default 回傳預設設定
func Default() Config {
	return Config{
		ExactBinomialLimit:    DefaultExactBinomialLimit,
		ExactMultinomialLimit: DefaultExactMultinomialLimit,
		PoissonMeanThreshold:  DefaultPoissonMeanThreshold,
		SumTolerance:          DefaultSumTolerance,
		Engine:                core.EnginePCG64,
	}
}

// Valid 補齊零值欄位為預設值，並檢查數值是否合理。
func (c *Config) Valid() error {
	d := Default()
	if c.ExactBinomialLimit == 0 {
		c.ExactBinomialLimit = d.ExactBinomialLimit
	}
	if c.ExactMultinomialLimit == 0 {
		c.ExactMultinomialLimit = d.ExactMultinomialLimit
	}
	if c.PoissonMeanThreshold == 0 {
		c.PoissonMeanThreshold = d.PoissonMeanThreshold
	}
	if c.SumTolerance == 0 {
		c.SumTolerance = d.SumTolerance
	}
	if c.Engine == "" {
		c.Engine = d.Engine
	}

	if c.ExactBinomialLimit < 0 || c.ExactBinomialLimit > maxExactFloatInt {
		return errs.Fatalf("config: exact_binomial_limit must be in (0, 2^53], got %d", c.ExactBinomialLimit)
	}
	if c.ExactMultinomialLimit < 0 || c.ExactMultinomialLimit > c.ExactBinomialLimit {
		return errs.Fatalf("config: exact_multinomial_limit must be in (0, exact_binomial_limit], got %d", c.ExactMultinomialLimit)
	}
	if !(c.PoissonMeanThreshold > 0) {
		return errs.Fatalf("config: poisson_mean_threshold must be > 0, got %v", c.PoissonMeanThreshold)
	}
	if !(c.SumTolerance > 0) || c.SumTolerance >= 1 {
		return errs.Fatalf("config: sum_tolerance must be in (0,1), got %v", c.SumTolerance)
	}
	if _, err := core.FactoryByName(c.Engine); err != nil {
		return errs.Wrap(err, "config: invalid engine")
	}
	return nil
}

// FromYAML 讀取 YAML 設定（嚴格模式：未知欄位直接報錯），補齊預設值並檢查後回傳。
func FromYAML(data []byte) (Config, error) {
	c := Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// 空文件視為全部使用預設值
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errs.Wrap(err, "config: failed to unmarshal yaml")
	}
	if err := c.Valid(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromJSON 讀取 JSON 設定（嚴格模式），補齊預設值並檢查後回傳。
func FromJSON(data []byte) (Config, error) {
	c := Config{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, errs.Wrap(err, "config: failed to unmarshal json")
	}
	if err := c.Valid(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load 依內容自動判斷格式：以 '{' 開頭視為 JSON，其餘視為 YAML。
func Load(data []byte) (Config, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FromJSON(trimmed)
	}
	return FromYAML(data)
}
