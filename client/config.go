// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/GoogleCloudPlatform/polycipher/constants"
	"sigs.k8s.io/yaml"
)

// OutOfRangePolicy decides what decryption does with a root that evaluates
// outside [0, 255] after rounding.
type OutOfRangePolicy string

const (
	// OutOfRangeFail aborts decryption with ErrByteOutOfRange.
	OutOfRangeFail OutOfRangePolicy = "fail"
	// OutOfRangeClamp saturates the value to 0 or 255.
	OutOfRangeClamp OutOfRangePolicy = "clamp"
)

// EncryptConfig holds the root search parameters used for every byte.
type EncryptConfig struct {
	X0      int64   `json:"x0"`
	Epsilon float64 `json:"epsilon"`
	MaxIter uint64  `json:"maxIter"`
}

// DecryptConfig holds decryption options.
type DecryptConfig struct {
	OutOfRange OutOfRangePolicy `json:"outOfRange,omitempty"`
}

// Config is the client configuration, usually loaded from YAML.
type Config struct {
	EncryptConfig *EncryptConfig `json:"encryptConfig,omitempty"`
	DecryptConfig *DecryptConfig `json:"decryptConfig,omitempty"`
	// Workers bounds the number of bytes processed concurrently. Zero
	// selects runtime.GOMAXPROCS(0).
	Workers int `json:"workers,omitempty"`
}

// DefaultEncryptConfig returns x0 = 0, epsilon = 1e-10, max_iter = 1000.
func DefaultEncryptConfig() *EncryptConfig {
	return &EncryptConfig{
		X0:      constants.DefaultX0,
		Epsilon: constants.DefaultEpsilon,
		MaxIter: constants.DefaultMaxIter,
	}
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		EncryptConfig: DefaultEncryptConfig(),
		DecryptConfig: &DecryptConfig{OutOfRange: OutOfRangeFail},
	}
}

// header returns the encrypted file header matching the config.
func (c *EncryptConfig) header() CipherHeader {
	return CipherHeader{X0: c.X0, Epsilon: c.Epsilon, MaxIter: c.MaxIter}
}

// Validate reports whether the configuration is usable.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	if ec := c.EncryptConfig; ec != nil {
		if math.IsNaN(ec.Epsilon) || ec.Epsilon <= 0 {
			return fmt.Errorf("epsilon must be positive, got %v", ec.Epsilon)
		}
	}

	if dc := c.DecryptConfig; dc != nil {
		switch dc.OutOfRange {
		case "", OutOfRangeFail, OutOfRangeClamp:
		default:
			return fmt.Errorf("unknown outOfRange policy %q, want %q or %q", dc.OutOfRange, OutOfRangeFail, OutOfRangeClamp)
		}
	}

	return nil
}

// workers returns the effective concurrency.
func (c *Config) workers() int {
	if c == nil || c.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// ParseConfig parses a YAML configuration. Stanzas missing from the YAML
// keep their defaults.
func ParseConfig(yamlBytes []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(yamlBytes, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if cfg.EncryptConfig == nil {
		cfg.EncryptConfig = DefaultEncryptConfig()
	}
	if cfg.DecryptConfig == nil {
		cfg.DecryptConfig = &DecryptConfig{}
	}
	if cfg.DecryptConfig.OutOfRange == "" {
		cfg.DecryptConfig.OutOfRange = OutOfRangeFail
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return cfg, nil
}

// LoadConfig reads and parses the YAML configuration at path. If optional is
// set and the file does not exist, or path is empty, the default
// configuration is returned.
func LoadConfig(path string, optional bool) (*Config, error) {
	if optional && path == "" {
		return DefaultConfig(), nil
	}

	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	return ParseConfig(yamlBytes)
}
