// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// DefaultPath is the configuration file consulted when none is given
// explicitly.  Unlike an explicitly given file, it need not exist.
const DefaultPath = "regc.toml"

// EnvPrefix is the prefix of environment variables which override settings
// from the configuration file (e.g. REGC_MACHINE_MAXSTEPS).
const EnvPrefix = "REGC"

// Config captures all settings which affect compilation and execution.
type Config struct {
	Compiler Compiler `toml:"compiler"`
	Machine  Machine  `toml:"machine"`
}

// Compiler determines how programs are compiled.
type Compiler struct {
	// Verify register discipline at every scope boundary.
	Checkpoints bool `toml:"checkpoints"`
}

// Machine determines how programs are executed.
type Machine struct {
	// Function called by "run" when none is specified.
	Entry string `toml:"entry"`
	// Maximum number of instructions executed per call (zero means unlimited).
	MaxSteps uint `toml:"max-steps"`
	// Maximum depth of the call stack.
	MaxDepth uint `toml:"max-depth"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Compiler: Compiler{Checkpoints: true},
		Machine:  Machine{Entry: "main", MaxSteps: 10_000_000, MaxDepth: 1024},
	}
}

// Load reads the configuration from a given TOML file, and then applies any
// overrides from the environment.  Settings not given in either retain their
// default values.  An empty path means DefaultPath, which is skipped if it does
// not exist.
func Load(path string) (Config, error) {
	var (
		cfg      = Default()
		optional = path == ""
	)
	//
	if optional {
		path = DefaultPath
	}
	//
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !optional || !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	//
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}
	//
	return cfg, cfg.Validate()
}

// Validate checks the configuration makes sense.
func (p *Config) Validate() error {
	if p.Machine.Entry == "" {
		return errors.New("entry function cannot be empty")
	} else if p.Machine.MaxSteps == 0 {
		return errors.New("step limit must be positive")
	} else if p.Machine.MaxDepth == 0 {
		return errors.New("call depth limit must be positive")
	}
	//
	return nil
}
