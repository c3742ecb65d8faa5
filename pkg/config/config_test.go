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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_01(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "main", cfg.Machine.Entry)
	assert.True(t, cfg.Compiler.Checkpoints)
}

func Test_Config_02(t *testing.T) {
	path := check_File(t, `
[compiler]
checkpoints = false

[machine]
entry = "start"
max-steps = 500
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	//
	assert.False(t, cfg.Compiler.Checkpoints)
	assert.Equal(t, "start", cfg.Machine.Entry)
	assert.Equal(t, uint(500), cfg.Machine.MaxSteps)
	// Unspecified settings retain defaults
	assert.Equal(t, uint(1024), cfg.Machine.MaxDepth)
}

func Test_Config_03(t *testing.T) {
	path := check_File(t, "[machine]\nentry = \"start\"\n")
	t.Setenv("REGC_MACHINE_ENTRY", "other")
	t.Setenv("REGC_MACHINE_MAXDEPTH", "8")
	t.Setenv("REGC_COMPILER_CHECKPOINTS", "false")
	//
	cfg, err := Load(path)
	require.NoError(t, err)
	//
	assert.Equal(t, "other", cfg.Machine.Entry)
	assert.Equal(t, uint(8), cfg.Machine.MaxDepth)
	assert.False(t, cfg.Compiler.Checkpoints)
}

func Test_Config_04(t *testing.T) {
	// Default path need not exist
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	//
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	// Explicit path must exist
	_, err = Load("missing.toml")
	assert.Error(t, err)
}

func Test_Config_05(t *testing.T) {
	_, err := Load(check_File(t, "[machine]\nentry = \"\"\n"))
	assert.EqualError(t, err, "entry function cannot be empty")
	//
	_, err = Load(check_File(t, "[machine]\nmax-steps = 0\n"))
	assert.EqualError(t, err, "step limit must be positive")
	//
	t.Setenv("REGC_MACHINE_MAXDEPTH", "0")
	_, err = Load(check_File(t, ""))
	assert.EqualError(t, err, "call depth limit must be positive")
}

func Test_Config_06(t *testing.T) {
	_, err := Load(check_File(t, "[machine\n"))
	assert.Error(t, err)
	//
	t.Setenv("REGC_MACHINE_MAXSTEPS", "lots")
	_, err = Load(check_File(t, ""))
	assert.Error(t, err)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_File(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "regc.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	//
	return path
}
