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
package util

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func Test_PerfStats_01(t *testing.T) {
	logger, hook := test.NewNullLogger()
	log.SetOutput(logger.Out)
	log.AddHook(hook)
	log.SetLevel(log.DebugLevel)
	//
	defer log.SetLevel(log.InfoLevel)
	//
	stats := NewPerfStats()
	stats.Log("phase")
	//
	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, log.DebugLevel, entry.Level)
		assert.Contains(t, entry.Message, "phase took")
	}
	//
	assert.GreaterOrEqual(t, stats.Elapsed().Nanoseconds(), int64(0))
}
