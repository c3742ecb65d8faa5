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
package vm

import (
	"fmt"
	"strings"
)

// Value represents a value held in a register during execution.  A value is
// either an integer, or a closure.
type Value interface {
	String() string
}

// Int is a signed 64bit integer value.
type Int int64

func (p Int) String() string {
	return fmt.Sprintf("%d", int64(p))
}

// Closure is a function value, along with the values it captured at the point
// of creation.
type Closure struct {
	// Index of the function in the executing program.
	Function uint
	// Name of the function (for display).
	Name string
	// Captured values
	Captures []Value
}

func (p *Closure) String() string {
	if len(p.Captures) == 0 {
		return fmt.Sprintf("<fn %s>", p.Name)
	}
	//
	captures := make([]string, len(p.Captures))
	//
	for i, v := range p.Captures {
		captures[i] = v.String()
	}
	//
	return fmt.Sprintf("<fn %s [%s]>", p.Name, strings.Join(captures, ", "))
}
