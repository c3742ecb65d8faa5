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
package bytecode

import "math"

// Function represents a compiled function.  When executed, a function requires
// a frame of exactly FrameSize registers.  The first NumParams registers hold
// the arguments on entry, and the following NumCaptures registers hold the
// values captured by the closure (if any).  All remaining registers are
// temporaries, or local variables.
type Function struct {
	// Name of this function.  Nested function literals are named after their
	// enclosing function.
	Name string `cbor:"1,keyasint"`
	// Number of parameters
	NumParams uint `cbor:"2,keyasint"`
	// Number of captured values
	NumCaptures uint `cbor:"3,keyasint"`
	// Number of registers needed in the frame.
	FrameSize uint `cbor:"4,keyasint"`
	// Instructions making up the body of this function.
	Code []Instruction `cbor:"5,keyasint"`
}

// Program represents a set of compiled functions which can refer to each
// other by index.
type Program struct {
	Functions []Function `cbor:"1,keyasint"`
}

// NewProgram constructs an empty program.
func NewProgram() *Program {
	return &Program{}
}

// Add a function to this program, returning its index.
func (p *Program) Add(fn Function) uint {
	p.Functions = append(p.Functions, fn)
	return uint(len(p.Functions) - 1)
}

// Reserve space for a function whose body is not yet compiled, returning its
// index.  This allows recursive and forward references.
func (p *Program) Reserve(name string) uint {
	return p.Add(Function{Name: name})
}

// Function returns the ith function in this program.
func (p *Program) Function(index uint) *Function {
	return &p.Functions[index]
}

// NumFunctions returns the number of functions in this program.
func (p *Program) NumFunctions() uint {
	return uint(len(p.Functions))
}

// Lookup finds the index of the function with the given name, returning false
// if there is none.
func (p *Program) Lookup(name string) (uint, bool) {
	for i, f := range p.Functions {
		if f.Name == name {
			return uint(i), true
		}
	}
	//
	return math.MaxUint, false
}
