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

import "fmt"

// Opcode identifies the operation performed by an instruction.
type Opcode uint8

const (
	// CONST loads an immediate value into the target register.
	CONST Opcode = iota
	// MOVE copies the source register into the target register.
	MOVE
	// ADD adds two source registers.
	ADD
	// SUB subtracts the second source register from the first.
	SUB
	// MUL multiplies two source registers.
	MUL
	// DIV divides the first source register by the second (truncated).
	DIV
	// REM computes the remainder of dividing the first source register by the
	// second (truncated).
	REM
	// LT compares two source registers, producing one when the first is
	// strictly less than the second and zero otherwise.
	LT
	// LE compares two source registers (non-strictly).
	LE
	// GT compares two source registers (strictly).
	GT
	// GE compares two source registers (non-strictly).
	GE
	// EQ compares two source registers for equality.
	EQ
	// NE compares two source registers for inequality.
	NE
	// NOT produces one if its source register is zero, and zero otherwise.
	NOT
	// JMP unconditionally branches to the immediate target.
	JMP
	// JZ branches to the immediate target if its source register is zero.
	JZ
	// CALL invokes the top-level function identified by the immediate, passing
	// the source registers as arguments.
	CALL
	// CLOSURE constructs a closure for the function identified by the
	// immediate, capturing the values of the source registers.
	CLOSURE
	// INVOKE calls the closure held in the first source register, passing the
	// remaining source registers as arguments.
	INVOKE
	// RET returns the value of its source register to the caller.
	RET
)

// Immediate classifies the meaning of an instruction's immediate operand.
type Immediate uint8

const (
	// NO_IMMEDIATE indicates the immediate is unused.
	NO_IMMEDIATE Immediate = iota
	// VALUE_IMMEDIATE indicates the immediate is a constant value.
	VALUE_IMMEDIATE
	// TARGET_IMMEDIATE indicates the immediate is a branch target.
	TARGET_IMMEDIATE
	// FUNCTION_IMMEDIATE indicates the immediate is a function index.
	FUNCTION_IMMEDIATE
)

// VARIABLE indicates an opcode accepting any number of source registers.
const VARIABLE = -1

type opcodeInfo struct {
	mnemonic string
	// Whether or not the instruction writes a target register.
	target bool
	// Number of source registers (or VARIABLE)
	sources int
	// Meaning of the immediate
	immediate Immediate
}

var opcodes = []opcodeInfo{
	CONST:   {"const", true, 0, VALUE_IMMEDIATE},
	MOVE:    {"move", true, 1, NO_IMMEDIATE},
	ADD:     {"add", true, 2, NO_IMMEDIATE},
	SUB:     {"sub", true, 2, NO_IMMEDIATE},
	MUL:     {"mul", true, 2, NO_IMMEDIATE},
	DIV:     {"div", true, 2, NO_IMMEDIATE},
	REM:     {"rem", true, 2, NO_IMMEDIATE},
	LT:      {"lt", true, 2, NO_IMMEDIATE},
	LE:      {"le", true, 2, NO_IMMEDIATE},
	GT:      {"gt", true, 2, NO_IMMEDIATE},
	GE:      {"ge", true, 2, NO_IMMEDIATE},
	EQ:      {"eq", true, 2, NO_IMMEDIATE},
	NE:      {"ne", true, 2, NO_IMMEDIATE},
	NOT:     {"not", true, 1, NO_IMMEDIATE},
	JMP:     {"jmp", false, 0, TARGET_IMMEDIATE},
	JZ:      {"jz", false, 1, TARGET_IMMEDIATE},
	CALL:    {"call", true, VARIABLE, FUNCTION_IMMEDIATE},
	CLOSURE: {"closure", true, VARIABLE, FUNCTION_IMMEDIATE},
	INVOKE:  {"invoke", true, VARIABLE, NO_IMMEDIATE},
	RET:     {"ret", false, 1, NO_IMMEDIATE},
}

// IsValid checks whether this is a known opcode.
func (p Opcode) IsValid() bool {
	return int(p) < len(opcodes)
}

// HasTarget checks whether instructions with this opcode write a target
// register.
func (p Opcode) HasTarget() bool {
	return opcodes[p].target
}

// Sources returns the number of source registers expected by this opcode, or
// VARIABLE.
func (p Opcode) Sources() int {
	return opcodes[p].sources
}

// Immediate returns the meaning of the immediate operand for this opcode.
func (p Opcode) Immediate() Immediate {
	return opcodes[p].immediate
}

// IsBinary checks whether this opcode is a binary arithmetic or comparison
// operation.
func (p Opcode) IsBinary() bool {
	return p >= ADD && p <= NE
}

func (p Opcode) String() string {
	if p.IsValid() {
		return opcodes[p].mnemonic
	}
	//
	return fmt.Sprintf("op%d", uint8(p))
}
