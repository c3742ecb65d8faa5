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

import (
	"fmt"
	"strings"
)

// Instruction represents a single instruction in the body of a function.
// Register operands are indices into the frame of the executing function.
type Instruction struct {
	Op Opcode `cbor:"1,keyasint"`
	// Target register (if applicable)
	Dst uint `cbor:"2,keyasint,omitempty"`
	// Source registers
	Src []uint `cbor:"3,keyasint,omitempty"`
	// Immediate operand, whose meaning is determined by the opcode.
	Imm int64 `cbor:"4,keyasint,omitempty"`
}

// NewConst constructs an instruction loading a constant into a register.
func NewConst(dst uint, value int64) Instruction {
	return Instruction{Op: CONST, Dst: dst, Imm: value}
}

// NewMove constructs an instruction copying one register into another.
func NewMove(dst uint, src uint) Instruction {
	return Instruction{Op: MOVE, Dst: dst, Src: []uint{src}}
}

// NewBinary constructs a binary arithmetic or comparison instruction.
func NewBinary(op Opcode, dst uint, lhs uint, rhs uint) Instruction {
	if !op.IsBinary() {
		panic(fmt.Sprintf("invalid binary opcode %s", op))
	}
	//
	return Instruction{Op: op, Dst: dst, Src: []uint{lhs, rhs}}
}

// NewNot constructs a logical negation instruction.
func NewNot(dst uint, src uint) Instruction {
	return Instruction{Op: NOT, Dst: dst, Src: []uint{src}}
}

// NewJump constructs an unconditional branch.
func NewJump(target uint) Instruction {
	return Instruction{Op: JMP, Imm: int64(target)}
}

// NewJumpZero constructs a branch taken when the given register is zero.
func NewJumpZero(cond uint, target uint) Instruction {
	return Instruction{Op: JZ, Src: []uint{cond}, Imm: int64(target)}
}

// NewCall constructs a direct call to a top-level function.
func NewCall(dst uint, fn uint, args ...uint) Instruction {
	return Instruction{Op: CALL, Dst: dst, Src: args, Imm: int64(fn)}
}

// NewClosure constructs an instruction which creates a closure capturing the
// given registers.
func NewClosure(dst uint, fn uint, captures ...uint) Instruction {
	return Instruction{Op: CLOSURE, Dst: dst, Src: captures, Imm: int64(fn)}
}

// NewInvoke constructs an indirect call through a closure.
func NewInvoke(dst uint, closure uint, args ...uint) Instruction {
	return Instruction{Op: INVOKE, Dst: dst, Src: append([]uint{closure}, args...)}
}

// NewReturn constructs an instruction returning the given register.
func NewReturn(src uint) Instruction {
	return Instruction{Op: RET, Src: []uint{src}}
}

// Uses returns the set of registers read by this instruction.
func (p *Instruction) Uses() []uint {
	return p.Src
}

// Definitions returns the set of registers written by this instruction.
func (p *Instruction) Definitions() []uint {
	if p.Op.HasTarget() {
		return []uint{p.Dst}
	}
	//
	return nil
}

// Target returns the branch target of this instruction, and whether it has
// one.
func (p *Instruction) Target() (uint, bool) {
	if p.Op.Immediate() == TARGET_IMMEDIATE {
		return uint(p.Imm), true
	}
	//
	return 0, false
}

func (p *Instruction) String() string {
	return p.Format(nil)
}

// Format returns a human-readable form of this instruction.  When a program is
// given, function immediates are rendered using the function's name.
func (p *Instruction) Format(program *Program) string {
	var operands []string
	//
	if p.Op.HasTarget() {
		operands = append(operands, registerName(p.Dst))
	}
	//
	switch p.Op.Immediate() {
	case VALUE_IMMEDIATE:
		operands = append(operands, fmt.Sprintf("%d", p.Imm))
	case TARGET_IMMEDIATE:
		if p.Op == JZ {
			operands = append(operands, registerName(p.Src[0]))
		}
		//
		operands = append(operands, fmt.Sprintf("@%d", p.Imm))
	case FUNCTION_IMMEDIATE:
		operands = append(operands, functionName(program, p.Imm))
	}
	//
	if p.Op != JZ {
		for _, r := range p.Src {
			operands = append(operands, registerName(r))
		}
	}
	//
	return fmt.Sprintf("%s %s", p.Op.String(), strings.Join(operands, ", "))
}

func registerName(index uint) string {
	return fmt.Sprintf("r%d", index)
}

func functionName(program *Program, index int64) string {
	if program != nil && index >= 0 && index < int64(len(program.Functions)) {
		return program.Functions[index].Name
	}
	//
	return fmt.Sprintf("#%d", index)
}
