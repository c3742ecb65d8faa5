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
)

// Validate checks that a given program is well-formed.  Amongst other things,
// this means every register operand lies within the frame of its function,
// every branch target is within the function, and every call refers to an
// existing function with a matching number of arguments.  Since frames are
// allocated using the declared frame size, this ensures execution can never
// access a register outside its frame.
func Validate(program *Program) []error {
	var errors []error
	//
	for i := range program.Functions {
		errors = append(errors, validateFunction(program, &program.Functions[i])...)
	}
	//
	return errors
}

func validateFunction(program *Program, fn *Function) []error {
	var errors []error
	//
	if fn.NumParams+fn.NumCaptures > fn.FrameSize {
		errors = append(errors, fmt.Errorf("%s: frame size %d too small for %d parameter(s) and %d capture(s)",
			fn.Name, fn.FrameSize, fn.NumParams, fn.NumCaptures))
	}
	//
	if len(fn.Code) == 0 {
		return append(errors, fmt.Errorf("%s: function has no instructions", fn.Name))
	} else if last := fn.Code[len(fn.Code)-1].Op; last != RET && last != JMP {
		errors = append(errors, fmt.Errorf("%s: function does not end with return", fn.Name))
	}
	//
	for pc := range fn.Code {
		if err := validateInstruction(program, fn, &fn.Code[pc]); err != nil {
			errors = append(errors, fmt.Errorf("%s[%d]: %w", fn.Name, pc, err))
		}
	}
	//
	return errors
}

func validateInstruction(program *Program, fn *Function, insn *Instruction) error {
	if !insn.Op.IsValid() {
		return fmt.Errorf("unknown opcode %d", insn.Op)
	} else if n := insn.Op.Sources(); n != VARIABLE && n != len(insn.Src) {
		return fmt.Errorf("%s expects %d source register(s), found %d", insn.Op, n, len(insn.Src))
	} else if insn.Op == INVOKE && len(insn.Src) == 0 {
		return fmt.Errorf("invoke requires closure register")
	}
	// Check registers within frame
	for _, r := range append(insn.Definitions(), insn.Uses()...) {
		if r >= fn.FrameSize {
			return fmt.Errorf("register r%d outside frame of size %d", r, fn.FrameSize)
		}
	}
	// Check immediate
	switch insn.Op.Immediate() {
	case TARGET_IMMEDIATE:
		if insn.Imm < 0 || insn.Imm >= int64(len(fn.Code)) {
			return fmt.Errorf("branch target @%d out of bounds", insn.Imm)
		}
	case FUNCTION_IMMEDIATE:
		if insn.Imm < 0 || insn.Imm >= int64(len(program.Functions)) {
			return fmt.Errorf("unknown function #%d", insn.Imm)
		}
		//
		target := program.Function(uint(insn.Imm))
		//
		if insn.Op == CALL && (target.NumCaptures != 0 || target.NumParams != uint(len(insn.Src))) {
			return fmt.Errorf("invalid call to %s with %d argument(s)", target.Name, len(insn.Src))
		} else if insn.Op == CLOSURE && target.NumCaptures != uint(len(insn.Src)) {
			return fmt.Errorf("closure of %s requires %d capture(s), found %d", target.Name,
				target.NumCaptures, len(insn.Src))
		}
	}
	//
	return nil
}
