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
	"errors"
	"fmt"

	"github.com/consensys/go-regc/pkg/bytecode"
	"github.com/consensys/go-regc/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// ErrStepLimit is returned when execution exceeds the permitted number of
// steps.
var ErrStepLimit = errors.New("step limit exceeded")

// ErrDepthLimit is returned when the call stack exceeds the permitted depth.
var ErrDepthLimit = errors.New("call depth limit exceeded")

// Options determines the resource limits of a machine.
type Options struct {
	// Maximum number of instructions executed per call (zero means unlimited).
	MaxSteps uint
	// Maximum depth of the call stack.
	MaxDepth uint
}

// DefaultOptions returns the default resource limits.
func DefaultOptions() Options {
	return Options{MaxSteps: 10_000_000, MaxDepth: 1024}
}

// Machine executes a compiled program.  Every function invocation is given a
// fresh frame whose size is exactly that determined when the function was
// compiled.
type Machine struct {
	program *bytecode.Program
	options Options
	// Steps executed by the most recent call.
	steps uint
}

// frame represents an active function invocation.
type frame struct {
	fn        *bytecode.Function
	pc        uint
	registers []Value
	// Register in the caller's frame receiving the return value.
	target uint
}

// New constructs a machine for executing the given program.  The program is
// validated first, and an error is returned if it is malformed.
func New(program *bytecode.Program, options Options) (*Machine, error) {
	if errs := bytecode.Validate(program); len(errs) != 0 {
		return nil, errs[0]
	} else if options.MaxDepth == 0 {
		return nil, errors.New("maximum call depth must be positive")
	}
	//
	return &Machine{program, options, 0}, nil
}

// Steps returns the number of instructions executed by the most recent call.
func (p *Machine) Steps() uint {
	return p.steps
}

// Call executes the named function with the given arguments, returning its
// result.
func (p *Machine) Call(name string, args ...int64) (Value, error) {
	index, ok := p.program.Lookup(name)
	//
	if !ok {
		return nil, fmt.Errorf("unknown function \"%s\"", name)
	}
	//
	values := make([]Value, len(args))
	//
	for i, arg := range args {
		values[i] = Int(arg)
	}
	//
	return p.Invoke(&Closure{Function: index, Name: name}, values...)
}

// Invoke executes a closure with the given arguments, returning its result.
func (p *Machine) Invoke(closure *Closure, args ...Value) (Value, error) {
	var frames = stack.NewBoundedStack[*frame](p.options.MaxDepth)
	//
	p.steps = 0
	//
	entry, err := p.enter(closure, args, 0)
	if err != nil {
		return nil, err
	}
	//
	frames.Push(entry)
	//
	for {
		var (
			top  = frames.Peek(0)
			insn = &top.fn.Code[top.pc]
		)
		//
		if p.options.MaxSteps != 0 && p.steps >= p.options.MaxSteps {
			return nil, fault(top, top.pc, ErrStepLimit)
		}
		//
		p.steps++
		top.pc++
		//
		switch insn.Op {
		case bytecode.RET:
			result := top.registers[insn.Src[0]]
			frames.Pop()
			//
			if frames.IsEmpty() {
				return result, nil
			}
			//
			frames.Peek(0).registers[top.target] = result
		case bytecode.CALL, bytecode.INVOKE:
			callee, err := p.callee(top, insn)
			if err != nil {
				return nil, fault(top, top.pc-1, err)
			} else if frames.IsFull() {
				return nil, fault(top, top.pc-1, ErrDepthLimit)
			}
			//
			next, err := p.enter(callee, operands(top, insn.Src[len(insn.Src)-callArgs(insn):]), insn.Dst)
			if err != nil {
				return nil, fault(top, top.pc-1, err)
			}
			//
			log.Tracef("call %s (depth %d)", next.fn.Name, frames.Len())
			//
			frames.Push(next)
		default:
			if err := p.execute(top, insn); err != nil {
				return nil, fault(top, top.pc-1, err)
			}
		}
	}
}

// Construct a frame for invoking a closure.  Arguments are placed in the first
// registers, followed by any captured values.
func (p *Machine) enter(closure *Closure, args []Value, target uint) (*frame, error) {
	var fn = p.program.Function(closure.Function)
	//
	if uint(len(args)) != fn.NumParams {
		return nil, fmt.Errorf("%s expects %d argument(s), found %d", fn.Name, fn.NumParams, len(args))
	} else if uint(len(closure.Captures)) != fn.NumCaptures {
		return nil, fmt.Errorf("%s expects %d capture(s), found %d", fn.Name, fn.NumCaptures,
			len(closure.Captures))
	}
	//
	registers := make([]Value, fn.FrameSize)
	copy(registers, args)
	copy(registers[fn.NumParams:], closure.Captures)
	//
	return &frame{fn, 0, registers, target}, nil
}

// Determine the closure being called by a CALL or INVOKE instruction.
func (p *Machine) callee(top *frame, insn *bytecode.Instruction) (*Closure, error) {
	if insn.Op == bytecode.CALL {
		index := uint(insn.Imm)
		return &Closure{Function: index, Name: p.program.Function(index).Name}, nil
	} else if closure, ok := top.registers[insn.Src[0]].(*Closure); ok {
		return closure, nil
	}
	//
	return nil, fmt.Errorf("cannot invoke %s", describe(top.registers[insn.Src[0]]))
}

// Execute a single instruction which does not affect the call stack.
func (p *Machine) execute(top *frame, insn *bytecode.Instruction) error {
	switch insn.Op {
	case bytecode.CONST:
		top.registers[insn.Dst] = Int(insn.Imm)
	case bytecode.MOVE:
		top.registers[insn.Dst] = top.registers[insn.Src[0]]
	case bytecode.NOT:
		val, err := integer(top, insn.Src[0])
		if err != nil {
			return err
		}
		//
		top.registers[insn.Dst] = boolean(val == 0)
	case bytecode.JMP:
		top.pc = uint(insn.Imm)
	case bytecode.JZ:
		val, err := integer(top, insn.Src[0])
		if err != nil {
			return err
		} else if val == 0 {
			top.pc = uint(insn.Imm)
		}
	case bytecode.CLOSURE:
		index := uint(insn.Imm)
		top.registers[insn.Dst] = &Closure{index, p.program.Function(index).Name, operands(top, insn.Src)}
	default:
		if insn.Op.IsBinary() {
			return binary(top, insn)
		}
		//
		return fmt.Errorf("unknown instruction %s", insn.Op)
	}
	//
	return nil
}

func binary(top *frame, insn *bytecode.Instruction) error {
	lhs, err := integer(top, insn.Src[0])
	if err != nil {
		return err
	}
	//
	rhs, err := integer(top, insn.Src[1])
	if err != nil {
		return err
	}
	//
	var result Value
	// Arithmetic wraps on overflow (two's complement), including MinInt64 / -1.
	switch insn.Op {
	case bytecode.ADD:
		result = Int(lhs + rhs)
	case bytecode.SUB:
		result = Int(lhs - rhs)
	case bytecode.MUL:
		result = Int(lhs * rhs)
	case bytecode.DIV, bytecode.REM:
		if rhs == 0 {
			return errors.New("division by zero")
		} else if insn.Op == bytecode.DIV {
			result = Int(lhs / rhs)
		} else {
			result = Int(lhs % rhs)
		}
	case bytecode.LT:
		result = boolean(lhs < rhs)
	case bytecode.LE:
		result = boolean(lhs <= rhs)
	case bytecode.GT:
		result = boolean(lhs > rhs)
	case bytecode.GE:
		result = boolean(lhs >= rhs)
	case bytecode.EQ:
		result = boolean(lhs == rhs)
	case bytecode.NE:
		result = boolean(lhs != rhs)
	}
	//
	top.registers[insn.Dst] = result
	//
	return nil
}

// Annotate an error with the location at which it arose.
func fault(top *frame, pc uint, err error) error {
	return fmt.Errorf("%s[%d]: %w", top.fn.Name, pc, err)
}

// Determine the number of arguments passed by a call instruction.
func callArgs(insn *bytecode.Instruction) int {
	if insn.Op == bytecode.INVOKE {
		return len(insn.Src) - 1
	}
	//
	return len(insn.Src)
}

func operands(top *frame, regs []uint) []Value {
	values := make([]Value, len(regs))
	//
	for i, r := range regs {
		values[i] = top.registers[r]
	}
	//
	return values
}

func integer(top *frame, reg uint) (int64, error) {
	if val, ok := top.registers[reg].(Int); ok {
		return int64(val), nil
	}
	//
	return 0, fmt.Errorf("expected integer, found %s", describe(top.registers[reg]))
}

func describe(val Value) string {
	if val == nil {
		return "uninitialised register"
	}
	//
	return val.String()
}

func boolean(b bool) Int {
	if b {
		return 1
	}
	//
	return 0
}
