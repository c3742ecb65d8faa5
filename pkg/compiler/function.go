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
package compiler

import (
	"fmt"
	"slices"

	"github.com/consensys/go-regc/pkg/ast"
	"github.com/consensys/go-regc/pkg/bytecode"
	"github.com/consensys/go-regc/pkg/regalloc"
	log "github.com/sirupsen/logrus"
)

// variable describes a named value held in a register of the function being
// compiled.
type variable struct {
	name string
	reg  *regalloc.Register
	// Captured values are copies of variables in an enclosing function, and
	// cannot be assigned.
	captured bool
}

// scope represents a lexical scope within a function body.  Scopes never span
// function boundaries, since every function has its own frame.
type scope struct {
	vars   []*variable
	parent *scope
}

func (p *scope) lookup(name string) *variable {
	for s := p; s != nil; s = s.parent {
		// Search backwards so later bindings shadow earlier ones.
		for i := len(s.vars) - 1; i >= 0; i-- {
			if s.vars[i].name == name {
				return s.vars[i]
			}
		}
	}
	//
	return nil
}

// functionCompiler is responsible for compiling the body of exactly one
// function.  It owns the register allocator for that function, and nested
// function literals are compiled using their own functionCompiler (hence, with
// their own allocator).
type functionCompiler struct {
	compiler *Compiler
	name     string
	alloc    *regalloc.Allocator
	scope    *scope
	code     []bytecode.Instruction
	// Number of function literals encountered so far (used for naming).
	lambdas uint
}

func newFunctionCompiler(compiler *Compiler, name string) *functionCompiler {
	return &functionCompiler{
		compiler: compiler,
		name:     name,
		alloc:    regalloc.New(),
		scope:    &scope{},
	}
}

// Compile a function with the given parameters, captured variables and body.
// Parameters occupy the first registers of the frame, followed by captured
// variables.  Both are held in persistent registers, since they live for the
// entire function.
func (p *functionCompiler) compile(params []string, captures []string, body []ast.Expr) bytecode.Function {
	for i, name := range append(slices.Clone(params), captures...) {
		reg := p.alloc.AcquirePersistent()
		// Sanity check
		if reg.Index() != uint(i) {
			panic(fmt.Sprintf("parameter %s allocated register %s", name, reg))
		}
		//
		p.declare(name, reg, i >= len(params))
	}
	//
	result := p.alloc.Acquire()
	p.compileSequence(body, result.Index())
	p.emit(bytecode.NewReturn(result.Index()))
	p.alloc.Release(result)
	//
	fn := bytecode.Function{
		Name:        p.name,
		NumParams:   uint(len(params)),
		NumCaptures: uint(len(captures)),
		FrameSize:   p.alloc.Finish(),
		Code:        p.code,
	}
	//
	log.Debugf("compiled %s: %d instruction(s), frame size %d", fn.Name, len(fn.Code), fn.FrameSize)
	//
	return fn
}

// Compile a non-empty sequence of expressions, where the value of the last is
// written into the target register.
func (p *functionCompiler) compileSequence(exprs []ast.Expr, dst uint) {
	var scratch *regalloc.Register
	//
	for i, e := range exprs {
		target := dst
		//
		if i+1 < len(exprs) {
			if scratch == nil {
				scratch = p.alloc.Acquire()
			}
			//
			target = scratch.Index()
		}
		//
		p.scoped(func() { p.compileExpr(e, target) })
	}
	//
	p.release(scratch)
}

// Compile an expression whose result is written into the target register.  The
// target register is never the register of a variable in scope, since that
// could be observed by the expression whilst it is being evaluated.
func (p *functionCompiler) compileExpr(expr ast.Expr, dst uint) {
	switch e := expr.(type) {
	case *ast.Const:
		p.emit(bytecode.NewConst(dst, e.Value))
	case *ast.Var:
		p.compileVar(e, dst)
	case *ast.Assign:
		p.compileAssign(e, dst)
	case *ast.Let:
		p.compileLet(e, dst)
	case *ast.If:
		p.compileIf(e, dst)
	case *ast.While:
		p.compileWhile(e, dst)
	case *ast.Block:
		p.compileSequence(e.Body, dst)
	case *ast.Lambda:
		p.compileLambda(e, dst)
	case *ast.Binary:
		p.compileBinary(e, dst)
	case *ast.Not:
		src, tmp := p.compileOperand(e.Arg)
		p.emit(bytecode.NewNot(dst, src))
		p.release(tmp)
	case *ast.Call:
		p.compileCall(e, dst)
	default:
		panic(fmt.Sprintf("unknown expression %s", expr.String()))
	}
}

func (p *functionCompiler) compileVar(e *ast.Var, dst uint) {
	if v := p.scope.lookup(e.Name); v != nil {
		p.move(dst, v.reg.Index())
	} else if f, ok := p.compiler.functions[e.Name]; ok {
		// Reference to a top-level function produces a closure without
		// captures.
		p.emit(bytecode.NewClosure(dst, f.index))
	} else {
		p.compiler.error(e, fmt.Sprintf("unknown variable \"%s\"", e.Name))
	}
}

func (p *functionCompiler) compileAssign(e *ast.Assign, dst uint) {
	var v = p.scope.lookup(e.Name)
	//
	if v == nil {
		p.compiler.error(e, fmt.Sprintf("unknown variable \"%s\"", e.Name))
	} else if v.captured {
		p.compiler.error(e, fmt.Sprintf("cannot assign captured variable \"%s\"", e.Name))
	}
	//
	p.compileExpr(e.Value, dst)
	//
	if v != nil {
		p.move(v.reg.Index(), dst)
	}
}

// Compile a let expression.  Each binding is allocated a fresh register which
// is released at the end of the let, unless the variable was captured by a
// nested function literal (in which case it was made persistent).
func (p *functionCompiler) compileLet(e *ast.Let, dst uint) {
	var regs []*regalloc.Register
	//
	p.scoped(func() {
		p.scope = &scope{parent: p.scope}
		//
		for _, b := range e.Bindings {
			reg := p.alloc.Acquire()
			// Binding is not in scope for its own initialiser
			p.compileExpr(b.Value, reg.Index())
			p.declare(b.Name, reg, false)
			regs = append(regs, reg)
		}
		//
		p.compileSequence(e.Body, dst)
		p.scope = p.scope.parent
		//
		for _, reg := range regs {
			if !reg.IsPersistent() {
				p.alloc.Release(reg)
			}
		}
	})
}

func (p *functionCompiler) compileIf(e *ast.If, dst uint) {
	cond, tmp := p.compileOperand(e.Cond)
	branch := p.emit(bytecode.NewJumpZero(cond, 0))
	p.release(tmp)
	// True branch
	p.compileExpr(e.Then, dst)
	exit := p.emit(bytecode.NewJump(0))
	// False branch
	p.patch(branch)
	//
	if e.Else != nil {
		p.compileExpr(e.Else, dst)
	} else {
		p.emit(bytecode.NewConst(dst, 0))
	}
	//
	p.patch(exit)
}

func (p *functionCompiler) compileWhile(e *ast.While, dst uint) {
	var head = uint(len(p.code))
	//
	cond, tmp := p.compileOperand(e.Cond)
	exit := p.emit(bytecode.NewJumpZero(cond, 0))
	p.release(tmp)
	//
	if len(e.Body) > 0 {
		scratch := p.alloc.Acquire()
		p.compileSequence(e.Body, scratch.Index())
		p.alloc.Release(scratch)
	}
	//
	p.emit(bytecode.NewJump(head))
	p.patch(exit)
	p.emit(bytecode.NewConst(dst, 0))
}

// Compile a function literal into a closure.  Variables of this function used
// within the literal are captured by value and, hence, their registers are
// made persistent.
func (p *functionCompiler) compileLambda(e *ast.Lambda, dst uint) {
	var (
		captures []string
		regs     []uint
		name     = fmt.Sprintf("%s$fn%d", p.name, p.lambdas)
	)
	//
	p.lambdas++
	//
	for _, n := range ast.FreeVariables(e) {
		if v := p.scope.lookup(n); v != nil {
			p.alloc.Persist(v.reg)
			captures = append(captures, n)
			regs = append(regs, v.reg.Index())
		}
	}
	// Reserve the function's index before compiling its body, so that nested
	// literals are numbered after it.
	index := p.compiler.program.Reserve(name)
	p.compiler.program.Functions[index] = newFunctionCompiler(p.compiler, name).compile(e.Params, captures, e.Body)
	//
	p.emit(bytecode.NewClosure(dst, index, regs...))
}

// Compile a (left-folded) binary operation.
func (p *functionCompiler) compileBinary(e *ast.Binary, dst uint) {
	var (
		op       = opcode(e.Op)
		lhs, tmp = p.compileOperand(e.Args[0], e.Args[1])
	)
	//
	for i, arg := range e.Args[1:] {
		rhs, rtmp := p.compileOperand(arg)
		p.emit(bytecode.NewBinary(op, dst, lhs, rhs))
		p.release(rtmp)
		//
		if i == 0 {
			p.release(tmp)
		}
		//
		lhs = dst
	}
}

func (p *functionCompiler) compileCall(e *ast.Call, dst uint) {
	// Check for direct call
	if v, ok := e.Callee.(*ast.Var); ok && p.scope.lookup(v.Name) == nil {
		f, ok := p.compiler.functions[v.Name]
		//
		if !ok {
			p.compiler.error(e, fmt.Sprintf("unknown function \"%s\"", v.Name))
			return
		} else if len(f.decl.Params) != len(e.Args) {
			p.compiler.error(e, fmt.Sprintf("function \"%s\" expects %d argument(s), found %d", v.Name,
				len(f.decl.Params), len(e.Args)))
			return
		}
		//
		args, temps := p.compileOperands(e.Args)
		p.emit(bytecode.NewCall(dst, f.index, args...))
		p.releaseAll(temps)
		//
		return
	}
	// Indirect call through closure
	closure, tmp := p.compileOperand(e.Callee, e.Args...)
	args, temps := p.compileOperands(e.Args)
	p.emit(bytecode.NewInvoke(dst, closure, args...))
	p.releaseAll(temps)
	p.release(tmp)
}

// Compile a sequence of operands evaluated left to right, returning their
// registers along with any temporaries which must be released once they have
// been used.
func (p *functionCompiler) compileOperands(exprs []ast.Expr) ([]uint, []*regalloc.Register) {
	var (
		regs  = make([]uint, len(exprs))
		temps []*regalloc.Register
	)
	//
	for i, e := range exprs {
		reg, tmp := p.compileOperand(e, exprs[i+1:]...)
		regs[i] = reg
		//
		if tmp != nil {
			temps = append(temps, tmp)
		}
	}
	//
	return regs, temps
}

// Compile an expression used as an operand, returning the register holding its
// value.  A variable is used directly from its own register, unless an
// expression evaluated after it (but before its use) could assign it.
// Otherwise, the value is computed into a temporary register which is also
// returned, and must be released by the caller after its use.
func (p *functionCompiler) compileOperand(expr ast.Expr, later ...ast.Expr) (uint, *regalloc.Register) {
	if e, ok := expr.(*ast.Var); ok {
		if v := p.scope.lookup(e.Name); v != nil && !anyAssignment(later) {
			return v.reg.Index(), nil
		}
	}
	//
	tmp := p.alloc.Acquire()
	p.compileExpr(expr, tmp.Index())
	//
	return tmp.Index(), tmp
}

func (p *functionCompiler) declare(name string, reg *regalloc.Register, captured bool) {
	p.scope.vars = append(p.scope.vars, &variable{name, reg, captured})
}

// Run a given compilation step, checking that it leaks no registers (if
// enabled).
func (p *functionCompiler) scoped(step func()) {
	if !p.compiler.options.Checkpoints {
		step()
		return
	}
	//
	cp := p.alloc.Checkpoint()
	step()
	p.alloc.Verify(cp)
}

func (p *functionCompiler) release(reg *regalloc.Register) {
	if reg != nil {
		p.alloc.Release(reg)
	}
}

func (p *functionCompiler) releaseAll(regs []*regalloc.Register) {
	for _, reg := range regs {
		p.alloc.Release(reg)
	}
}

func (p *functionCompiler) move(dst uint, src uint) {
	if dst != src {
		p.emit(bytecode.NewMove(dst, src))
	}
}

// Emit an instruction, returning its position.
func (p *functionCompiler) emit(insn bytecode.Instruction) uint {
	p.code = append(p.code, insn)
	return uint(len(p.code) - 1)
}

// Patch the branch at a given position to target the next instruction.
func (p *functionCompiler) patch(pc uint) {
	p.code[pc].Imm = int64(len(p.code))
}

func anyAssignment(exprs []ast.Expr) bool {
	for _, e := range exprs {
		if ast.HasAssignment(e) {
			return true
		}
	}
	//
	return false
}

func opcode(op ast.Operator) bytecode.Opcode {
	switch op {
	case ast.ADD:
		return bytecode.ADD
	case ast.SUB:
		return bytecode.SUB
	case ast.MUL:
		return bytecode.MUL
	case ast.DIV:
		return bytecode.DIV
	case ast.REM:
		return bytecode.REM
	case ast.LT:
		return bytecode.LT
	case ast.LTEQ:
		return bytecode.LE
	case ast.GT:
		return bytecode.GT
	case ast.GTEQ:
		return bytecode.GE
	case ast.EQ:
		return bytecode.EQ
	case ast.NEQ:
		return bytecode.NE
	default:
		panic(fmt.Sprintf("unknown operator %s", op))
	}
}
