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
package ast

import (
	"fmt"
	"strings"
)

// Expr represents an expression within the body of a function.  Every
// expression produces a value.
type Expr interface {
	Node
	// Children returns the immediate subexpressions of this expression, in
	// evaluation order.
	Children() []Expr
}

// Operator identifies a built-in binary operator.
type Operator uint8

const (
	// ADD represents integer addition
	ADD Operator = iota
	// SUB represents integer subtraction
	SUB
	// MUL represents integer multiplication
	MUL
	// DIV represents (truncated) integer division
	DIV
	// REM represents (truncated) integer remainder
	REM
	// LT represents a strict less-than comparison
	LT
	// LTEQ represents a non-strict less-than comparison
	LTEQ
	// GT represents a strict greater-than comparison
	GT
	// GTEQ represents a non-strict greater-than comparison
	GTEQ
	// EQ represents an equality comparison
	EQ
	// NEQ represents a non-equality comparison
	NEQ
)

var operators = []string{"+", "-", "*", "/", "%", "<", "<=", ">", ">=", "==", "!="}

// IsComparison determines whether this operator is a comparison, and hence
// accepts exactly two operands.
func (p Operator) IsComparison() bool {
	return p >= LT
}

func (p Operator) String() string {
	return operators[p]
}

// LookupOperator determines the operator for a given symbol, if there is one.
func LookupOperator(symbol string) (Operator, bool) {
	for i, s := range operators {
		if s == symbol {
			return Operator(i), true
		}
	}
	//
	return 0, false
}

// Const represents a constant integer value.
type Const struct {
	Value int64
}

// Children implementation for Expr interface.
func (p *Const) Children() []Expr { return nil }

func (p *Const) String() string { return fmt.Sprintf("%d", p.Value) }

// Var represents a read of a variable, or a reference to a top-level function
// (when no variable of that name is in scope).
type Var struct {
	Name string
}

// Children implementation for Expr interface.
func (p *Var) Children() []Expr { return nil }

func (p *Var) String() string { return p.Name }

// Binding associates a variable name with its initialising expression.
type Binding struct {
	Name  string
	Value Expr
}

// Let introduces one or more local variables which are in scope for the
// remaining bindings, and the body.
type Let struct {
	Bindings []Binding
	Body     []Expr
}

// Children implementation for Expr interface.
func (p *Let) Children() []Expr {
	var children []Expr
	//
	for _, b := range p.Bindings {
		children = append(children, b.Value)
	}
	//
	return append(children, p.Body...)
}

func (p *Let) String() string {
	var bindings = make([]string, len(p.Bindings))
	//
	for i, b := range p.Bindings {
		bindings[i] = fmt.Sprintf("(%s %s)", b.Name, b.Value.String())
	}
	//
	return fmt.Sprintf("(let (%s) %s)", strings.Join(bindings, " "), joinExprs(p.Body))
}

// Assign updates a local variable (or parameter) with a new value, whilst also
// producing that value.
type Assign struct {
	Name  string
	Value Expr
}

// Children implementation for Expr interface.
func (p *Assign) Children() []Expr { return []Expr{p.Value} }

func (p *Assign) String() string {
	return fmt.Sprintf("(set %s %s)", p.Name, p.Value.String())
}

// If represents a conditional expression.  When the else branch is omitted, it
// produces zero.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Children implementation for Expr interface.
func (p *If) Children() []Expr {
	if p.Else == nil {
		return []Expr{p.Cond, p.Then}
	}
	//
	return []Expr{p.Cond, p.Then, p.Else}
}

func (p *If) String() string {
	if p.Else == nil {
		return fmt.Sprintf("(if %s %s)", p.Cond.String(), p.Then.String())
	}
	//
	return fmt.Sprintf("(if %s %s %s)", p.Cond.String(), p.Then.String(), p.Else.String())
}

// While represents a loop which executes its body whilst the condition is
// non-zero.  It produces zero.
type While struct {
	Cond Expr
	Body []Expr
}

// Children implementation for Expr interface.
func (p *While) Children() []Expr { return append([]Expr{p.Cond}, p.Body...) }

func (p *While) String() string {
	if len(p.Body) == 0 {
		return fmt.Sprintf("(while %s)", p.Cond.String())
	}
	//
	return fmt.Sprintf("(while %s %s)", p.Cond.String(), joinExprs(p.Body))
}

// Block evaluates a sequence of expressions, producing the value of the last.
type Block struct {
	Body []Expr
}

// Children implementation for Expr interface.
func (p *Block) Children() []Expr { return p.Body }

func (p *Block) String() string { return fmt.Sprintf("(do %s)", joinExprs(p.Body)) }

// Lambda represents a nested function literal, which produces a closure.  Any
// variables of enclosing functions used within the body are captured by value
// when the closure is created.
type Lambda struct {
	Params []string
	Body   []Expr
}

// Children implementation for Expr interface.
func (p *Lambda) Children() []Expr { return p.Body }

func (p *Lambda) String() string {
	return fmt.Sprintf("(fn (%s) %s)", strings.Join(p.Params, " "), joinExprs(p.Body))
}

// Binary represents a built-in operator applied to two or more arguments.
// Arithmetic operators are folded from the left.
type Binary struct {
	Op   Operator
	Args []Expr
}

// Children implementation for Expr interface.
func (p *Binary) Children() []Expr { return p.Args }

func (p *Binary) String() string {
	return fmt.Sprintf("(%s %s)", p.Op.String(), joinExprs(p.Args))
}

// Not represents logical negation, producing one if its argument is zero and
// zero otherwise.
type Not struct {
	Arg Expr
}

// Children implementation for Expr interface.
func (p *Not) Children() []Expr { return []Expr{p.Arg} }

func (p *Not) String() string { return fmt.Sprintf("(not %s)", p.Arg.String()) }

// Call represents a function call.  The callee is either the name of a
// top-level function, or an arbitrary expression producing a closure.
type Call struct {
	Callee Expr
	Args   []Expr
}

// Children implementation for Expr interface.
func (p *Call) Children() []Expr { return append([]Expr{p.Callee}, p.Args...) }

func (p *Call) String() string {
	if len(p.Args) == 0 {
		return fmt.Sprintf("(%s)", p.Callee.String())
	}
	//
	return fmt.Sprintf("(%s %s)", p.Callee.String(), joinExprs(p.Args))
}

func joinExprs(exprs []Expr) string {
	var strs = make([]string, len(exprs))
	//
	for i, e := range exprs {
		strs[i] = e.String()
	}
	//
	return strings.Join(strs, " ")
}
