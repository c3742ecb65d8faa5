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

import "strings"

// Node represents any node in the syntax tree which can be associated with a
// span in the original source file.
type Node interface {
	String() string
}

// Program represents a set of top-level function declarations, possibly drawn
// from multiple source files.
type Program struct {
	Functions []*Function
}

// Function finds the top-level function with the given name, returning false
// if no such function exists.
func (p *Program) Function(name string) (*Function, bool) {
	for _, f := range p.Functions {
		if f.Name == name {
			return f, true
		}
	}
	//
	return nil, false
}

// Function represents a top-level function declaration of the form
// "(defun name (params...) body...)".
type Function struct {
	Name   string
	Params []string
	Body   []Expr
}

// NewFunction constructs a new top-level function declaration.
func NewFunction(name string, params []string, body ...Expr) *Function {
	if len(body) == 0 {
		panic("function body cannot be empty")
	}
	//
	return &Function{name, params, body}
}

func (p *Function) String() string {
	var builder strings.Builder
	//
	builder.WriteString("(defun ")
	builder.WriteString(p.Name)
	builder.WriteString(" (")
	builder.WriteString(strings.Join(p.Params, " "))
	builder.WriteString(")")
	//
	for _, e := range p.Body {
		builder.WriteString(" ")
		builder.WriteString(e.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
