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

	"github.com/consensys/go-regc/pkg/ast"
	"github.com/consensys/go-regc/pkg/bytecode"
	"github.com/consensys/go-regc/pkg/util/source"
)

// Options configures the compilation process.
type Options struct {
	// Checkpoints enables verification, at every scope boundary, that no
	// temporary register acquired within the scope has leaked.  This is useful
	// for catching bugs in the code generator as close to their source as
	// possible.
	Checkpoints bool
}

// DefaultOptions returns the default compilation options.
func DefaultOptions() Options {
	return Options{Checkpoints: true}
}

// Compile takes a given set of source files, parses them and compiles every
// function they declare into a single program.  This can result, for example,
// in one or more syntax errors (e.g. an unknown variable), in which case no
// program is returned.
func Compile(options Options, files ...source.File) (*bytecode.Program, []source.SyntaxError) {
	var (
		functions []*ast.Function
		errors    []source.SyntaxError
		srcmaps   = source.NewSourceMaps[ast.Node]()
	)
	// Parse each file in turn.
	for i := range files {
		fns, srcmap, errs := ast.Parse(&files[i])
		//
		if len(errs) == 0 {
			functions = append(functions, fns...)
			srcmaps.Join(srcmap)
		}
		//
		errors = append(errors, errs...)
	}
	//
	if len(errors) != 0 {
		return nil, errors
	}
	//
	return CompileProgram(options, ast.Program{Functions: functions}, srcmaps)
}

// CompileProgram compiles a program which has already been parsed.  The source
// maps must contain every node of the program, such that errors can be
// reported against their origin.
func CompileProgram(options Options, program ast.Program, srcmaps *source.Maps[ast.Node]) (*bytecode.Program,
	[]source.SyntaxError) {
	//
	c := &Compiler{
		options:   options,
		program:   bytecode.NewProgram(),
		srcmaps:   srcmaps,
		functions: make(map[string]topLevel),
	}
	// Reserve top-level functions first, so they can refer to each other
	// regardless of declaration order.
	for _, fn := range program.Functions {
		if _, ok := c.functions[fn.Name]; ok {
			c.error(fn, fmt.Sprintf("duplicate function \"%s\"", fn.Name))
			continue
		}
		//
		c.functions[fn.Name] = topLevel{fn, c.program.Reserve(fn.Name)}
	}
	//
	for _, fn := range program.Functions {
		if f := c.functions[fn.Name]; f.decl == fn {
			c.program.Functions[f.index] = newFunctionCompiler(c, fn.Name).compile(fn.Params, nil, fn.Body)
		}
	}
	//
	if len(c.errors) != 0 {
		return nil, c.errors
	}
	// Sanity check generated code.
	if errs := bytecode.Validate(c.program); len(errs) != 0 {
		panic(fmt.Sprintf("invalid code generated: %s", errs[0]))
	}
	//
	return c.program, nil
}

// Compiler maintains the state shared across all functions of a program whilst
// it is being compiled.
type Compiler struct {
	options Options
	// Program being constructed
	program *bytecode.Program
	// Source maps for error reporting
	srcmaps *source.Maps[ast.Node]
	// Top-level functions by name
	functions map[string]topLevel
	// Errors encountered
	errors []source.SyntaxError
}

func (p *Compiler) error(node ast.Node, msg string) {
	p.errors = append(p.errors, *p.srcmaps.SyntaxError(node, msg))
}

// topLevel associates a top-level function declaration with its index in the
// program being constructed.
type topLevel struct {
	decl  *ast.Function
	index uint
}
