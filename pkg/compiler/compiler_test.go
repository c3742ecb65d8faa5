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
	"testing"

	"github.com/consensys/go-regc/pkg/bytecode"
	"github.com/consensys/go-regc/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile_01(t *testing.T) {
	check_Listing(t, "(defun square (x) (* x x))", `fn square(r0) frame=2 {
[0]	mul r1, r0, r0
[1]	ret r1
}
`)
}

func Test_Compile_02(t *testing.T) {
	// Nested function literals are compiled with their own allocator, hence
	// their frames are independent of the enclosing function.
	check_Listing(t, "(defun outer (a) (let ((b 1)) (fn (x) (+ x b))))", `fn outer(r0) frame=3 {
[0]	const r2, 1
[1]	closure r1, outer$fn0, r2
[2]	ret r1
}

fn outer$fn0(r0) [r1] frame=3 {
[0]	add r2, r0, r1
[1]	ret r2
}
`)
}

func Test_Compile_03(t *testing.T) {
	// Temporaries are reused once released.
	check_Listing(t, "(defun f (a) (+ (* a 2) (* a 3)))", `fn f(r0) frame=5 {
[0]	const r3, 2
[1]	mul r2, r0, r3
[2]	const r4, 3
[3]	mul r3, r0, r4
[4]	add r1, r2, r3
[5]	ret r1
}
`)
}

func Test_Compile_04(t *testing.T) {
	program := check_Compile(t, "(defun fact (n) (if (<= n 1) 1 (* n (fact (- n 1)))))")
	fn := program.Function(0)
	//
	assert.Equal(t, uint(1), fn.NumParams)
	assert.Equal(t, uint(5), fn.FrameSize)
}

func Test_Compile_05(t *testing.T) {
	// Functions can be referred to before their declaration.
	program := check_Compile(t, "(defun f (x) (g x)) (defun g (y) (fn () y)) (defun h () (fn () (fn () 1)))")
	//
	assert.Equal(t, []string{"f", "g", "h", "g$fn0", "h$fn0", "h$fn0$fn0"}, names(program))
	assert.Equal(t, "call r1, g, r0", program.Function(0).Code[0].Format(program))
	// Captured parameter is copied into the closure
	assert.Equal(t, "closure r1, g$fn0, r0", program.Function(1).Code[0].Format(program))
}

func Test_Compile_06(t *testing.T) {
	// Variable operand copied when a later operand assigns it.
	check_Listing(t, "(defun f (i) (+ i (set i 5)))", `fn f(r0) frame=4 {
[0]	move r2, r0
[1]	const r3, 5
[2]	move r0, r3
[3]	add r1, r2, r3
[4]	ret r1
}
`)
}

func Test_Compile_07(t *testing.T) {
	// Checkpoints have no effect on generated code.
	input := `(defun sum (n)
	  (let ((acc 0) (i 0))
	    (while (< i n) (set i (+ i 1)) (set acc (+ acc i)))
	    acc))
	(defun k (a b) (let ((c (fn (x) (+ x a b)))) (c (c 1))))`
	//
	with := check_CompileWith(t, Options{Checkpoints: true}, input)
	without := check_CompileWith(t, Options{Checkpoints: false}, input)
	//
	assert.Equal(t, with, without)
}

func Test_Compile_08(t *testing.T) {
	// Every generated function fits within its frame.
	program := check_Compile(t, `
	(defun a (x y z) (if (< x y) (+ x y z) (do (set x (* x 2)) (- x z))))
	(defun b (n) (let ((f (fn (k) (* k n))) (g (fn (k) (+ k n)))) (f (g (f n)))))
	(defun c (n) (while (not (== n 0)) (set n (- n 1)) (b n)))`)
	//
	assert.Empty(t, bytecode.Validate(program))
	//
	for _, fn := range program.Functions {
		assert.GreaterOrEqual(t, fn.FrameSize, fn.NumParams+fn.NumCaptures+1, fn.Name)
	}
}

func Test_Compile_09(t *testing.T) {
	// Multiple files
	a := source.NewSourceFile("a", []byte("(defun f () (g))"))
	b := source.NewSourceFile("b", []byte("(defun g () 1)"))
	program, errs := Compile(DefaultOptions(), *a, *b)
	//
	require.Empty(t, errs)
	assert.Equal(t, []string{"f", "g"}, names(program))
}

func Test_CompileError_01(t *testing.T) {
	check_CompileError(t, "(defun f () x)", "unknown variable \"x\"")
	check_CompileError(t, "(defun f () (set x 1))", "unknown variable \"x\"")
}

func Test_CompileError_02(t *testing.T) {
	check_CompileError(t, "(defun f () (g 1))", "unknown function \"g\"")
	check_CompileError(t, "(defun f () 1) (defun g () (f 1))", "function \"f\" expects 0 argument(s), found 1")
}

func Test_CompileError_03(t *testing.T) {
	check_CompileError(t, "(defun f () 1) (defun f () 2)", "duplicate function \"f\"")
}

func Test_CompileError_04(t *testing.T) {
	check_CompileError(t, "(defun f (x) (fn () (set x 1)))", "cannot assign captured variable \"x\"")
}

func Test_CompileError_05(t *testing.T) {
	a := source.NewSourceFile("a", []byte("(defun f () 1)"))
	b := source.NewSourceFile("b", []byte("(defun g ()\n  (h))"))
	_, errs := Compile(DefaultOptions(), *a, *b)
	//
	require.Len(t, errs, 1)
	assert.Equal(t, "b", errs[0].SourceFile().Filename())
	assert.Equal(t, 2, errs[0].FirstEnclosingLine().Number())
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Compile(t *testing.T, input string) *bytecode.Program {
	return check_CompileWith(t, Options{Checkpoints: true}, input)
}

func check_CompileWith(t *testing.T, options Options, input string) *bytecode.Program {
	file := source.NewSourceFile("test", []byte(input))
	program, errs := Compile(options, *file)
	//
	for _, err := range errs {
		t.Error(err.Error())
	}
	//
	require.NotNil(t, program)
	//
	return program
}

func check_Listing(t *testing.T, input string, expected string) {
	program := check_Compile(t, input)
	assert.Equal(t, expected, bytecode.Listing(program, false))
}

func check_CompileError(t *testing.T, input string, expected string) {
	file := source.NewSourceFile("test", []byte(input))
	program, errs := Compile(DefaultOptions(), *file)
	//
	assert.Nil(t, program)
	require.NotEmpty(t, errs)
	assert.Equal(t, expected, errs[0].Message())
}

func names(program *bytecode.Program) []string {
	var names []string
	//
	for _, fn := range program.Functions {
		names = append(names, fn.Name)
	}
	//
	return names
}
