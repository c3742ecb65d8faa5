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
	"testing"

	"github.com/consensys/go-regc/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_01(t *testing.T) {
	check_Parse(t, "(defun f () 1)", "(defun f () 1)")
}

func Test_Parse_02(t *testing.T) {
	check_Parse(t, "(defun add (x y) (+ x y))", "(defun add (x y) (+ x y))")
}

func Test_Parse_03(t *testing.T) {
	check_Parse(t, "(defun f (n) (let ((x 0x10) (y (* x n))) (set x y) x))",
		"(defun f (n) (let ((x 16) (y (* x n))) (set x y) x))")
}

func Test_Parse_04(t *testing.T) {
	check_Parse(t, "(defun f (n) (if (< n 2) n) (while n (set n (- n 1))) (do -1 +2))",
		"(defun f (n) (if (< n 2) n) (while n (set n (- n 1))) (do -1 2))")
}

func Test_Parse_05(t *testing.T) {
	check_Parse(t, "(defun f (k) ((fn (x) (not (== x k))) 3) (g))",
		"(defun f (k) ((fn (x) (not (== x k))) 3) (g))")
}

func Test_Parse_06(t *testing.T) {
	file := source.NewSourceFile("test", []byte("(defun f () 1)\n(defun g (a b c) a)"))
	fns, srcmap, errs := Parse(file)
	require.Empty(t, errs)
	require.Len(t, fns, 2)
	assert.Equal(t, "g", fns[1].Name)
	assert.Equal(t, []string{"a", "b", "c"}, fns[1].Params)
	// Every node has a span
	span := srcmap.Get(fns[1].Body[0])
	assert.Equal(t, 32, span.Start())
}

func Test_ParseError_01(t *testing.T) {
	check_ParseError(t, "(defun f ()", "unexpected end-of-file")
}

func Test_ParseError_02(t *testing.T) {
	check_ParseError(t, "(f 1)", "expected function declaration (defun name (params...) body...)")
}

func Test_ParseError_03(t *testing.T) {
	check_ParseError(t, "(defun f (x x) x)", "duplicate parameter \"x\"")
}

func Test_ParseError_04(t *testing.T) {
	check_ParseError(t, "(defun f () (< 1 2 3))", "operator < requires exactly two arguments")
}

func Test_ParseError_05(t *testing.T) {
	check_ParseError(t, "(defun f () (+ 1))", "operator + requires at least two arguments")
}

func Test_ParseError_06(t *testing.T) {
	check_ParseError(t, "(defun f () (let ((if 1)) 2))", "reserved word \"if\" cannot be used as a name")
}

func Test_ParseError_07(t *testing.T) {
	check_ParseError(t, "(defun f () 12abc)", "invalid integer literal \"12abc\"")
}

func Test_ParseError_08(t *testing.T) {
	check_ParseError(t, "(defun f () ())", "empty expression")
}

func Test_ParseError_09(t *testing.T) {
	check_ParseError(t, "(defun f () (defun g () 1))", "function declarations are only permitted at the top level")
}

func Test_ParseError_10(t *testing.T) {
	check_ParseError(t, "(defun f ())", "function declaration requires name, parameters and body")
}

func Test_FreeVariables_01(t *testing.T) {
	check_FreeVariables(t, "(+ x y)", nil, "x", "y")
}

func Test_FreeVariables_02(t *testing.T) {
	check_FreeVariables(t, "(+ x y)", []string{"x"}, "y")
}

func Test_FreeVariables_03(t *testing.T) {
	check_FreeVariables(t, "(let ((a b) (c a)) (+ a c d))", nil, "b", "d")
}

func Test_FreeVariables_04(t *testing.T) {
	check_FreeVariables(t, "(fn (x) (+ x (g y) (set z x)))", nil, "g", "y", "z")
}

func Test_FreeVariables_05(t *testing.T) {
	// Bindings are only in scope after their definition
	check_FreeVariables(t, "(let ((a a)) a)", nil, "a")
}

func Test_HasAssignment_01(t *testing.T) {
	assert.False(t, HasAssignment(parseExpr(t, "(+ x (g y))")))
	assert.True(t, HasAssignment(parseExpr(t, "(+ x (do (set y 1) y))")))
	assert.False(t, HasAssignment(parseExpr(t, "(fn () (set y 1))")))
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Parse(t *testing.T, input string, expected string) {
	t.Helper()
	//
	fns, _, errs := Parse(source.NewSourceFile("test", []byte(input)))
	require.Empty(t, errs)
	require.Len(t, fns, 1)
	assert.Equal(t, expected, fns[0].String())
}

func check_ParseError(t *testing.T, input string, msg string) {
	t.Helper()
	//
	_, _, errs := Parse(source.NewSourceFile("test", []byte(input)))
	require.NotEmpty(t, errs)
	assert.Equal(t, msg, errs[0].Message())
}

func check_FreeVariables(t *testing.T, input string, bound []string, expected ...string) {
	t.Helper()
	//
	assert.Equal(t, expected, FreeVariables(parseExpr(t, input), bound...))
}

// Parse a single expression by wrapping it in a function body.
func parseExpr(t *testing.T, input string) Expr {
	t.Helper()
	//
	fns, _, errs := Parse(source.NewSourceFile("test", []byte("(defun test () "+input+")")))
	require.Empty(t, errs)
	//
	return fns[0].Body[0]
}
