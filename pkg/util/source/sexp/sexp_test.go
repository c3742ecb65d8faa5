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
package sexp

import (
	"testing"

	"github.com/consensys/go-regc/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSexp_01(t *testing.T) {
	check_Ok(t, "()", "()")
}

func TestSexp_02(t *testing.T) {
	check_Ok(t, "(())", "(())")
}

func TestSexp_03(t *testing.T) {
	check_Ok(t, "symbol", "symbol")
}

func TestSexp_04(t *testing.T) {
	check_Ok(t, "  (+ 1   -2) ", "(+ 1 -2)")
}

func TestSexp_05(t *testing.T) {
	check_Ok(t, "(defun f (x) ; comment\n (* x x))", "(defun f (x) (* x x))")
}

func TestSexp_06(t *testing.T) {
	check_Ok(t, "(a(b)c)", "(a (b) c)")
}

func TestSexp_07(t *testing.T) {
	check_Err(t, "(", "unexpected end-of-file")
}

func TestSexp_08(t *testing.T) {
	check_Err(t, ")", "unexpected end-of-list")
}

func TestSexp_09(t *testing.T) {
	check_Err(t, "(a) b", "unexpected remainder")
}

func TestSexp_10(t *testing.T) {
	file := source.NewSourceFile("test", []byte("(a b)\n;; c\n(d)"))
	terms, srcmap, err := ParseAll(file)
	require.Nil(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "(d)", terms[1].String())
	span := srcmap.Get(terms[1])
	assert.Equal(t, 11, span.Start())
	assert.Equal(t, 14, span.End())
	// Error lines are reported from one
	serr := srcmap.SyntaxError(terms[1], "oops")
	line := serr.FirstEnclosingLine()
	assert.Equal(t, 3, line.Number())
	assert.Equal(t, "test:3:1: oops", serr.Error())
}

func TestSexp_11(t *testing.T) {
	l := NewList([]SExp{NewSymbol("let"), NewList(nil)})
	assert.Equal(t, "let", l.Head())
	assert.True(t, l.MatchSymbols(2, "let"))
	assert.False(t, l.MatchSymbols(3, "let"))
	assert.False(t, l.MatchSymbols(2, "fn"))
	assert.Equal(t, "", NewList(nil).Head())
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Ok(t *testing.T, input string, expected string) {
	t.Helper()
	//
	term, _, err := Parse(source.NewSourceFile("test", []byte(input)))
	require.Nil(t, err)
	assert.Equal(t, expected, term.String())
}

func check_Err(t *testing.T, input string, msg string) {
	t.Helper()
	//
	_, _, err := Parse(source.NewSourceFile("test", []byte(input)))
	require.NotNil(t, err)
	assert.Equal(t, msg, err.Message())
}
