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
package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Line_01(t *testing.T) {
	file := NewSourceFile("test", []byte("ab\ncd\nef"))
	//
	check_Line(t, file, NewSpan(0, 1), 1, 0, "ab")
	check_Line(t, file, NewSpan(4, 5), 2, 3, "cd")
	check_Line(t, file, NewSpan(6, 8), 3, 6, "ef")
	// Beyond end of file gives last line
	check_Line(t, file, NewSpan(100, 100), 3, 6, "ef")
	// Lines and spans are usable without being stored first
	assert.Equal(t, 2, file.FindFirstEnclosingLine(NewSpan(3, 4)).Number())
	assert.Equal(t, 2, file.FindFirstEnclosingLine(NewSpan(3, 4)).Length())
}

func Test_Span_01(t *testing.T) {
	span := NewSpan(2, 7)
	assert.Equal(t, 2, span.Start())
	assert.Equal(t, 7, span.End())
	assert.Equal(t, 5, span.Length())
	assert.Equal(t, 0, NewSpan(3, 3).Length())
	assert.PanicsWithValue(t, "invalid span", func() { NewSpan(3, 2) })
}

func Test_SyntaxError_01(t *testing.T) {
	file := NewSourceFile("test.src", []byte("(defun f ()\n  (g))"))
	err := file.SyntaxError(NewSpan(14, 17), "unknown function")
	//
	assert.Equal(t, "test.src:2:3: unknown function", err.Error())
	assert.Equal(t, "unknown function", err.Message())
	assert.Equal(t, 14, err.Span().Start())
	assert.Equal(t, 3, err.Span().Length())
	assert.Equal(t, "  (g))", err.FirstEnclosingLine().String())
	assert.Same(t, file, err.SourceFile())
}

func Test_Map_01(t *testing.T) {
	file := NewSourceFile("test", []byte("hello world"))
	srcmap := NewSourceMap[string](file)
	srcmap.Put("hello", NewSpan(0, 5))
	//
	assert.Same(t, file, srcmap.Source())
	assert.True(t, srcmap.Has("hello"))
	assert.False(t, srcmap.Has("world"))
	assert.Equal(t, NewSpan(0, 5), srcmap.Get("hello"))
	assert.Equal(t, "test:1:1: greeting", srcmap.SyntaxError("hello", "greeting").Error())
	//
	assert.Panics(t, func() { srcmap.Put("hello", NewSpan(6, 11)) })
	assert.Panics(t, func() { srcmap.Get("world") })
}

func Test_Map_02(t *testing.T) {
	file := NewSourceFile("test", []byte("1 2 3"))
	from := NewSourceMap[int](file)
	from.Put(1, NewSpan(0, 1))
	from.Put(3, NewSpan(4, 5))
	//
	to := NewSourceMap[string](file)
	JoinMaps(to, from, func(i int) string { return string(rune('a' + i)) })
	//
	assert.Equal(t, NewSpan(0, 1), to.Get("b"))
	assert.Equal(t, NewSpan(4, 5), to.Get("d"))
	assert.False(t, to.Has("c"))
}

func Test_Maps_01(t *testing.T) {
	var (
		a     = NewSourceFile("a", []byte("first"))
		b     = NewSourceFile("b", []byte("one\nsecond"))
		amap  = NewSourceMap[string](a)
		bmap  = NewSourceMap[string](b)
		maps  = NewSourceMaps[string]()
		first = "first"
	)
	//
	amap.Put(first, NewSpan(0, 5))
	bmap.Put("second", NewSpan(4, 10))
	maps.Join(amap)
	maps.Join(bmap)
	//
	assert.True(t, maps.Has(first))
	assert.True(t, maps.Has("second"))
	assert.False(t, maps.Has("third"))
	// Errors are reported against the file containing the node
	err := maps.SyntaxError("second", "oops")
	assert.Equal(t, "b", err.SourceFile().Filename())
	assert.Equal(t, "b:2:1: oops", err.Error())
	//
	errs := maps.SyntaxErrors(first, "bad")
	require.Len(t, errs, 1)
	assert.Equal(t, "a:1:1: bad", errs[0].Error())
	//
	assert.PanicsWithValue(t, "missing mapping for source node", func() { maps.SyntaxError("third", "") })
}

func Test_ReadFiles_01(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.src")
	require.NoError(t, os.WriteFile(a, []byte("(defun f () 1)"), 0o600))
	//
	files, err := ReadFiles(a)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, a, files[0].Filename())
	assert.Equal(t, []rune("(defun f () 1)"), files[0].Contents())
	//
	_, err = ReadFiles(a, filepath.Join(dir, "missing.src"))
	assert.Error(t, err)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Line(t *testing.T, file *File, span Span, number int, start int, text string) {
	line := file.FindFirstEnclosingLine(span)
	//
	assert.Equal(t, number, line.Number())
	assert.Equal(t, start, line.Start())
	assert.Equal(t, text, line.String())
}
