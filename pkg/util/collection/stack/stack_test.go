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
package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Stack_01(t *testing.T) {
	s := NewStack[int]()
	assert.True(t, s.IsEmpty())
	assert.True(t, s.Push(1))
	assert.True(t, s.Push(2))
	assert.Equal(t, uint(2), s.Len())
	assert.Equal(t, 2, s.Peek(0))
	assert.Equal(t, 1, s.Peek(1))
	assert.Equal(t, 2, s.Pop())
	assert.Equal(t, 1, s.Pop())
	assert.True(t, s.IsEmpty())
}

func Test_Stack_02(t *testing.T) {
	s := NewStack[string]()
	assert.PanicsWithValue(t, "cannot pop from empty stack", func() { s.Pop() })
	assert.PanicsWithValue(t, "peek out-of-bounds", func() { s.Peek(0) })
}

func Test_Stack_03(t *testing.T) {
	s := NewBoundedStack[int](2)
	assert.True(t, s.Push(1))
	assert.False(t, s.IsFull())
	assert.True(t, s.Push(2))
	assert.True(t, s.IsFull())
	// Full stack is unchanged by push
	assert.False(t, s.Push(3))
	assert.Equal(t, uint(2), s.Len())
	assert.Equal(t, 2, s.Peek(0))
	// Popping makes room again
	s.Pop()
	assert.False(t, s.IsFull())
	assert.True(t, s.Push(4))
	assert.Equal(t, 4, s.Peek(0))
}

func Test_Stack_04(t *testing.T) {
	// Unbounded stacks are never full
	s := NewBoundedStack[int](0)
	//
	for i := 0; i < 100; i++ {
		assert.True(t, s.Push(i))
	}
	//
	assert.False(t, s.IsFull())
}
