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

// Stack is an array-backed LIFO stack, which can optionally be bounded.  A
// bounded stack refuses pushes once it holds limit items, which allows callers
// to report overflow (e.g. excessive call depth) as an ordinary error.
type Stack[T any] struct {
	items []T
	// Maximum number of items (zero for unbounded)
	limit uint
}

// NewStack returns an empty, unbounded stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// NewBoundedStack returns an empty stack which holds at most limit items.  A
// limit of zero gives an unbounded stack.
func NewBoundedStack[T any](limit uint) *Stack[T] {
	return &Stack[T]{limit: limit}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return len(p.items) == 0
}

// IsFull checks whether a bounded stack has reached its limit.  An unbounded
// stack is never full.
func (p *Stack[T]) IsFull() bool {
	return p.limit != 0 && uint(len(p.items)) >= p.limit
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Peek at nth item from top of stack.
func (p *Stack[T]) Peek(offset uint) T {
	var n = len(p.items) - int(offset) - 1
	//
	if n < 0 {
		panic("peek out-of-bounds")
	}
	//
	return p.items[n]
}

// Push an item onto the stack, returning false (and leaving the stack
// unchanged) if the stack is full.
func (p *Stack[T]) Push(item T) bool {
	if p.IsFull() {
		return false
	}
	//
	p.items = append(p.items, item)
	//
	return true
}

// Pop the topmost item off the stack.
func (p *Stack[T]) Pop() T {
	var (
		n     = len(p.items)
		empty T
	)
	//
	if n == 0 {
		panic("cannot pop from empty stack")
	}
	//
	item := p.items[n-1]
	// Clear slot so popped items can be collected.
	p.items[n-1] = empty
	p.items = p.items[:n-1]
	//
	return item
}
