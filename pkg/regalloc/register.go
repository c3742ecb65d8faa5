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
package regalloc

import "fmt"

// Register is a handle issued by an Allocator which names exactly one slot in
// the allocator's pool.  There is exactly one live handle for every slot in use.
// A handle must either be returned to its allocator via Release, or be made
// persistent (either at acquisition or by promotion).  A handle is never copied
// by value; it is always passed around by pointer so that its ownership remains
// unique.
type Register struct {
	// Allocator which issued this handle.
	allocator *Allocator
	// Index of the slot named by this handle.
	index uint
	// Snapshot of the slot's persistence.
	persistent bool
	// Set once this handle has been returned to its allocator.
	released bool
}

// Index returns the slot index named by this register.  This is the operand
// embedded in emitted instructions.
func (p *Register) Index() uint {
	return p.index
}

// IsPersistent determines whether this register is persistent and, hence, can
// never be released.
func (p *Register) IsPersistent() bool {
	return p.persistent
}

// IsReleased determines whether this register has already been released.
func (p *Register) IsReleased() bool {
	return p.released
}

func (p *Register) String() string {
	return fmt.Sprintf("r%d", p.index)
}
