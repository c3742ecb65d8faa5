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

import (
	"fmt"
	"strings"
)

// Allocator manages the pool of virtual registers used whilst compiling the
// body of exactly one function.  The pool grows on demand and never shrinks,
// hence its final size is the high-water mark of registers simultaneously in
// use, and determines the frame size needed to execute the function.  Free
// slots are always reused lowest index first, so allocation is deterministic.
type Allocator struct {
	slots    []slot
	finished bool
}

// New constructs an empty allocator for compiling one function body.
func New() *Allocator {
	return &Allocator{}
}

// Acquire a transient register.  The free slot with the lowest index is reused
// if one exists, otherwise the pool is extended by one slot.
func (p *Allocator) Acquire() *Register {
	p.checkNotFinished()
	//
	for i := range p.slots {
		if p.slots[i].state.IsUsed() {
			continue
		}
		// Found a free slot, so claim it.
		return p.claim(uint(i))
	}
	// No free slot, so grow the pool.
	p.slots = append(p.slots, slot{})
	//
	return p.claim(uint(len(p.slots) - 1))
}

// AcquirePersistent acquires a register which is immediately made persistent.
// This register can never be released, and its slot is never reused within this
// function.
func (p *Allocator) AcquirePersistent() *Register {
	reg := p.Acquire()
	p.Persist(reg)
	//
	return reg
}

// Persist promotes an outstanding register to be persistent.  The resulting
// state is identical to that of a register obtained via AcquirePersistent.
// Promoting a register which is already persistent has no effect.  There is no
// way to demote a persistent register.
func (p *Allocator) Persist(reg *Register) {
	p.checkNotFinished()
	p.checkOwned(reg, "persist")
	//
	if reg.released {
		panic(fmt.Sprintf("cannot persist released register %s", reg))
	}
	//
	p.slots[reg.index].state = PERSISTENT
	reg.persistent = true
}

// Release returns a transient register to the pool, making its slot available
// for reuse.  Releasing a persistent register, releasing a register twice, or
// releasing a register issued by another allocator are all fatal.
func (p *Allocator) Release(reg *Register) {
	p.checkNotFinished()
	p.checkOwned(reg, "release")
	//
	if reg.persistent {
		panic(fmt.Sprintf("cannot release persistent register %s", reg))
	} else if reg.released {
		panic(fmt.Sprintf("register %s released twice", reg))
	}
	//
	s := &p.slots[reg.index]
	//
	if !s.state.IsUsed() || s.owner != reg {
		panic(fmt.Sprintf("cannot release unused register %s", reg))
	}
	// Return slot to the pool
	s.state = FREE
	s.owner = nil
	reg.released = true
}

// Finish completes the allocation for this function, returning the number of
// slots needed in its frame.  The allocator cannot be used afterwards.  Unless
// compiled with the "release" tag, this panics if any transient register
// remains in use since this indicates a register which was never released.
func (p *Allocator) Finish() uint {
	p.checkNotFinished()
	//
	if checksEnabled {
		if leaked := p.transients(nil); len(leaked) > 0 {
			panic(leakMessage(leaked))
		}
	}
	//
	p.finished = true
	//
	return uint(len(p.slots))
}

// Size returns the number of slots created so far.  This is the frame size
// which Finish would report, if called now.
func (p *Allocator) Size() uint {
	return uint(len(p.slots))
}

// State returns the state of the slot with the given index.  Indices beyond the
// pool are free, since they would be created free on demand.
func (p *Allocator) State(index uint) State {
	if index >= uint(len(p.slots)) {
		return FREE
	}
	//
	return p.slots[index].state
}

// Outstanding returns the indices of all slots currently in use, in ascending
// order.
func (p *Allocator) Outstanding() []uint {
	var indices []uint
	//
	for i, s := range p.slots {
		if s.state.IsUsed() {
			indices = append(indices, uint(i))
		}
	}
	//
	return indices
}

// Checkpoint records which registers are outstanding at this point, such that
// a later call to Verify can check no transient register acquired in between
// has leaked.
func (p *Allocator) Checkpoint() Checkpoint {
	p.checkNotFinished()
	//
	owners := make([]*Register, len(p.slots))
	//
	for i, s := range p.slots {
		owners[i] = s.owner
	}
	//
	return Checkpoint{p, owners}
}

// Verify checks that every transient register outstanding now was already
// outstanding when the given checkpoint was taken.  A transient register which
// was acquired (or reacquired) since then, and not released, has leaked and
// this is fatal.  Registers which were made persistent are exempt.
func (p *Allocator) Verify(cp Checkpoint) {
	p.checkNotFinished()
	//
	if cp.allocator != p {
		panic("checkpoint taken from different allocator")
	}
	//
	if leaked := p.transients(cp.owners); len(leaked) > 0 {
		panic(leakMessage(leaked))
	}
}

// Checkpoint captures the set of outstanding register handles at a given point
// during compilation.
type Checkpoint struct {
	allocator *Allocator
	owners    []*Register
}

func (p *Allocator) claim(index uint) *Register {
	reg := &Register{allocator: p, index: index}
	p.slots[index] = slot{TRANSIENT, reg}
	//
	return reg
}

// Determine transient slots in use which are not owned by the same handle as
// recorded in the given set of owners.
func (p *Allocator) transients(owners []*Register) []uint {
	var leaked []uint
	//
	for i, s := range p.slots {
		if s.state != TRANSIENT {
			continue
		} else if i < len(owners) && owners[i] == s.owner {
			continue
		}
		//
		leaked = append(leaked, uint(i))
	}
	//
	return leaked
}

func (p *Allocator) checkOwned(reg *Register, action string) {
	if reg == nil {
		panic(fmt.Sprintf("cannot %s nil register", action))
	} else if reg.allocator != p {
		panic(fmt.Sprintf("cannot %s register %s from different allocator", action, reg))
	}
}

func (p *Allocator) checkNotFinished() {
	if p.finished {
		panic("register allocator already finished")
	}
}

func leakMessage(indices []uint) string {
	var names = make([]string, len(indices))
	//
	for i, index := range indices {
		names[i] = fmt.Sprintf("r%d", index)
	}
	//
	return fmt.Sprintf("forgot to deallocate register(s) %s", strings.Join(names, ", "))
}
