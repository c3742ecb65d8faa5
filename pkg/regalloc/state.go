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

// State identifies the state of a single slot in the register pool.  A slot
// is either free, or it is in use.  Slots which are in use are either transient
// (i.e. they will be released once the value they hold is dead) or persistent
// (i.e. they hold a value for the remainder of the function).  Hence, a
// persistent slot is always in use.
type State uint8

const (
	// FREE indicates a slot which can be handed out by the next acquisition.
	FREE State = iota
	// TRANSIENT indicates a slot currently holding a value which will be
	// released once its last use has been emitted.
	TRANSIENT
	// PERSISTENT indicates a slot holding a value for the remainder of the
	// function.  Such a slot never returns to the free pool.
	PERSISTENT
)

// IsUsed checks whether a slot in this state is currently in use.
func (p State) IsUsed() bool {
	return p != FREE
}

// IsPersistent checks whether a slot in this state is persistent.
func (p State) IsPersistent() bool {
	return p == PERSISTENT
}

func (p State) String() string {
	switch p {
	case FREE:
		return "free"
	case TRANSIENT:
		return "transient"
	case PERSISTENT:
		return "persistent"
	default:
		return "unknown"
	}
}

// slot records the state of a single position in the register pool, along
// with the handle currently naming it (if any).
type slot struct {
	state State
	owner *Register
}
