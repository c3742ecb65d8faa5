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

// FreeVariables determines the names used (i.e. read or assigned) within an
// expression which are not bound within it, excluding any names in the given
// bound set.  Names are returned in order of first use, which makes capture
// order deterministic.  Observe that a free name may refer to a top-level
// function, rather than a variable.
func FreeVariables(expr Expr, bound ...string) []string {
	var (
		scope = make(map[string]uint)
		seen  = make(map[string]bool)
		names []string
	)
	//
	for _, n := range bound {
		scope[n]++
	}
	//
	use := func(name string) {
		if scope[name] == 0 && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	//
	var walk func(Expr)
	//
	walk = func(e Expr) {
		switch e := e.(type) {
		case *Var:
			use(e.Name)
		case *Assign:
			use(e.Name)
			walk(e.Value)
		case *Let:
			for _, b := range e.Bindings {
				walk(b.Value)
				scope[b.Name]++
			}
			//
			walkAll(walk, e.Body)
			//
			for _, b := range e.Bindings {
				scope[b.Name]--
			}
		case *Lambda:
			for _, n := range e.Params {
				scope[n]++
			}
			//
			walkAll(walk, e.Body)
			//
			for _, n := range e.Params {
				scope[n]--
			}
		default:
			walkAll(walk, e.Children())
		}
	}
	//
	walk(expr)
	//
	return names
}

// HasAssignment determines whether or not a given expression contains an
// assignment anywhere within it, excluding the bodies of nested function
// literals (which execute later).
func HasAssignment(expr Expr) bool {
	switch e := expr.(type) {
	case *Assign:
		return true
	case *Lambda:
		return false
	default:
		for _, child := range e.Children() {
			if HasAssignment(child) {
				return true
			}
		}
		//
		return false
	}
}

func walkAll(walk func(Expr), exprs []Expr) {
	for _, e := range exprs {
		walk(e)
	}
}
