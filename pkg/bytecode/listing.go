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
package bytecode

import (
	"fmt"
	"strings"
)

const (
	ansiBold  = "\033[1m"
	ansiCyan  = "\033[36m"
	ansiReset = "\033[0m"
)

// Listing produces a human-readable listing of every function in a program.
// When colour is enabled, function headers and mnemonics are highlighted using
// ANSI escape codes.
func Listing(program *Program, colour bool) string {
	var builder strings.Builder
	//
	for i := range program.Functions {
		if i != 0 {
			builder.WriteString("\n")
		}
		//
		writeFunction(&builder, program, &program.Functions[i], colour)
	}
	//
	return builder.String()
}

func writeFunction(builder *strings.Builder, program *Program, fn *Function, colour bool) {
	var header = fmt.Sprintf("fn %s(%s)", fn.Name, registerRange(0, fn.NumParams))
	//
	if fn.NumCaptures > 0 {
		header = fmt.Sprintf("%s [%s]", header, registerRange(fn.NumParams, fn.NumCaptures))
	}
	//
	if colour {
		header = ansiBold + header + ansiReset
	}
	//
	fmt.Fprintf(builder, "%s frame=%d {\n", header, fn.FrameSize)
	//
	for pc, insn := range fn.Code {
		text := insn.Format(program)
		//
		if colour {
			mnemonic := insn.Op.String()
			text = ansiCyan + mnemonic + ansiReset + text[len(mnemonic):]
		}
		//
		fmt.Fprintf(builder, "[%d]\t%s\n", pc, text)
	}
	//
	builder.WriteString("}\n")
}

func registerRange(start uint, n uint) string {
	var names = make([]string, n)
	//
	for i := uint(0); i < n; i++ {
		names[i] = registerName(start + i)
	}
	//
	return strings.Join(names, ", ")
}
