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
package cmd

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/consensys/go-regc/pkg/bytecode"
	"github.com/consensys/go-regc/pkg/compiler"
	"github.com/consensys/go-regc/pkg/config"
	"github.com/consensys/go-regc/pkg/util"
	"github.com/consensys/go-regc/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ImageExtension is the file extension used for binary program images.
const ImageExtension = ".rbc"

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetInt64Array gets an expected list of integers, or exits if an error arises.
func GetInt64Array(cmd *cobra.Command, flag string) []int64 {
	r, err := cmd.Flags().GetInt64Slice(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetConfig loads the configuration determined by the "--config" flag, or
// exits if it is invalid.
func GetConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(GetString(cmd, "config"))
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Debugf("configuration %+v", cfg)
	//
	return cfg
}

// CompileSourceFiles accepts a set of source files and compiles them into a
// program.  Any syntax errors are reported, after which this exits.
func CompileSourceFiles(cfg config.Config, filenames []string) *bytecode.Program {
	var stats = util.NewPerfStats()
	//
	for _, n := range filenames {
		log.Debug(fmt.Sprintf("including source file %s", n))
	}
	//
	srcfiles, err := source.ReadFiles(filenames...)
	// Sanity check for errors
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	program, errors := compiler.Compile(compiler.Options{Checkpoints: cfg.Compiler.Checkpoints}, srcfiles...)
	// Check for errors
	if len(errors) != 0 {
		// Report errors
		for _, err := range errors {
			printSyntaxError(&err)
		}
		// Fail
		os.Exit(4)
	}
	//
	stats.Log("Compiling source files")
	//
	return program
}

// ReadProgram obtains a program either by reading a single binary image, or
// by compiling one or more source files.
func ReadProgram(cfg config.Config, filenames []string) *bytecode.Program {
	if len(filenames) == 1 && path.Ext(filenames[0]) == ImageExtension {
		return ReadImageFile(filenames[0])
	}
	//
	return CompileSourceFiles(cfg, filenames)
}

// ReadImageFile reads a binary program image, or exits if this fails.
func ReadImageFile(filename string) *bytecode.Program {
	program, err := readImage(filename)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	return program
}

func readImage(filename string) (*bytecode.Program, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	program, err := bytecode.Decode(bytes)
	//
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return program, nil
}

func writeImage(filename string, program *bytecode.Program) error {
	bytes, err := bytecode.Encode(program)
	//
	if err != nil {
		return err
	}
	//
	return os.WriteFile(filename, bytes, 0o644)
}

// Determine whether output should be coloured.
func useColour() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}
