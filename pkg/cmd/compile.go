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

	"github.com/consensys/go-regc/pkg/bytecode"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file1 file2 ...",
	Short: "compile source files into register bytecode.",
	Long: `Compile a given set of source file(s) into a single program, optionally
printing its listing or writing it as a binary image.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg     = GetConfig(cmd)
			ir      = GetFlag(cmd, "ir")
			outfile = GetString(cmd, "out")
		)
		// Compile source files, or print errors
		program := CompileSourceFiles(cfg, args)
		//
		if ir {
			fmt.Print(bytecode.Listing(program, useColour()))
		}
		//
		if outfile != "" {
			if err := writeImage(outfile, program); err != nil {
				fmt.Println(err)
				os.Exit(3)
			}
			//
			log.Debugf("wrote %d function(s) to %s", program.NumFunctions(), outfile)
		}
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().Bool("ir", false, "print listing of generated bytecode")
	compileCmd.Flags().StringP("out", "o", "", "write binary image (.rbc) to file")
}
