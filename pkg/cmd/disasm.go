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

	"github.com/consensys/go-regc/pkg/bytecode"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] image.rbc",
	Short: "print the listing of a binary image.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		program := ReadImageFile(args[0])
		//
		fmt.Print(bytecode.Listing(program, useColour() && !GetFlag(cmd, "plain")))
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().Bool("plain", false, "disable colour output")
}
