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

	"github.com/consensys/go-regc/pkg/util"
	"github.com/consensys/go-regc/pkg/vm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:     "run [flags] (image.rbc | file1 file2 ...)",
	Short:   "execute a program.",
	Long:    `Execute a program (either compiled from source, or stored as an image) by calling its entry function.`,
	Aliases: []string{"exec"},
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg     = GetConfig(cmd)
			entry   = GetString(cmd, "entry")
			inputs  = GetInt64Array(cmd, "arg")
			program = ReadProgram(cfg, args)
		)
		//
		if entry == "" {
			entry = cfg.Machine.Entry
		}
		//
		machine, err := vm.New(program, vm.Options{MaxSteps: cfg.Machine.MaxSteps, MaxDepth: cfg.Machine.MaxDepth})
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(4)
		}
		//
		stats := util.NewPerfStats()
		result, err := machine.Call(entry, inputs...)
		//
		stats.Log(fmt.Sprintf("Executing %s", entry))
		log.Debugf("executed %d instruction(s)", machine.Steps())
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(5)
		}
		//
		fmt.Println(result.String())
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("entry", "", "function to call (defaults to configured entry)")
	runCmd.Flags().Int64Slice("arg", nil, "argument passed to entry function (repeatable)")
}
