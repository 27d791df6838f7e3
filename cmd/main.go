/*
Copyright 2024 Reconcile Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pohlai88/reconcile/config"
)

// Recon represents the CLI application, encapsulating the root Cobra command.
type Recon struct {
	cmd *cobra.Command
}

// reconInstance holds the runtime configuration shared by the subcommands.
type reconInstance struct {
	cnf *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration before running any command.
func preRun(app *reconInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		if err := config.InitConfig(configFile); err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}
		cnf.SetupLogger()
		app.cnf = cnf
		return nil
	}
}

// NewCLI creates the command-line interface for the reconciliation tool,
// wiring the import, match and formats subcommands under the root command.
func NewCLI() *Recon {
	var configFile string
	r := &reconInstance{}

	var rootCmd = &cobra.Command{
		Use:   "recon",
		Short: "Bank statement import and reconciliation",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./recon.json", "Configuration file for the reconciliation tool")
	rootCmd.PersistentPreRunE = preRun(r)

	rootCmd.AddCommand(importCommands(r))
	rootCmd.AddCommand(matchCommands(r))
	rootCmd.AddCommand(formatCommands())

	return &Recon{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during
// execution.
func (r Recon) executeCLI() {
	if err := r.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
