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
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pohlai88/reconcile"
	"github.com/pohlai88/reconcile/model"
)

// loadCandidates reads a JSON file of match candidates.
func loadCandidates(path string) ([]model.MatchCandidate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading candidates file")
	}
	var candidates []model.MatchCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, errors.Wrap(err, "decoding candidates file")
	}
	return candidates, nil
}

// matchCommands creates the match subcommand: import a statement, reconcile
// it against a candidates file and print the match result as JSON.
func matchCommands(r *reconInstance) *cobra.Command {
	var formatName, accountID, candidatesPath string

	cmd := &cobra.Command{
		Use:   "match <statement.csv>",
		Short: "Import a statement and match it against candidate documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importResult, err := importStatementFile(args[0], formatName, accountID)
			if err != nil {
				return err
			}
			if !importResult.Success {
				logrus.Warnf("import finished with %d row errors; matching the %d valid transactions",
					importResult.Summary.Errors, importResult.Summary.ValidTransactions)
			}

			candidates, err := loadCandidates(candidatesPath)
			if err != nil {
				return err
			}

			run := model.NewReconciliationRun()
			cfg := r.cnf.Matching.ToMatchingConfig()
			result := reconcile.AutoMatch(cmd.Context(), importResult.Transactions, candidates, cfg)
			run.Complete(result)

			logrus.Infof("run %s: %d automatic, %d suggested, %d unmatched",
				run.RunID, result.Summary.AutoMatched, result.Summary.Suggested, result.Summary.Unmatched)

			return printJSON(struct {
				Run    *model.ReconciliationRun `json:"run"`
				Result model.AutoMatchResult    `json:"result"`
			}{run, result})
		},
	}

	cmd.Flags().StringVar(&formatName, "format", "", "Named bank format (auto-detected when omitted)")
	cmd.Flags().StringVar(&accountID, "account", "", "Account identifier carried through for traceability")
	cmd.Flags().StringVar(&candidatesPath, "candidates", "candidates.json", "JSON file of candidate documents")
	return cmd
}

// formatCommands creates the formats subcommand: list the known bank layouts.
func formatCommands() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the known bank statement formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(reconcile.KnownFormats())
		},
	}
}
