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

package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pohlai88/reconcile/model"
)

// Validation thresholds for the pre-commit check.
var largeAmountDeltaPct = decimal.NewFromInt(10)

const largeDateDeltaDays = 30

// ValidateMatch runs the pre-commit sanity check on an already-selected
// pair, distinct from scoring. Direction inconsistency is a hard error and
// the only condition that makes the pair invalid; the selector's filter
// should make it impossible, but it is re-checked here before a human or
// automated process commits the match. Large amount or date deltas are
// warnings only.
func ValidateMatch(txn model.ImportedTransaction, candidate model.MatchCandidate) model.MatchValidation {
	v := model.MatchValidation{Valid: true}

	if candidate.Kind.IsOutgoing() != txn.IsOutgoing() {
		v.Valid = false
		v.Errors = append(v.Errors,
			fmt.Sprintf("direction mismatch: %s candidate against an %s transaction",
				candidate.Kind, directionLabel(txn.IsOutgoing())))
	}

	if candidate.Amount.IsPositive() {
		diffPct := txn.Amount().Sub(candidate.Amount).Abs().
			Div(candidate.Amount).
			Mul(decimal.NewFromInt(100))
		if diffPct.GreaterThan(largeAmountDeltaPct) {
			v.Warnings = append(v.Warnings,
				fmt.Sprintf("amount differs by %s%% (more than %s%%)", diffPct.Round(2), largeAmountDeltaPct))
		}
	}

	if days := dateDiffDays(txn.Date, candidate.Date); days > largeDateDeltaDays {
		v.Warnings = append(v.Warnings,
			fmt.Sprintf("dates differ by %d days (more than %d)", days, largeDateDeltaDays))
	}

	return v
}

func directionLabel(outgoing bool) string {
	if outgoing {
		return "outgoing"
	}
	return "incoming"
}
