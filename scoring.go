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
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pohlai88/reconcile/model"
)

// Amount proximity bands, expressed as fractions of the candidate amount,
// and the share of the amount weight each band earns.
var (
	amountBandClose = decimal.NewFromFloat(0.01)
	amountBandNear  = decimal.NewFromFloat(0.05)
)

const (
	amountCloseShare = 0.8
	amountNearShare  = 0.5
	refContainsShare = 0.7
	refNumberShare   = 0.8
	minKeywordLength = 3
)

// ScoreMatch computes the weighted confidence score for one transaction and
// one candidate. Four independent sub-scores (amount, date proximity,
// reference, description) each contribute up to their configured weight to a
// running total; every applicable factor's weight also contributes to the
// maximum-possible total, so confidence = total / maxPossible * 100 stays
// correct for configs whose weights do not sum to exactly 100. The amount
// and date factors always apply; the reference factor applies only when the
// transaction carries a reference, and the description factor only when both
// sides carry one, so missing optional data narrows the scale instead of
// dragging the score down. Each contributing sub-score appends a
// human-readable reason, keeping the result auditable.
func ScoreMatch(txn model.ImportedTransaction, candidate model.MatchCandidate, cfg model.MatchingConfig) model.MatchResult {
	cfg = cfg.Normalize()

	result := model.MatchResult{
		TransactionID: txn.TransactionID(),
		Candidate:     candidate,
	}

	var total float64
	maxPossible := cfg.AmountWeight + cfg.DateWeight

	amountScore, amountDiff, amountReason := scoreAmount(txn.Amount(), candidate.Amount, cfg)
	total += amountScore
	result.AmountDiff = amountDiff
	if amountReason != "" {
		result.Reasons = append(result.Reasons, amountReason)
	}

	dateScore, dateDiffDays, dateReason := scoreDateProximity(txn, candidate, cfg)
	total += dateScore
	result.DateDiffDays = dateDiffDays
	if dateReason != "" {
		result.Reasons = append(result.Reasons, dateReason)
	}

	if strings.TrimSpace(txn.Reference) != "" {
		maxPossible += cfg.ReferenceWeight
		refScore, refReason := scoreReference(txn, candidate, cfg)
		total += refScore
		if refReason != "" {
			result.Reasons = append(result.Reasons, refReason)
		}
	}

	if strings.TrimSpace(txn.Description) != "" && strings.TrimSpace(candidate.Description) != "" {
		maxPossible += cfg.DescriptionWeight
		descScore, descReason := scoreDescription(txn.Description, candidate.Description, cfg)
		total += descScore
		if descReason != "" {
			result.Reasons = append(result.Reasons, descReason)
		}
	}

	if maxPossible > 0 {
		result.Confidence = round2(math.Min(total/maxPossible, 1) * 100)
	}
	return result
}

// scoreAmount awards the full weight inside the absolute tolerance, then
// decreasing shares inside the 1% and 5% proximity bands of the candidate
// amount.
func scoreAmount(txnAmount, candidateAmount decimal.Decimal, cfg model.MatchingConfig) (float64, decimal.Decimal, string) {
	diff := txnAmount.Sub(candidateAmount).Abs()

	switch {
	case diff.LessThanOrEqual(cfg.AmountTolerance):
		return cfg.AmountWeight, diff, "Exact amount match"
	case diff.LessThanOrEqual(candidateAmount.Abs().Mul(amountBandClose)):
		return cfg.AmountWeight * amountCloseShare, diff, "Amount within 1%"
	case diff.LessThanOrEqual(candidateAmount.Abs().Mul(amountBandNear)):
		return cfg.AmountWeight * amountNearShare, diff, "Amount within 5%"
	}
	return 0, diff, ""
}

// scoreDateProximity awards the full weight within one day and a linearly
// decaying score inside the configured tolerance window.
func scoreDateProximity(txn model.ImportedTransaction, candidate model.MatchCandidate, cfg model.MatchingConfig) (float64, int, string) {
	days := dateDiffDays(txn.Date, candidate.Date)

	switch {
	case days <= 1:
		return cfg.DateWeight, days, "Dates within 1 day"
	case days <= cfg.DateToleranceDays:
		score := cfg.DateWeight * (1 - float64(days)/float64(cfg.DateToleranceDays))
		return score, days, fmt.Sprintf("Within %d days", days)
	}
	return 0, days, ""
}

// scoreReference compares the transaction reference against the candidate's
// reference and, when the candidate has none, against its document number.
func scoreReference(txn model.ImportedTransaction, candidate model.MatchCandidate, cfg model.MatchingConfig) (float64, string) {
	txnRef := strings.ToLower(strings.TrimSpace(txn.Reference))
	if txnRef == "" {
		return 0, ""
	}

	candidateRef := strings.ToLower(strings.TrimSpace(candidate.Reference))
	if candidateRef != "" {
		if txnRef == candidateRef {
			return cfg.ReferenceWeight, "Exact reference match"
		}
		if strings.Contains(txnRef, candidateRef) || strings.Contains(candidateRef, txnRef) {
			return cfg.ReferenceWeight * refContainsShare, "Partial reference match"
		}
		return 0, ""
	}

	number := strings.ToLower(strings.TrimSpace(candidate.Number))
	if number != "" && (strings.Contains(txnRef, number) || strings.Contains(number, txnRef)) {
		return cfg.ReferenceWeight * refNumberShare, "Reference matches document number"
	}
	return 0, ""
}

// scoreDescription applies fuzzy similarity when enabled, otherwise a
// bag-of-words overlap of words longer than three characters.
func scoreDescription(txnDesc, candidateDesc string, cfg model.MatchingConfig) (float64, string) {
	a := strings.ToLower(strings.TrimSpace(txnDesc))
	b := strings.ToLower(strings.TrimSpace(candidateDesc))
	if a == "" || b == "" {
		return 0, ""
	}

	if cfg.FuzzyEnabled() {
		sim := Similarity(a, b)
		if sim < cfg.SimilarityCutoff {
			return 0, ""
		}
		return sim * cfg.DescriptionWeight, fmt.Sprintf("Description similarity: %d%%", int(math.Round(sim*100)))
	}

	overlap := keywordOverlap(a, b)
	if overlap <= 0 {
		return 0, ""
	}
	return overlap * cfg.DescriptionWeight, "Shared description keywords"
}

// keywordOverlap counts words longer than minKeywordLength shared by both
// descriptions, normalized by the larger word count.
func keywordOverlap(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		if len(w) > minKeywordLength {
			setA[w] = true
		}
	}

	shared := 0
	counted := make(map[string]bool)
	for _, w := range wordsB {
		if setA[w] && !counted[w] {
			shared++
			counted[w] = true
		}
	}

	maxWords := len(wordsA)
	if len(wordsB) > maxWords {
		maxWords = len(wordsB)
	}
	return float64(shared) / float64(maxWords)
}

// dateDiffDays returns the absolute whole-day difference between two
// calendar dates.
func dateDiffDays(a, b time.Time) int {
	diff := toDate(a).Sub(toDate(b))
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

// round2 rounds to two decimal places, the precision confidence scores and
// summary averages are reported at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
