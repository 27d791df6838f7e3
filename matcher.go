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
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pohlai88/reconcile/model"
)

// DefaultDateRangeBufferDays is the buffer applied by the candidate
// date-range pre-filter when the caller does not specify one.
const DefaultDateRangeBufferDays = 30

// maxMatchWorkers bounds the matching worker pool.
const maxMatchWorkers = 8

// AutoMatch scores every transaction against every direction-compatible
// candidate and selects the single best match per transaction. A candidate
// only becomes a match when its confidence clears the suggestion threshold;
// everything else lands in Unmatched. The search per transaction is
// independent of every other transaction, so the work is spread across a
// bounded worker pool and reassembled in the original transaction order.
//
// Matching never fails: an unmatchable transaction simply surfaces in
// Unmatched. Cancelling the context stops scoring; transactions not yet
// scored are reported unmatched.
func AutoMatch(ctx context.Context, txns []model.ImportedTransaction, candidates []model.MatchCandidate, cfg model.MatchingConfig) model.AutoMatchResult {
	cfg = cfg.Normalize()

	best := make([]*model.MatchResult, len(txns))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := runtime.NumCPU()
	if workers > maxMatchWorkers {
		workers = maxMatchWorkers
	}
	if workers > len(txns) {
		workers = len(txns)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					best[i] = BestMatch(txns[i], candidates, cfg)
				}
			}
		}()
	}

dispatch:
	for i := range txns {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	result := model.AutoMatchResult{
		Summary: model.MatchSummary{TotalTransactions: len(txns)},
	}

	var confidenceSum float64
	for i, txn := range txns {
		match := best[i]
		if match == nil {
			result.Unmatched = append(result.Unmatched, txn)
			continue
		}
		result.Matches = append(result.Matches, *match)
		confidenceSum += match.Confidence
		if ClassifyMatch(match.Confidence, cfg) == model.TierAutomatic {
			result.Summary.AutoMatched++
		} else {
			result.Summary.Suggested++
		}
	}
	result.Summary.Unmatched = len(result.Unmatched)
	if len(result.Matches) > 0 {
		result.Summary.AverageConfidence = round2(confidenceSum / float64(len(result.Matches)))
	}

	logrus.Debugf("matched %d of %d transactions (%d automatic, %d suggested)",
		len(result.Matches), len(txns), result.Summary.AutoMatched, result.Summary.Suggested)

	return result
}

// BestMatch scores one transaction against every direction-compatible
// candidate and returns the highest-confidence result, or nil when no
// candidate clears the suggestion threshold. Ties are broken by a strict
// greater-than comparison: the first-seen candidate wins.
func BestMatch(txn model.ImportedTransaction, candidates []model.MatchCandidate, cfg model.MatchingConfig) *model.MatchResult {
	var best *model.MatchResult
	for _, candidate := range candidates {
		if candidate.Kind.IsOutgoing() != txn.IsOutgoing() {
			continue
		}
		scored := ScoreMatch(txn, candidate, cfg)
		if best == nil || scored.Confidence > best.Confidence {
			s := scored
			best = &s
		}
	}
	if best == nil || best.Confidence < cfg.SuggestThreshold {
		return nil
	}
	return best
}

// ClassifyMatch places a produced match into its confidence tier. Matches
// below the suggestion threshold are never produced, so the tiers here are
// automatic and suggested.
func ClassifyMatch(confidence float64, cfg model.MatchingConfig) model.MatchTier {
	if confidence >= cfg.AutoMatchThreshold {
		return model.TierAutomatic
	}
	return model.TierSuggested
}

// GroupMatchesByTier buckets matches by their confidence tier.
func GroupMatchesByTier(matches []model.MatchResult, cfg model.MatchingConfig) map[model.MatchTier][]model.MatchResult {
	cfg = cfg.Normalize()
	grouped := make(map[model.MatchTier][]model.MatchResult)
	for _, match := range matches {
		tier := ClassifyMatch(match.Confidence, cfg)
		grouped[tier] = append(grouped[tier], match)
	}
	return grouped
}

// FilterCandidatesByDateRange discards candidates dated outside the
// statement period widened by a buffer on each side. A zero bufferDays
// applies the default buffer. This is a pre-filter for large datasets; it
// does not affect scoring.
func FilterCandidatesByDateRange(candidates []model.MatchCandidate, periodStart, periodEnd time.Time, bufferDays int) []model.MatchCandidate {
	if bufferDays == 0 {
		bufferDays = DefaultDateRangeBufferDays
	}
	lower := toDate(periodStart).AddDate(0, 0, -bufferDays)
	upper := toDate(periodEnd).AddDate(0, 0, bufferDays)

	var filtered []model.MatchCandidate
	for _, candidate := range candidates {
		date := toDate(candidate.Date)
		if date.Before(lower) || date.After(upper) {
			continue
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}
