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
package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/wacul/ptr"
)

// CandidateKind discriminates the document kinds a bank transaction can be
// reconciled against.
type CandidateKind string

const (
	KindPayment CandidateKind = "PAYMENT"
	KindReceipt CandidateKind = "RECEIPT"
	KindBill    CandidateKind = "BILL"
	KindInvoice CandidateKind = "INVOICE"
)

// IsOutgoing reports whether documents of this kind represent money leaving
// the account. Payments and bills are outgoing; receipts and invoices are
// incoming.
func (k CandidateKind) IsOutgoing() bool {
	return k == KindPayment || k == KindBill
}

// MatchCandidate is a documentary counterpart supplied by the caller. The
// reconciliation core never creates or mutates candidates. Amount is always
// positive; direction is carried by Kind.
type MatchCandidate struct {
	ID             string          `json:"id"`
	Kind           CandidateKind   `json:"kind"`
	Number         string          `json:"number"`
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Reference      string          `json:"reference,omitempty"`
}

// MatchResult pairs a transaction with its selected candidate. Confidence is
// only ever produced by the scoring engine's weighted formula.
type MatchResult struct {
	TransactionID string          `json:"transaction_id"`
	Candidate     MatchCandidate  `json:"candidate"`
	Confidence    float64         `json:"confidence"`
	Reasons       []string        `json:"reasons"`
	AmountDiff    decimal.Decimal `json:"amount_diff"`
	DateDiffDays  int             `json:"date_diff_days"`
}

// MatchTier is the confidence-driven classification of a produced match.
type MatchTier string

const (
	TierAutomatic MatchTier = "automatic"
	TierSuggested MatchTier = "suggested"
)

// MatchSummary aggregates one matching pass.
type MatchSummary struct {
	TotalTransactions int     `json:"total_transactions"`
	AutoMatched       int     `json:"auto_matched"`
	Suggested         int     `json:"suggested"`
	Unmatched         int     `json:"unmatched"`
	AverageConfidence float64 `json:"average_confidence"`
}

// AutoMatchResult is the complete outcome of one matching pass: produced
// matches, the transactions for which no candidate cleared the suggestion
// threshold, and aggregate statistics.
type AutoMatchResult struct {
	Matches   []MatchResult         `json:"matches"`
	Unmatched []ImportedTransaction `json:"unmatched"`
	Summary   MatchSummary          `json:"summary"`
}

// MatchValidation is the outcome of the pre-commit sanity check on an
// already-selected pair. Valid is false only on a direction-consistency
// failure; everything else is a warning.
type MatchValidation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Status constants representing the states of a reconciliation run.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
)

// ReconciliationRun records one matching pass for callers that track runs.
// It is a plain in-memory record; persistence belongs to collaborators.
type ReconciliationRun struct {
	RunID                 string     `json:"run_id"`
	Status                string     `json:"status"`
	StartedAt             time.Time  `json:"started_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
	MatchedTransactions   int        `json:"matched_transactions"`
	UnmatchedTransactions int        `json:"unmatched_transactions"`
}

// NewReconciliationRun creates a run record stamped with a unique ID and the
// current time.
func NewReconciliationRun() *ReconciliationRun {
	return &ReconciliationRun{
		RunID:     GenerateUUIDWithSuffix("run"),
		Status:    StatusStarted,
		StartedAt: time.Now(),
	}
}

// Complete marks the run finished and records the final counts.
func (r *ReconciliationRun) Complete(result AutoMatchResult) {
	r.Status = StatusCompleted
	r.MatchedTransactions = len(result.Matches)
	r.UnmatchedTransactions = len(result.Unmatched)
	r.CompletedAt = ptr.Time(time.Now())
}

// Default matching thresholds and weights. The four weights sum to the
// conventional maximum score of 100.
const (
	DefaultAutoMatchThreshold = 90.0
	DefaultSuggestThreshold   = 70.0
	DefaultDateToleranceDays  = 7
	DefaultAmountWeight       = 40.0
	DefaultDateWeight         = 20.0
	DefaultReferenceWeight    = 25.0
	DefaultDescriptionWeight  = 15.0
	DefaultSimilarityCutoff   = 0.6
)

// MatchingConfig carries the tunable thresholds and weights for one matching
// pass. It is supplied per call and never held as global mutable state, so
// concurrent runs with different tenant tuning cannot interfere. Zero-valued
// fields fall back to the documented defaults via Normalize.
type MatchingConfig struct {
	AutoMatchThreshold float64         `json:"auto_match_threshold"`
	SuggestThreshold   float64         `json:"suggest_threshold"`
	AmountTolerance    decimal.Decimal `json:"amount_tolerance"`
	DateToleranceDays  int             `json:"date_tolerance_days"`
	AmountWeight       float64         `json:"amount_weight"`
	DateWeight         float64         `json:"date_weight"`
	ReferenceWeight    float64         `json:"reference_weight"`
	DescriptionWeight  float64         `json:"description_weight"`
	SimilarityCutoff   float64         `json:"similarity_cutoff"`
	// FuzzyDescription toggles edit-distance description matching; nil means
	// enabled. When disabled, a keyword-overlap fallback is used instead.
	FuzzyDescription *bool `json:"fuzzy_description,omitempty"`
}

// DefaultMatchingConfig returns the documented default configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		AutoMatchThreshold: DefaultAutoMatchThreshold,
		SuggestThreshold:   DefaultSuggestThreshold,
		AmountTolerance:    decimal.NewFromFloat(0.01),
		DateToleranceDays:  DefaultDateToleranceDays,
		AmountWeight:       DefaultAmountWeight,
		DateWeight:         DefaultDateWeight,
		ReferenceWeight:    DefaultReferenceWeight,
		DescriptionWeight:  DefaultDescriptionWeight,
		SimilarityCutoff:   DefaultSimilarityCutoff,
		FuzzyDescription:   ptr.Bool(true),
	}
}

// Normalize returns a copy of the config with every zero-valued field filled
// from the defaults, so callers may pass a partially-populated config.
func (c MatchingConfig) Normalize() MatchingConfig {
	def := DefaultMatchingConfig()
	if c.AutoMatchThreshold == 0 {
		c.AutoMatchThreshold = def.AutoMatchThreshold
	}
	if c.SuggestThreshold == 0 {
		c.SuggestThreshold = def.SuggestThreshold
	}
	if c.AmountTolerance.IsZero() {
		c.AmountTolerance = def.AmountTolerance
	}
	if c.DateToleranceDays == 0 {
		c.DateToleranceDays = def.DateToleranceDays
	}
	if c.AmountWeight == 0 {
		c.AmountWeight = def.AmountWeight
	}
	if c.DateWeight == 0 {
		c.DateWeight = def.DateWeight
	}
	if c.ReferenceWeight == 0 {
		c.ReferenceWeight = def.ReferenceWeight
	}
	if c.DescriptionWeight == 0 {
		c.DescriptionWeight = def.DescriptionWeight
	}
	if c.SimilarityCutoff == 0 {
		c.SimilarityCutoff = def.SimilarityCutoff
	}
	if c.FuzzyDescription == nil {
		c.FuzzyDescription = def.FuzzyDescription
	}
	return c
}

// FuzzyEnabled reports whether fuzzy description matching applies.
func (c MatchingConfig) FuzzyEnabled() bool {
	return c.FuzzyDescription == nil || *c.FuzzyDescription
}

// MaxScore returns the maximum achievable raw score, the sum of the four
// sub-score weights.
func (c MatchingConfig) MaxScore() float64 {
	return c.AmountWeight + c.DateWeight + c.ReferenceWeight + c.DescriptionWeight
}

// Validate checks the config for structural soundness. A normalized default
// config always validates.
func (c MatchingConfig) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.AutoMatchThreshold, validation.Required, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&c.SuggestThreshold, validation.Required, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&c.DateToleranceDays, validation.Min(1)),
		validation.Field(&c.AmountWeight, validation.Min(0.0)),
		validation.Field(&c.DateWeight, validation.Min(0.0)),
		validation.Field(&c.ReferenceWeight, validation.Min(0.0)),
		validation.Field(&c.DescriptionWeight, validation.Min(0.0)),
		validation.Field(&c.SimilarityCutoff, validation.Min(0.0), validation.Max(1.0)),
	); err != nil {
		return err
	}
	if c.SuggestThreshold > c.AutoMatchThreshold {
		return validation.NewError("validation_thresholds", "suggestion threshold must not exceed the auto-match threshold")
	}
	if c.AmountTolerance.IsNegative() {
		return validation.NewError("validation_amount_tolerance", "amount tolerance must not be negative")
	}
	if c.MaxScore() <= 0 {
		return validation.NewError("validation_weights", "at least one sub-score weight must be positive")
	}
	return nil
}
