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
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountStrategy identifies how a bank layout represents money movement.
// Exactly one strategy applies per format; the strategy is declared up front
// rather than inferred from which optional columns happen to be set.
type AmountStrategy string

const (
	// AmountDebitCredit uses two separate columns, one for debits and one for credits.
	AmountDebitCredit AmountStrategy = "debit_credit"
	// AmountWithType uses a single amount column plus a type-indicator column
	// (DR/CR style labels decide the direction).
	AmountWithType AmountStrategy = "amount_type"
	// AmountSigned uses a single amount column whose sign decides the direction.
	AmountSigned AmountStrategy = "amount_signed"
)

// RawBankFormat is an immutable descriptor of one named bank statement layout.
// It maps logical fields to the column names found in the statement header and
// carries the date layout and the number of extra header rows to skip.
type RawBankFormat struct {
	Name              string         `json:"name"`
	Strategy          AmountStrategy `json:"strategy"`
	DateColumn        string         `json:"date_column"`
	DescriptionColumn string         `json:"description_column"`
	ReferenceColumn   string         `json:"reference_column,omitempty"`
	BalanceColumn     string         `json:"balance_column,omitempty"`
	DebitColumn       string         `json:"debit_column,omitempty"`
	CreditColumn      string         `json:"credit_column,omitempty"`
	AmountColumn      string         `json:"amount_column,omitempty"`
	TypeColumn        string         `json:"type_column,omitempty"`
	DateLayout        string         `json:"date_layout"`
	SkipRows          int            `json:"skip_rows"`
}

// Validate checks the structural soundness of the format descriptor,
// including the invariant that exactly one amount-representation strategy
// is populated.
func (f RawBankFormat) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Strategy, validation.Required, validation.In(AmountDebitCredit, AmountWithType, AmountSigned)),
		validation.Field(&f.DateColumn, validation.Required),
		validation.Field(&f.DescriptionColumn, validation.Required),
		validation.Field(&f.SkipRows, validation.Min(0)),
	)
	if err != nil {
		return err
	}
	return f.validateStrategyColumns()
}

// validateStrategyColumns enforces that the columns populated on the format
// agree with its declared strategy.
func (f RawBankFormat) validateStrategyColumns() error {
	switch f.Strategy {
	case AmountDebitCredit:
		if f.DebitColumn == "" || f.CreditColumn == "" {
			return fmt.Errorf("format %s: debit_credit strategy requires debit and credit columns", f.Name)
		}
		if f.AmountColumn != "" || f.TypeColumn != "" {
			return fmt.Errorf("format %s: debit_credit strategy must not set amount or type columns", f.Name)
		}
	case AmountWithType:
		if f.AmountColumn == "" || f.TypeColumn == "" {
			return fmt.Errorf("format %s: amount_type strategy requires amount and type columns", f.Name)
		}
		if f.DebitColumn != "" || f.CreditColumn != "" {
			return fmt.Errorf("format %s: amount_type strategy must not set debit or credit columns", f.Name)
		}
	case AmountSigned:
		if f.AmountColumn == "" {
			return fmt.Errorf("format %s: amount_signed strategy requires an amount column", f.Name)
		}
		if f.DebitColumn != "" || f.CreditColumn != "" || f.TypeColumn != "" {
			return fmt.Errorf("format %s: amount_signed strategy must not set debit, credit or type columns", f.Name)
		}
	}
	return nil
}

// RequiredColumns returns the column names that must be present in a parsed
// header for this format to be usable: the date and description columns plus
// whichever amount columns the strategy defines.
func (f RawBankFormat) RequiredColumns() []string {
	cols := []string{f.DateColumn, f.DescriptionColumn}
	switch f.Strategy {
	case AmountDebitCredit:
		cols = append(cols, f.DebitColumn, f.CreditColumn)
	case AmountWithType:
		cols = append(cols, f.AmountColumn, f.TypeColumn)
	case AmountSigned:
		cols = append(cols, f.AmountColumn)
	}
	return cols
}

// ImportedTransaction is one normalized bank statement line. Debit and credit
// are both non-negative and never both positive; a transaction moves money in
// exactly one direction. Raw preserves the original row for traceability.
type ImportedTransaction struct {
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Reference   string            `json:"reference,omitempty"`
	Debit       decimal.Decimal   `json:"debit"`
	Credit      decimal.Decimal   `json:"credit"`
	Balance     *decimal.Decimal  `json:"balance,omitempty"`
	TypeLabel   string            `json:"type_label,omitempty"`
	AccountID   string            `json:"account_id,omitempty"`
	BatchID     string            `json:"batch_id,omitempty"`
	Raw         map[string]string `json:"raw,omitempty"`
}

// Amount returns the transaction's comparison amount: the debit amount when
// the transaction is outgoing, otherwise the credit amount.
func (t *ImportedTransaction) Amount() decimal.Decimal {
	if t.Debit.IsPositive() {
		return t.Debit
	}
	return t.Credit
}

// IsOutgoing reports whether the transaction moves money out of the account.
func (t *ImportedTransaction) IsOutgoing() bool {
	return t.Debit.IsPositive()
}

// DuplicateKey returns the composite identity key used for in-batch duplicate
// detection: ISO date, trimmed description, debit and credit amounts.
func (t *ImportedTransaction) DuplicateKey() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		t.Date.Format("2006-01-02"),
		strings.TrimSpace(t.Description),
		t.Debit.String(),
		t.Credit.String(),
	)
}

// TransactionID derives a stable structural identifier for the transaction.
// It is a display and matching key, not a persisted identity, so a readable
// composite of the duplicate key fields is used instead of a hash.
func (t *ImportedTransaction) TransactionID() string {
	return fmt.Sprintf("txn_%s_%s_%s", t.Date.Format("20060102"), t.Debit.String(), t.Credit.String())
}

// ImportSummary counts the outcome of one import call.
type ImportSummary struct {
	TotalRows         int `json:"total_rows"`
	ValidTransactions int `json:"valid_transactions"`
	Duplicates        int `json:"duplicates"`
	Errors            int `json:"errors"`
}

// ImportResult is the complete outcome of one statement import. It is
// constructed once per import call and not mutated afterwards. Success is
// true only when no row produced an error; warnings do not affect it.
type ImportResult struct {
	Success      bool                  `json:"success"`
	AccountID    string                `json:"account_id"`
	BatchID      string                `json:"batch_id"`
	Transactions []ImportedTransaction `json:"transactions"`
	Errors       []string              `json:"errors"`
	Warnings     []string              `json:"warnings"`
	Summary      ImportSummary         `json:"summary"`
}

// GenerateUUIDWithSuffix generates a UUID with a given module name as a suffix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}
