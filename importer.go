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
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pohlai88/reconcile/model"
)

// Row validation bounds.
const (
	maxDescriptionLength = 255
	staleTransactionAge  = 2 // years
)

// debitLabels and creditLabels are the type-indicator values recognized by
// the amount+type strategy, matched case-insensitively.
var (
	debitLabels  = []string{"DR", "DEBIT", "WITHDRAWAL"}
	creditLabels = []string{"CR", "CREDIT", "DEPOSIT"}
)

// ImportStatement consumes raw statement text and a bank layout descriptor
// and produces normalized transactions plus row-scoped errors and warnings.
// One bad row never aborts the batch; every parsing failure is captured and
// returned as data. accountID and batchID are carried through for downstream
// traceability and are not interpreted here.
//
// Success is true only when the import produced rows and none of them
// errored. Duplicate rows within the batch are excluded from the accepted
// list and reported as warnings.
func ImportStatement(raw string, format model.RawBankFormat, accountID, batchID string) model.ImportResult {
	result := model.ImportResult{
		AccountID: accountID,
		BatchID:   batchID,
	}

	if err := format.Validate(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid format %q: %v", format.Name, err))
		result.Summary.Errors = len(result.Errors)
		return result
	}

	lines := nonBlankLines(raw)
	if len(lines) == 0 {
		result.Errors = append(result.Errors, "statement text is empty")
		result.Summary.Errors = len(result.Errors)
		return result
	}

	header := splitStatementLine(lines[0])
	if missing := missingColumns(header, format.RequiredColumns()); len(missing) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("format %q: statement header is missing columns: %s", format.Name, strings.Join(missing, ", ")))
		result.Summary.Errors = len(result.Errors)
		return result
	}

	dataLines := lines[1:]
	if format.SkipRows > 0 && format.SkipRows < len(dataLines) {
		dataLines = dataLines[format.SkipRows:]
	} else if format.SkipRows >= len(dataLines) {
		dataLines = nil
	}
	if len(dataLines) == 0 {
		result.Errors = append(result.Errors, "statement has no data rows")
		result.Summary.Errors = len(result.Errors)
		return result
	}

	seen := make(map[string]bool)
	for i, line := range dataLines {
		rowNum := i + 1
		result.Summary.TotalRows++

		row := buildRow(header, splitStatementLine(line))
		txn, rowErrs, rowWarns := parseRow(row, format, rowNum)
		result.Warnings = append(result.Warnings, rowWarns...)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}

		txn.AccountID = accountID
		txn.BatchID = batchID

		key := txn.DuplicateKey()
		if seen[key] {
			result.Summary.Duplicates++
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("row %d: duplicate transaction skipped (%s)", rowNum, key))
			continue
		}
		seen[key] = true
		result.Transactions = append(result.Transactions, *txn)
	}

	result.Summary.ValidTransactions = len(result.Transactions)
	result.Summary.Errors = len(result.Errors)
	result.Success = result.Summary.Errors == 0
	return result
}

// parseRow parses one key/value statement row into a transaction, returning
// row-scoped errors and warnings. An error rejects the row; a warning keeps
// it flagged.
func parseRow(row map[string]string, format model.RawBankFormat, rowNum int) (*model.ImportedTransaction, []string, []string) {
	var errs, warns []string

	date, ok := ParseDate(rowValue(row, format.DateColumn), format.DateLayout)
	if !ok {
		errs = append(errs, fmt.Sprintf("row %d: unparseable date %q", rowNum, rowValue(row, format.DateColumn)))
	}

	description := strings.TrimSpace(rowValue(row, format.DescriptionColumn))
	if description == "" {
		errs = append(errs, fmt.Sprintf("row %d: missing description", rowNum))
	}

	txn := &model.ImportedTransaction{
		Date:        date,
		Description: description,
		Raw:         row,
	}
	if format.ReferenceColumn != "" {
		txn.Reference = strings.TrimSpace(rowValue(row, format.ReferenceColumn))
	}
	if format.BalanceColumn != "" {
		if balance, ok := ParseAmount(rowValue(row, format.BalanceColumn)); ok {
			txn.Balance = &balance
		}
	}

	if amountErrs := deriveAmounts(txn, row, format, rowNum); len(amountErrs) > 0 {
		errs = append(errs, amountErrs...)
	}

	if len(errs) > 0 {
		return nil, errs, warns
	}

	errs, warns = validateTransaction(txn, rowNum, warns)
	if len(errs) > 0 {
		return nil, errs, warns
	}
	return txn, nil, warns
}

// deriveAmounts fills the transaction's debit and credit amounts according
// to the format's declared strategy.
func deriveAmounts(txn *model.ImportedTransaction, row map[string]string, format model.RawBankFormat, rowNum int) []string {
	switch format.Strategy {
	case model.AmountDebitCredit:
		// Each column parsed independently; a missing value is zero.
		if debit, ok := ParseAmount(rowValue(row, format.DebitColumn)); ok {
			txn.Debit = debit
		}
		if credit, ok := ParseAmount(rowValue(row, format.CreditColumn)); ok {
			txn.Credit = credit
		}
		return nil

	case model.AmountWithType:
		amount, ok := ParseAmount(rowValue(row, format.AmountColumn))
		if !ok {
			return []string{fmt.Sprintf("row %d: unparseable amount %q", rowNum, rowValue(row, format.AmountColumn))}
		}
		txn.TypeLabel = strings.TrimSpace(rowValue(row, format.TypeColumn))
		applyTypeLabel(txn, amount)
		return nil

	case model.AmountSigned:
		amount, ok := ParseAmount(rowValue(row, format.AmountColumn))
		if !ok {
			return []string{fmt.Sprintf("row %d: unparseable amount %q", rowNum, rowValue(row, format.AmountColumn))}
		}
		applySign(txn, amount)
		return nil
	}
	return []string{fmt.Sprintf("row %d: unknown amount strategy %q", rowNum, format.Strategy)}
}

// applyTypeLabel routes an amount to debit or credit by the row's type
// indicator, falling back to the sign of the amount when the label is not
// recognized.
func applyTypeLabel(txn *model.ImportedTransaction, amount decimal.Decimal) {
	label := strings.ToUpper(txn.TypeLabel)
	for _, l := range debitLabels {
		if label == l {
			txn.Debit = amount.Abs()
			return
		}
	}
	for _, l := range creditLabels {
		if label == l {
			txn.Credit = amount.Abs()
			return
		}
	}
	applySign(txn, amount)
}

// applySign routes a signed amount: negative is a debit, non-negative a
// credit.
func applySign(txn *model.ImportedTransaction, amount decimal.Decimal) {
	if amount.IsNegative() {
		txn.Debit = amount.Abs()
		return
	}
	txn.Credit = amount
}

// validateTransaction applies the row-level business checks. Unbalanced or
// negative amounts reject the row; stale dates, future dates and oversized
// descriptions only flag it.
func validateTransaction(txn *model.ImportedTransaction, rowNum int, warns []string) ([]string, []string) {
	var errs []string

	if txn.Debit.IsNegative() || txn.Credit.IsNegative() {
		errs = append(errs, fmt.Sprintf("row %d: negative debit or credit amount", rowNum))
	}
	if txn.Debit.IsZero() && txn.Credit.IsZero() {
		errs = append(errs, fmt.Sprintf("row %d: transaction has neither a debit nor a credit amount", rowNum))
	}
	if txn.Debit.IsPositive() && txn.Credit.IsPositive() {
		errs = append(errs, fmt.Sprintf("row %d: transaction has both a debit and a credit amount", rowNum))
	}

	now := time.Now().UTC()
	if txn.Date.After(now) {
		warns = append(warns, fmt.Sprintf("row %d: transaction is future-dated (%s)", rowNum, txn.Date.Format("2006-01-02")))
	}
	if txn.Date.Before(now.AddDate(-staleTransactionAge, 0, 0)) {
		warns = append(warns, fmt.Sprintf("row %d: transaction is older than %d years (%s)", rowNum, staleTransactionAge, txn.Date.Format("2006-01-02")))
	}
	if len(txn.Description) > maxDescriptionLength {
		warns = append(warns, fmt.Sprintf("row %d: description longer than %d characters", rowNum, maxDescriptionLength))
	}

	return errs, warns
}

// splitStatementLine tokenizes one statement line with the minimal CSV
// grammar: split on commas, trim whitespace, strip one pair of surrounding
// quotes. Embedded commas inside quoted fields are out of scope for this
// parser; statement exports from the supported banks do not produce them.
func splitStatementLine(line string) []string {
	parts := strings.Split(line, ",")
	fields := make([]string, len(parts))
	for i, part := range parts {
		field := strings.TrimSpace(part)
		if len(field) >= 2 && field[0] == '"' && field[len(field)-1] == '"' {
			field = field[1 : len(field)-1]
		}
		fields[i] = strings.TrimSpace(field)
	}
	return fields
}

// nonBlankLines splits raw text into trimmed, non-blank lines.
func nonBlankLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// buildRow zips header names and field values into a key/value record. Rows
// shorter than the header leave the trailing keys empty; extra fields are
// dropped.
func buildRow(header, fields []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, key := range header {
		if key == "" {
			continue
		}
		if i < len(fields) {
			row[key] = fields[i]
		} else {
			row[key] = ""
		}
	}
	return row
}

// rowValue fetches a column value case-insensitively, so header casing
// differences do not lose data.
func rowValue(row map[string]string, column string) string {
	if v, ok := row[column]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, column) {
			return v
		}
	}
	return ""
}

// missingColumns returns the format-declared column names absent from the
// parsed header, matched case-insensitively. A misconfigured format fails
// fast instead of silently treating missing columns as empty.
func missingColumns(header []string, required []string) []string {
	var missing []string
	for _, col := range required {
		found := false
		for _, h := range header {
			if strings.EqualFold(h, col) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col)
		}
	}
	return missing
}
