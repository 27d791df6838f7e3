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
	"strings"

	"github.com/pohlai88/reconcile/model"
)

// GenericFormatName is the name of the fallback format returned when no
// known layout matches a statement's headers.
const GenericFormatName = "generic"

// detectionThreshold is the minimum ratio of a format's required columns
// that must appear in a header set for the format to be selected.
const detectionThreshold = 0.7

// KnownFormats returns the catalog of named bank layouts, one per amount
// strategy plus the generic fallback. The catalog is rebuilt per call so
// callers cannot mutate shared state.
func KnownFormats() []model.RawBankFormat {
	return []model.RawBankFormat{
		{
			Name:              "maybank",
			Strategy:          model.AmountDebitCredit,
			DateColumn:        "Date",
			DescriptionColumn: "Description",
			ReferenceColumn:   "Reference",
			BalanceColumn:     "Balance",
			DebitColumn:       "Debit",
			CreditColumn:      "Credit",
			DateLayout:        LayoutDayMonthYearSlash,
		},
		{
			Name:              "cimb",
			Strategy:          model.AmountWithType,
			DateColumn:        "Transaction Date",
			DescriptionColumn: "Transaction Details",
			ReferenceColumn:   "Cheque No",
			AmountColumn:      "Amount",
			TypeColumn:        "Type",
			DateLayout:        LayoutDayMonthYearDash,
		},
		{
			Name:              "publicbank",
			Strategy:          model.AmountSigned,
			DateColumn:        "Txn Date",
			DescriptionColumn: "Particulars",
			BalanceColumn:     "Running Balance",
			AmountColumn:      "Txn Amount",
			DateLayout:        LayoutDayMonthAbbrYear,
		},
		GenericFormat(),
	}
}

// GenericFormat returns the fallback layout: ISO dates and a single signed
// amount column. It is used when auto-detection finds no better candidate.
func GenericFormat() model.RawBankFormat {
	return model.RawBankFormat{
		Name:              GenericFormatName,
		Strategy:          model.AmountSigned,
		DateColumn:        "Date",
		DescriptionColumn: "Description",
		ReferenceColumn:   "Reference",
		AmountColumn:      "Amount",
		DateLayout:        LayoutISODate,
	}
}

// FormatByName looks up a known format by its name, case-insensitively.
func FormatByName(name string) (model.RawBankFormat, bool) {
	for _, f := range KnownFormats() {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return model.RawBankFormat{}, false
}

// DetectFormat infers the most likely bank layout from a statement's header
// row. Each known format is scored by how many of its required columns
// appear among the headers; a bidirectional substring match tolerates header
// variations like "Transaction Date" vs "Date". The first format clearing
// the detection threshold wins; otherwise the generic fallback is returned.
// Detection reports ok=false only when the text has no header row at all.
func DetectFormat(raw string) (model.RawBankFormat, bool) {
	headers := headerFields(raw)
	if len(headers) == 0 {
		return model.RawBankFormat{}, false
	}

	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(h)
	}

	for _, format := range KnownFormats() {
		if format.Name == GenericFormatName {
			continue
		}
		required := format.RequiredColumns()
		matched := 0
		for _, col := range required {
			if headerMatches(lowered, strings.ToLower(col)) {
				matched++
			}
		}
		if float64(matched)/float64(len(required)) >= detectionThreshold {
			return format, true
		}
	}

	return GenericFormat(), true
}

// headerFields extracts the first non-blank line of raw statement text as a
// list of column names.
func headerFields(raw string) []string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		return splitStatementLine(line)
	}
	return nil
}

// headerMatches reports whether the wanted column name appears among the
// headers, in either containment direction.
func headerMatches(loweredHeaders []string, want string) bool {
	for _, header := range loweredHeaders {
		if header == "" {
			continue
		}
		if strings.Contains(header, want) || strings.Contains(want, header) {
			return true
		}
	}
	return false
}
