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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pohlai88/reconcile/model"
)

func TestKnownFormatsAreValid(t *testing.T) {
	formats := KnownFormats()
	require.NotEmpty(t, formats)
	for _, f := range formats {
		assert.NoError(t, f.Validate(), "format %q", f.Name)
	}
}

func TestFormatByName(t *testing.T) {
	f, ok := FormatByName("Maybank")
	require.True(t, ok)
	assert.Equal(t, "maybank", f.Name)
	assert.Equal(t, model.AmountDebitCredit, f.Strategy)

	_, ok = FormatByName("no-such-bank")
	assert.False(t, ok)
}

func TestDetectFormatMaybank(t *testing.T) {
	raw := "Date,Description,Reference,Debit,Credit,Balance\n15/01/2024,Salary,,\n"
	f, ok := DetectFormat(raw)
	require.True(t, ok)
	assert.Equal(t, "maybank", f.Name)
}

func TestDetectFormatToleratesHeaderVariations(t *testing.T) {
	// "Transaction Date" vs "Date": bidirectional substring matching.
	raw := "Transaction Date,Transaction Details,Amount,Type\n"
	f, ok := DetectFormat(raw)
	require.True(t, ok)
	assert.Equal(t, "cimb", f.Name)
}

func TestDetectFormatFallsBackToGeneric(t *testing.T) {
	raw := "Foo,Bar,Baz\n1,2,3\n"
	f, ok := DetectFormat(raw)
	require.True(t, ok)
	assert.Equal(t, GenericFormatName, f.Name)
}

func TestDetectFormatEmptyInput(t *testing.T) {
	_, ok := DetectFormat("")
	assert.False(t, ok)

	_, ok = DetectFormat("\n\n  \n")
	assert.False(t, ok)
}

func TestDetectFormatIdempotent(t *testing.T) {
	raw := "Date,Description,Reference,Debit,Credit,Balance\n"
	first, ok1 := DetectFormat(raw)
	require.True(t, ok1)
	for i := 0; i < 5; i++ {
		again, ok := DetectFormat(raw)
		require.True(t, ok)
		assert.Equal(t, first.Name, again.Name)
	}
}

func TestRawBankFormatStrategyInvariant(t *testing.T) {
	// A format mixing two amount-representation strategies must not validate.
	f := model.RawBankFormat{
		Name:              "broken",
		Strategy:          model.AmountDebitCredit,
		DateColumn:        "Date",
		DescriptionColumn: "Description",
		DebitColumn:       "Debit",
		CreditColumn:      "Credit",
		AmountColumn:      "Amount",
	}
	assert.Error(t, f.Validate())

	f = model.RawBankFormat{
		Name:              "missing-type",
		Strategy:          model.AmountWithType,
		DateColumn:        "Date",
		DescriptionColumn: "Description",
		AmountColumn:      "Amount",
	}
	assert.Error(t, f.Validate())

	f = model.RawBankFormat{
		Name:              "signed",
		Strategy:          model.AmountSigned,
		DateColumn:        "Date",
		DescriptionColumn: "Description",
		AmountColumn:      "Amount",
	}
	assert.NoError(t, f.Validate())
}
