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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pohlai88/reconcile/model"
)

func TestValidateMatchCleanPair(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txn := debitTxn("500.00", date, "Supplier payment", "")
	bill := candidate(model.KindBill, "500.00", date, "Supplier payment")

	v := ValidateMatch(txn, bill)

	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	assert.Empty(t, v.Warnings)
}

func TestValidateMatchDirectionMismatch(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txn := debitTxn("500.00", date, "Supplier payment", "")
	invoice := candidate(model.KindInvoice, "500.00", date, "Supplier payment")

	v := ValidateMatch(txn, invoice)

	assert.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "direction mismatch")
	assert.Contains(t, v.Errors[0], "INVOICE")
	assert.Contains(t, v.Errors[0], "outgoing")
}

func TestValidateMatchIncomingDirectionMismatch(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txn := creditTxn("500.00", date, "Customer payment", "")
	bill := candidate(model.KindBill, "500.00", date, "Customer payment")

	v := ValidateMatch(txn, bill)

	assert.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "incoming")
}

func TestValidateMatchLargeAmountDeltaWarns(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txn := debitTxn("600.00", date, "Supplier payment", "")
	bill := candidate(model.KindBill, "500.00", date, "Supplier payment")

	v := ValidateMatch(txn, bill)

	// A 20% delta is suspicious but still committable.
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "amount differs by 20%")
}

func TestValidateMatchLargeDateDeltaWarns(t *testing.T) {
	txn := debitTxn("500.00", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "Supplier payment", "")
	bill := candidate(model.KindBill, "500.00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Supplier payment")

	v := ValidateMatch(txn, bill)

	assert.True(t, v.Valid)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "dates differ by 60 days")
}

func TestValidateMatchSmallDeltasDoNotWarn(t *testing.T) {
	txn := debitTxn("505.00", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "Supplier payment", "")
	bill := candidate(model.KindBill, "500.00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Supplier payment")

	v := ValidateMatch(txn, bill)

	assert.True(t, v.Valid)
	assert.Empty(t, v.Warnings)
}

func TestValidateMatchAccumulatesWarnings(t *testing.T) {
	txn := debitTxn("700.00", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "Supplier payment", "")
	bill := candidate(model.KindBill, "500.00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Supplier payment")

	v := ValidateMatch(txn, bill)

	assert.True(t, v.Valid)
	assert.Len(t, v.Warnings, 2)
}
