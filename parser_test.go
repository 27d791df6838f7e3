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
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"5000.00", "5000", true},
		{"RM 1,234.56", "1234.56", true},
		{"$-42.00", "-42", true},
		{"(1.50)", "1.5", true},
		{"0", "0", true},
		{"0.00", "0", true},
		{"", "", false},
		{"-", "", false},
		{".", "", false},
		{"abc", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseAmount(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got.String(), "input %q", tc.in)
		}
	}
}

func TestParseAmountDistinguishesMissingFromZero(t *testing.T) {
	zero, ok := ParseAmount("0.00")
	require.True(t, ok)
	assert.True(t, zero.IsZero())

	_, ok = ParseAmount("")
	assert.False(t, ok)
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"15/01/2024",
		"15-01-2024",
		"15-Jan-2024",
		"15-JAN-2024",
		"15-jan-2024",
		"2024-01-15",
	} {
		got, ok := ParseDate(in, "")
		require.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestParseDatePreferredLayoutFirst(t *testing.T) {
	// An American-style layout is only honored when the format declares it.
	got, ok := ParseDate("01/15/2024", "01/02/2006")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateGenericFallback(t *testing.T) {
	got, ok := ParseDate("2024-01-15T10:30:00Z", "")
	require.True(t, ok)
	// Timestamps are truncated to the calendar date.
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateInvalid(t *testing.T) {
	for _, in := range []string{"", "not a date", "32/01/2024", "31-Feb-2024", "15-Xyz-2024"} {
		_, ok := ParseDate(in, "")
		assert.False(t, ok, "input %q", in)
	}
}

func TestParseDateDeterministic(t *testing.T) {
	first, ok1 := ParseDate("15/01/2024", "")
	second, ok2 := ParseDate("15/01/2024", "")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}
