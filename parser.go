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
	"time"

	"github.com/shopspring/decimal"
)

// Date layout tags accepted by statement formats. The layouts mirror the
// export styles seen across bank statement downloads.
const (
	LayoutDayMonthYearSlash = "02/01/2006" // DD/MM/YYYY
	LayoutDayMonthYearDash  = "02-01-2006" // DD-MM-YYYY
	LayoutDayMonthAbbrYear  = "02-Jan-2006" // DD-MMM-YYYY
	LayoutISODate           = "2006-01-02" // YYYY-MM-DD
)

// knownDateLayouts is the order in which date layouts are tried when the
// format's preferred layout does not parse.
var knownDateLayouts = []string{
	LayoutDayMonthYearSlash,
	LayoutDayMonthYearDash,
	LayoutDayMonthAbbrYear,
	LayoutISODate,
}

// monthAbbreviations maps lower-cased three-letter month names for the
// DD-MMM-YYYY layout, which banks export with arbitrary casing ("15-JAN-2024").
var monthAbbreviations = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// genericDateLayouts are the last-resort layouts tried when no known
// statement layout matches.
var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseAmount parses a locale-tolerant monetary string. It strips every
// character except digits, the decimal point and the minus sign before
// parsing, so "RM 1,234.56" and "$-42.00" both parse. An empty or
// unparseable value returns ok=false, distinguishing "not present" from an
// explicit zero.
func ParseAmount(s string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseDate parses a statement date, trying the preferred layout first, then
// every known statement layout, then a short list of generic layouts as a
// last resort. The result is truncated to a calendar date in UTC. An
// unparseable date returns ok=false; it is a row-level problem, never fatal.
func ParseDate(s string, preferredLayout string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	layouts := knownDateLayouts
	if preferredLayout != "" {
		layouts = append([]string{preferredLayout}, knownDateLayouts...)
	}
	for _, layout := range layouts {
		if layout == LayoutDayMonthAbbrYear {
			if t, ok := parseDayMonthAbbrYear(s); ok {
				return t, true
			}
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return toDate(t), true
		}
	}
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toDate(t), true
		}
	}
	return time.Time{}, false
}

// parseDayMonthAbbrYear parses the DD-MMM-YYYY layout case-insensitively via
// the month abbreviation table.
func parseDayMonthAbbrYear(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	month, ok := monthAbbreviations[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return time.Time{}, false
	}
	day, ok := parseInt(strings.TrimSpace(parts[0]))
	if !ok || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year, ok := parseInt(strings.TrimSpace(parts[2]))
	if !ok || year < 1000 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31-Feb becomes 2-Mar); reject that.
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// parseInt is a minimal positive-integer parser for date components.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// toDate truncates a timestamp to a calendar date in UTC.
func toDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
