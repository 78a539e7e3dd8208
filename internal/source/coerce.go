package source

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

// parseValue parses a deal value. Empty, malformed and negative input all
// coerce to zero; ok is false when coercion happened on non-empty input.
func parseValue(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, true
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() {
		return decimal.Zero, false
	}
	return v, true
}

// parseDate returns the calendar date in s, at midnight UTC. The zero time
// means undefined. When serial is set a bare number is an Excel serial date.
func parseDate(s string, serial bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}

	if serial {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			t, err := excelize.ExcelDateToTime(f, false)
			if err != nil {
				return time.Time{}, false
			}
			return truncateDay(t), true
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}

	// Timestamps with a trailing time component, e.g. "2025-07-01 00:00".
	if i := strings.IndexAny(s, " T"); i == len("2006-01-02") {
		if t, err := time.Parse("2006-01-02", s[:i]); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
