// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats a USD amount rounded to whole dollars.
// e.g., 10000 -> "$10,000", 6100.4 -> "$6,100"
func FormatMoney(v decimal.Decimal) string {
	whole := v.Round(0).IntPart()
	if whole < 0 {
		return "-$" + FormatNumber(-whole)
	}
	return "$" + FormatNumber(whole)
}

// FormatMoneyCents formats a USD amount with two decimal places.
// e.g., 6100 -> "$6,100.00"
func FormatMoneyCents(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	s := v.StringFixed(2)
	dot := strings.IndexByte(s, '.')
	whole, _ := strconv.ParseInt(s[:dot], 10, 64)
	return sign + "$" + FormatNumber(whole) + s[dot:]
}

// FormatMoneyCompact formats a USD amount with a magnitude suffix.
// e.g., 1234 -> "$1.2K", 1234567 -> "$1.2M"
func FormatMoneyCompact(v decimal.Decimal) string {
	f := v.InexactFloat64()
	abs := f
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", f/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("$%.1fM", f/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("$%.1fK", f/1_000)
	default:
		return fmt.Sprintf("$%.0f", f)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 ratio as a percentage string.
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// FormatRatio formats part/whole as a percentage, or "-" when whole is zero.
func FormatRatio(part, whole decimal.Decimal) string {
	if whole.IsZero() {
		return "-"
	}
	return FormatPercent(part.Div(whole))
}

// FormatDate formats a close date, or "—" when undefined.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02")
}

// Truncate shortens s to max runes, ending in "…" when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
