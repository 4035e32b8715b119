// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/cashflow90/internal/model"
)

// FormatCurrency formats a USD amount rounded to whole dollars.
// e.g., 1234.5 -> "$1,235", -980 -> "-$980"
func FormatCurrency(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + FormatNumber(-n)
	}
	return "$" + FormatNumber(n)
}

// FormatSignedCurrency is FormatCurrency with an explicit plus sign.
func FormatSignedCurrency(v float64) string {
	if math.Round(v) > 0 {
		return "+" + FormatCurrency(v)
	}
	return FormatCurrency(v)
}

// FormatCompact formats a USD amount with a k/M suffix for chart axes and cards.
// e.g., 12345 -> "$12.3k", 1234567 -> "$1.2M", -500 -> "-$500"
func FormatCompact(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fk", sign, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

// FormatOptionalCurrency renders a missing amount as "n/a".
func FormatOptionalCurrency(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return FormatCurrency(*v)
}

// FormatRunway formats a runway as a day count.
func FormatRunway(r model.Runway) string {
	if r.Days == 1 && !r.Beyond {
		return "1 day"
	}
	return r.String() + " days"
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

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatParameter renders a scenario parameter value without trailing zeros.
func FormatParameter(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SeverityIcon returns a one-character marker for an alert severity.
func SeverityIcon(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "!!"
	case model.SeverityWarning:
		return "!"
	default:
		return "i"
	}
}
