// Package cli formats and renders payoff plans for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCurrency formats a dollar amount with thousands separators and cents.
// e.g., 1234.5 -> "$1,234.50", -20 -> "-$20.00"
func FormatCurrency(v float64) string {
	cents := int64(math.Round(math.Abs(v) * 100))
	s := "$" + groupThousands(cents/100) + fmt.Sprintf(".%02d", cents%100)
	if v < 0 && cents != 0 {
		return "-" + s
	}
	return s
}

// FormatWholeCurrency formats a rounded amount without cents, e.g. "$12,345"
func FormatWholeCurrency(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + groupThousands(-n)
	}
	return "$" + groupThousands(n)
}

// FormatMonths formats a month count as years and months.
// e.g., 27 -> "2y 3m", 12 -> "1y", 5 -> "5m"
func FormatMonths(n int) string {
	if n <= 0 {
		return "0m"
	}
	years, months := n/12, n%12
	switch {
	case years == 0:
		return fmt.Sprintf("%dm", months)
	case months == 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dy %dm", years, months)
	}
}

// FormatPercent formats a rate given in percent, e.g. 19.9 -> "19.90%"
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
