// Package utils provides shared utility functions.
package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders amount rounded half-away-from-zero to places decimals
// with comma thousands separators, e.g. 1234567.891 -> "1,234,567.89".
func FormatAmount(amount float64, places int32) string {
	str := decimal.NewFromFloat(amount).StringFixed(places)

	negative := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")

	intPart, decPart, hasDec := strings.Cut(str, ".")
	result := groupThousands(intPart)
	if hasDec {
		result += "." + decPart
	}
	if negative && strings.Trim(result, "0.,") != "" {
		result = "-" + result
	}
	return result
}

// FormatMoney formats a currency amount with a leading "$" and two decimals.
func FormatMoney(amount float64) string {
	s := FormatAmount(amount, 2)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// FormatSigned prefixes positive values with "+".
func FormatSigned(amount float64, places int32) string {
	s := FormatAmount(amount, places)
	if amount > 0 && !strings.HasPrefix(s, "-") && strings.Trim(s, "0.,") != "" {
		return "+" + s
	}
	return s
}

// FormatPercent formats a value already expressed in percent.
func FormatPercent(value float64, places int32) string {
	return FormatAmount(value, places) + "%"
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
