// Package export renders receipts and sales reports as PDF and XLSX documents.
package export

import (
	"strconv"
	"strings"
)

// Money formats an amount in the smallest currency unit with dot thousands separators.
// Ej: 25000 → "Rp 25.000"
func Money(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	n := len(s)
	var b strings.Builder
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
