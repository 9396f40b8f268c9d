// Package billing is the credit-sale reconciliation core shared by every
// call site that deals with money: direct sales, credit payments, deliveries,
// invoices and the dashboard. All amounts are FCFA and carried as
// shopspring decimals — never raw floats — so repeated additions and
// subtractions across totals cannot drift.
package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a raw user-supplied amount string into a decimal.
// FCFA has no minor unit, so fractional input is rejected outright rather
// than rounded. Returns ErrInvalidAmount for anything unparseable.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.Equal(d.Truncate(0)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatFCFA renders an amount for display, e.g. "12 500 FCFA".
// Pure projection — callers must never parse this back into arithmetic.
func FormatFCFA(amount decimal.Decimal) string {
	s := amount.Truncate(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + " FCFA"
}
