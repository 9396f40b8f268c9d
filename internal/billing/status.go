package billing

import "github.com/shopspring/decimal"

// PaymentStatus is derived from (totalPrice, amountPaid) — never stored.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "UNPAID"
	StatusPartial PaymentStatus = "PARTIAL"
	StatusPaid    PaymentStatus = "PAID"
)

// ResolveStatus maps (totalPrice, amountPaid) to the payment status and the
// outstanding due amount. amountPaid == totalPrice resolves to PAID, never
// PARTIAL. The due amount is clamped to zero for display; an amountPaid above
// totalPrice is an invalid business state that the submission validators
// reject before it can ever be persisted.
func ResolveStatus(totalPrice, amountPaid decimal.Decimal) (PaymentStatus, decimal.Decimal) {
	due := totalPrice.Sub(amountPaid)
	if due.IsNegative() {
		due = decimal.Zero
	}
	switch {
	case amountPaid.GreaterThanOrEqual(totalPrice):
		return StatusPaid, due
	case amountPaid.IsZero():
		return StatusUnpaid, due
	default:
		return StatusPartial, due
	}
}

// Line is one sale line as seen by the aggregator: quantity × unit price.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal returns quantity × unitPrice for a single line.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeTotal sums quantity × unitPrice across all lines in decimal
// arithmetic. An empty list yields zero — rejecting empty sales is the
// submission validator's job, not the aggregator's. Order-independent.
func ComputeTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Quantity, l.UnitPrice))
	}
	return total
}
