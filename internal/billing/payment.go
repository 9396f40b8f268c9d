package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequest is the validated DTO for applying one credit payment to a
// sale. It is constructed exactly once per submission and applied atomically
// server-side; callers replace their whole local Sale with the response
// instead of decrementing the due amount themselves.
type PaymentRequest struct {
	SaleID uuid.UUID
	Amount decimal.Decimal
}

// BuildPaymentRequest parses and validates a raw amount input against the
// sale's current due amount.
//
//	ErrInvalidAmount — unparseable, fractional, zero or negative input
//	ErrExceedsDue    — amount strictly greater than dueAmount (no overpay)
//
// An amount exactly equal to dueAmount is accepted and settles the sale.
func BuildPaymentRequest(saleID uuid.UUID, dueAmount decimal.Decimal, rawAmount string) (PaymentRequest, error) {
	if saleID == uuid.Nil {
		return PaymentRequest{}, ErrMissingField
	}
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return PaymentRequest{}, err
	}
	if !amount.IsPositive() {
		return PaymentRequest{}, ErrInvalidAmount
	}
	if amount.GreaterThan(dueAmount) {
		return PaymentRequest{}, ErrExceedsDue
	}
	return PaymentRequest{SaleID: saleID, Amount: amount}, nil
}
