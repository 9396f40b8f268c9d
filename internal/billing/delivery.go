package billing

// DeliveryStatus is derived per line from (quantity, delivered, returned),
// mirroring how PaymentStatus is derived from (totalPrice, amountPaid).
type DeliveryStatus string

const (
	NotDelivered       DeliveryStatus = "NOT_DELIVERED"
	PartiallyDelivered DeliveryStatus = "PARTIALLY_DELIVERED"
	FullyDelivered     DeliveryStatus = "FULLY_DELIVERED"
	WithReturns        DeliveryStatus = "WITH_RETURNS"
)

// DeliveryLine is the reconciliation view of one delivery line item.
type DeliveryLine struct {
	Quantity  int // ordered
	Delivered int
	Returned  int
}

// ValidateDeliveryLine enforces the allocation invariant
// delivered + returned <= quantity. Submission is blocked while any line
// fails — validation runs over every line before a single write happens.
func ValidateDeliveryLine(l DeliveryLine) error {
	if l.Delivered < 0 || l.Returned < 0 {
		return ErrNegativeQuantity
	}
	if l.Delivered+l.Returned > l.Quantity {
		return ErrOverAllocation
	}
	return nil
}

// ResolveDeliveryStatus derives the line status. Any return wins over the
// delivered/partial distinction.
func ResolveDeliveryStatus(l DeliveryLine) DeliveryStatus {
	switch {
	case l.Returned > 0:
		return WithReturns
	case l.Delivered == 0:
		return NotDelivered
	case l.Delivered >= l.Quantity:
		return FullyDelivered
	default:
		return PartiallyDelivered
	}
}
