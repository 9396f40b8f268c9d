package billing

import "errors"

// Validation sentinels. Handlers map these to field-level 4xx responses;
// they must never surface as generic internal errors.
var (
	ErrInvalidAmount    = errors.New("amount must be a positive whole number")
	ErrExceedsDue       = errors.New("amount exceeds the outstanding due amount")
	ErrNegativeQuantity = errors.New("delivered and returned quantities cannot be negative")
	ErrOverAllocation   = errors.New("delivered plus returned exceeds the ordered quantity")
	ErrMissingField     = errors.New("missing required field")
)
