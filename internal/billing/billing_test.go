package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ── ResolveStatus ─────────────────────────────────────────────────────────────

func TestResolveStatus_Unpaid(t *testing.T) {
	status, due := ResolveStatus(d(10000), d(0))
	assert.Equal(t, StatusUnpaid, status)
	assert.True(t, due.Equal(d(10000)))
}

func TestResolveStatus_Partial(t *testing.T) {
	status, due := ResolveStatus(d(10000), d(4000))
	assert.Equal(t, StatusPartial, status)
	assert.True(t, due.Equal(d(6000)))
}

func TestResolveStatus_PaidBoundaryInclusive(t *testing.T) {
	// amountPaid exactly equal to totalPrice is PAID, never PARTIAL
	status, due := ResolveStatus(d(10000), d(10000))
	assert.Equal(t, StatusPaid, status)
	assert.True(t, due.IsZero())
}

func TestResolveStatus_OverpaymentClampsDueForDisplay(t *testing.T) {
	// The resolver clamps for display; validators reject this state upstream.
	status, due := ResolveStatus(d(10000), d(12000))
	assert.Equal(t, StatusPaid, status)
	assert.True(t, due.IsZero())
}

func TestResolveStatus_DueIsExactDifference(t *testing.T) {
	for paid := int64(0); paid <= 500; paid += 50 {
		_, due := ResolveStatus(d(500), d(paid))
		require.True(t, due.Equal(d(500-paid)), "paid=%d", paid)
	}
}

// ── ComputeTotal ──────────────────────────────────────────────────────────────

func TestComputeTotal_SumsLines(t *testing.T) {
	total := ComputeTotal([]Line{
		{Quantity: 2, UnitPrice: d(1500)},
		{Quantity: 1, UnitPrice: d(1000)},
	})
	assert.True(t, total.Equal(d(4000)))
}

func TestComputeTotal_Empty(t *testing.T) {
	assert.True(t, ComputeTotal(nil).IsZero())
}

func TestComputeTotal_OrderIndependent(t *testing.T) {
	lines := []Line{
		{Quantity: 3, UnitPrice: d(250)},
		{Quantity: 1, UnitPrice: d(9999)},
		{Quantity: 7, UnitPrice: d(125)},
	}
	reversed := []Line{lines[2], lines[1], lines[0]}
	assert.True(t, ComputeTotal(lines).Equal(ComputeTotal(reversed)))
}

// ── BuildPaymentRequest ───────────────────────────────────────────────────────

func TestBuildPaymentRequest_Valid(t *testing.T) {
	saleID := uuid.New()
	req, err := BuildPaymentRequest(saleID, d(6000), "4000")
	require.NoError(t, err)
	assert.Equal(t, saleID, req.SaleID)
	assert.True(t, req.Amount.Equal(d(4000)))
}

func TestBuildPaymentRequest_ExactDueSettles(t *testing.T) {
	req, err := BuildPaymentRequest(uuid.New(), d(6000), "6000")
	require.NoError(t, err)
	assert.True(t, req.Amount.Equal(d(6000)))
}

func TestBuildPaymentRequest_Rejections(t *testing.T) {
	cases := []struct {
		name string
		due  decimal.Decimal
		raw  string
		want error
	}{
		{"zero", d(6000), "0", ErrInvalidAmount},
		{"negative", d(6000), "-100", ErrInvalidAmount},
		{"non-numeric", d(6000), "abc", ErrInvalidAmount},
		{"empty", d(6000), "", ErrInvalidAmount},
		{"fractional", d(6000), "100.50", ErrInvalidAmount},
		{"exceeds due", d(6000), "6001", ErrExceedsDue},
		{"paid sale", d(0), "1", ErrExceedsDue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPaymentRequest(uuid.New(), tc.due, tc.raw)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuildPaymentRequest_NilSaleID(t *testing.T) {
	_, err := BuildPaymentRequest(uuid.Nil, d(100), "50")
	assert.ErrorIs(t, err, ErrMissingField)
}

// ── Payment lifecycle scenario ────────────────────────────────────────────────

func TestPaymentLifecycle_UnpaidToPartialToPaid(t *testing.T) {
	total := d(10000)
	paid := d(0)

	status, due := ResolveStatus(total, paid)
	require.Equal(t, StatusUnpaid, status)
	require.True(t, due.Equal(d(10000)))

	// First installment
	req, err := BuildPaymentRequest(uuid.New(), due, "4000")
	require.NoError(t, err)
	paid = paid.Add(req.Amount)
	status, due = ResolveStatus(total, paid)
	require.Equal(t, StatusPartial, status)
	require.True(t, due.Equal(d(6000)))

	// Settling installment
	req, err = BuildPaymentRequest(uuid.New(), due, "6000")
	require.NoError(t, err)
	paid = paid.Add(req.Amount)
	status, due = ResolveStatus(total, paid)
	require.Equal(t, StatusPaid, status)
	require.True(t, due.IsZero())

	// PAID is terminal — one more franc is an overpay
	_, err = BuildPaymentRequest(uuid.New(), due, "1")
	assert.ErrorIs(t, err, ErrExceedsDue)
}

// ── Delivery reconciliation ───────────────────────────────────────────────────

func TestValidateDeliveryLine(t *testing.T) {
	assert.NoError(t, ValidateDeliveryLine(DeliveryLine{Quantity: 10, Delivered: 6, Returned: 4}))
	assert.NoError(t, ValidateDeliveryLine(DeliveryLine{Quantity: 10, Delivered: 10, Returned: 0}))
	assert.ErrorIs(t, ValidateDeliveryLine(DeliveryLine{Quantity: 10, Delivered: 8, Returned: 3}), ErrOverAllocation)
	assert.ErrorIs(t, ValidateDeliveryLine(DeliveryLine{Quantity: 10, Delivered: -1, Returned: 0}), ErrNegativeQuantity)
	assert.ErrorIs(t, ValidateDeliveryLine(DeliveryLine{Quantity: 10, Delivered: 0, Returned: -2}), ErrNegativeQuantity)
}

func TestResolveDeliveryStatus(t *testing.T) {
	assert.Equal(t, FullyDelivered, ResolveDeliveryStatus(DeliveryLine{Quantity: 10, Delivered: 10}))
	assert.Equal(t, PartiallyDelivered, ResolveDeliveryStatus(DeliveryLine{Quantity: 10, Delivered: 7}))
	assert.Equal(t, WithReturns, ResolveDeliveryStatus(DeliveryLine{Quantity: 10, Delivered: 6, Returned: 4}))
	assert.Equal(t, NotDelivered, ResolveDeliveryStatus(DeliveryLine{Quantity: 10}))
}

// ── Money ─────────────────────────────────────────────────────────────────────

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount(" 12500 ")
	require.NoError(t, err)
	assert.True(t, v.Equal(d(12500)))

	_, err = ParseAmount("12,5")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormatFCFA(t *testing.T) {
	assert.Equal(t, "12 500 FCFA", FormatFCFA(d(12500)))
	assert.Equal(t, "0 FCFA", FormatFCFA(d(0)))
	assert.Equal(t, "1 000 000 FCFA", FormatFCFA(d(1000000)))
	assert.Equal(t, "-4 000 FCFA", FormatFCFA(d(-4000)))
}
