package dto

import "github.com/shopspring/decimal"

// DashboardResponse aggregates one day of activity for a tenant.
// All figures are SQL aggregates — no stored counters to drift.
type DashboardResponse struct {
	Date              string          `json:"date"`
	SaleCount         int64           `json:"saleCount"`
	Revenue           decimal.Decimal `json:"revenue"`
	AmountCollected   decimal.Decimal `json:"amountCollected"`
	CreditOutstanding decimal.Decimal `json:"creditOutstanding"`
	UnpaidCount       int64           `json:"unpaidCount"`
	PartialCount      int64           `json:"partialCount"`
	PaidCount         int64           `json:"paidCount"`
}
