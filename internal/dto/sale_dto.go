package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity"  validate:"required,min=1"`
}

// CreateSaleRequest covers both cash and credit sales (POST /directeSale).
// amountPaid is a raw string: the reconciliation core parses and validates it
// so "abc", negatives and fractional FCFA fail the same way everywhere.
type CreateSaleRequest struct {
	SellerID   string            `json:"sellerId"   validate:"required,uuid"`
	CustomerID *string           `json:"customerId" validate:"omitempty,uuid"`
	IsCredit   bool              `json:"isCredit"`
	AmountPaid string            `json:"amountPaid" validate:"required"`
	TenantID   string            `json:"tenantId"   validate:"required,uuid"`
	SaleItems  []SaleItemRequest `json:"saleItems"  validate:"required,min=1,dive"`
}

// ApplyPaymentRequest is the body of PATCH /directeSale/:id/payment.
type ApplyPaymentRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// SaleFilter is bound from the query string of the paginated sale listing.
type SaleFilter struct {
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=200"`
	Status string `form:"status"` // UNPAID | PARTIAL | PAID | all
	Date   string `form:"date"`   // YYYY-MM-DD; empty = no date filter
	Credit string `form:"credit"` // "true" = credit sales only
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type CreditPaymentResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt string          `json:"createdAt"`
}

// SaleResponse is the authoritative server view of a sale after any mutation.
// Clients replace their local copy with this wholesale — dueAmount and status
// are never recomputed client-side.
type SaleResponse struct {
	ID         string                  `json:"id"`
	SellerID   string                  `json:"sellerId"`
	CustomerID *string                 `json:"customerId"`
	TenantID   string                  `json:"tenantId"`
	IsCredit   bool                    `json:"isCredit"`
	TotalPrice decimal.Decimal         `json:"totalPrice"`
	AmountPaid decimal.Decimal         `json:"amountPaid"`
	DueAmount  decimal.Decimal         `json:"dueAmount"`
	Status     string                  `json:"status"`
	Items      []SaleItemResponse      `json:"saleItems"`
	Payments   []CreditPaymentResponse `json:"payments,omitempty"`
	CreatedAt  string                  `json:"createdAt"`
	UpdatedAt  string                  `json:"updatedAt"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
