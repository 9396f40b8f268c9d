package dto

import "github.com/shopspring/decimal"

type OrderItemResponse struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type OrderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customerId"`
	TenantID   string              `json:"tenantId"`
	Status     string              `json:"status"`
	IsCredit   bool                `json:"isCredit"`
	TotalPrice decimal.Decimal     `json:"totalPrice"`
	AmountPaid decimal.Decimal     `json:"amountPaid"`
	DueAmount  decimal.Decimal     `json:"dueAmount"`
	// PaymentStatus is derived from (totalPrice, amountPaid) on every read
	PaymentStatus string              `json:"paymentStatus"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     string              `json:"createdAt"`
	UpdatedAt     string              `json:"updatedAt"`
}
