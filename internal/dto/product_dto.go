package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string          `json:"name"          validate:"required,min=1,max=200"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"         validate:"required,min=0"`
	PurchasePrice decimal.Decimal `json:"purchasePrice" validate:"min=0"`
	Stock         int             `json:"stock"         validate:"min=0"`
	MinStock      int             `json:"minStock"      validate:"min=0"`
	CategoryID    *string         `json:"categoryId"    validate:"omitempty,uuid"`
	SupplierID    *string         `json:"supplierId"    validate:"omitempty,uuid"`
	TenantID      string          `json:"tenantId"      validate:"required,uuid"`
}

type UpdateProductRequest struct {
	Name          string           `json:"name"          validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"         validate:"omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice" validate:"omitempty"`
	MinStock      *int             `json:"minStock"      validate:"omitempty,min=0"`
	CategoryID    *string          `json:"categoryId"    validate:"omitempty,uuid"`
	SupplierID    *string          `json:"supplierId"    validate:"omitempty,uuid"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"minStock"`
	CategoryID    *string         `json:"categoryId"`
	SupplierID    *string         `json:"supplierId"`
	TenantID      string          `json:"tenantId"`
	Active        bool            `json:"active"`
}
