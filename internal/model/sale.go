package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a direct sale (cash or credit).
//
// Invariants enforced by SaleService, not by the DB:
//   - Items is non-empty and TotalPrice == Σ item.TotalPrice
//   - cash sale  ⇒ CustomerID nil and AmountPaid == TotalPrice at creation
//   - credit sale ⇒ CustomerID set and 0 <= AmountPaid <= TotalPrice
//   - DueAmount is always server-derived (TotalPrice − AmountPaid); the
//     payment status is never stored, it is recomputed from these two fields.
type Sale struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SellerID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	TenantID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	IsCredit   bool            `gorm:"not null;default:false"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,0);not null"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(12,0);not null;default:0"`
	DueAmount  decimal.Decimal `gorm:"type:decimal(12,0);not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Customer *Customer       `gorm:"foreignKey:CustomerID"`
	Items    []SaleItem      `gorm:"foreignKey:SaleID"`
	Payments []CreditPayment `gorm:"foreignKey:SaleID"`
}

// SaleItem is immutable once the sale is persisted. ProductName and UnitPrice
// are snapshotted at sale time so later catalog edits cannot rewrite history.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductName string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,0);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,0);not null"`
}

// CreditPayment is one applied installment against a credit sale.
// Rows are append-only — corrections create new sales, never edits here.
type CreditPayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,0);not null"`
	CreatedAt time.Time
}
