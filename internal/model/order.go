package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle: "PENDING" → "COMPLETED" (terminal) or "CANCELED" (terminal).
type Order struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID uuid.UUID       `gorm:"type:uuid;index;not null"`
	TenantID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status     string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	IsCredit   bool            `gorm:"not null;default:false"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,0);not null"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(12,0);not null;default:0"`
	DueAmount  decimal.Decimal `gorm:"type:decimal(12,0);not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductName string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,0);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,0);not null"`
}
