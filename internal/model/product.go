package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry scoped to a tenant. Prices are FCFA whole
// amounts — decimal(12,0) — and all arithmetic on them stays in decimal.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	// Price is the selling price; PurchasePrice feeds margin reporting.
	Price         decimal.Decimal `gorm:"type:decimal(12,0);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,0);not null;default:0"`
	Stock         int             `gorm:"not null;default:0"`
	// MinStock triggers a low-stock push notification when crossed.
	MinStock   int        `gorm:"not null;default:5"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index"`
	TenantID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	Active     bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
