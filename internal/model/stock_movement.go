package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement is an immutable event in the stock ledger.
// Type: "sale" | "delivery_return" | "order" | "adjustment"
// Movements are never modified or deleted — corrections create inverse rows.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Quantity    int       `gorm:"not null"` // signed delta
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string    `gorm:"not null"`
	// ReferenceID links to the originating sale, delivery or order
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}
