package model

import (
	"time"

	"github.com/google/uuid"
)

// Delivery status: "PENDING" | "IN_PROGRESS" | "VALIDATED".
// Line-level delivery statuses are derived, never stored (billing package).
type Delivery struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID          *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryPersonID *uuid.UUID `gorm:"type:uuid;index"`
	TenantID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	Status           string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Lines []DeliveryLineItem `gorm:"foreignKey:DeliveryID"`
}

// DeliveryLineItem tracks delivered/returned against the ordered quantity.
// Invariant (billing.ValidateDeliveryLine): Delivered + Returned <= Quantity.
type DeliveryLineItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeliveryID        uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Quantity          int       `gorm:"not null"`
	DeliveredQuantity int       `gorm:"not null;default:0"`
	ReturnedQuantity  int       `gorm:"not null;default:0"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
