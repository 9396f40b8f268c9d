package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a credit-eligible buyer. Cash sales carry no customer at all
// (Sale.CustomerID is null); a customer record is mandatory for credit.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index;not null"`
	Phone     string    `gorm:"not null"`
	Email     *string
	TenantID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
