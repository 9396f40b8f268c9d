package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice stores a generated receipt for a sale (and its payment state at
// generation time). Status: "pending" | "issued" | "error".
// Retry fields are used by the worker retry cron for failed PDF renders.
type Invoice struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID uuid.UUID `gorm:"type:uuid;index;not null"`
	Number int64     `gorm:"uniqueIndex;not null"`
	// Snapshot of the balance when the invoice was issued
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,0);not null"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(12,0);not null"`
	DueAmount  decimal.Decimal `gorm:"type:decimal(12,0);not null"`
	Status     string          `gorm:"type:varchar(20);not null;default:'pending'"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath     *string `gorm:"column:pdf_path"`
	RetryCount  int     `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
