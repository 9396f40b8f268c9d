package repository

import (
	"context"

	"depotpos/internal/dto"
	"depotpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRepository is the data access contract for direct sales.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	// FindByIDTx reads the sale inside a transaction so the due amount the
	// payment is validated against cannot be stale.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Sale, error)
	Paginate(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)
	ApplyPaymentTx(tx *gorm.DB, saleID uuid.UUID, payment *model.CreditPayment, newPaid, newDue decimal.Decimal) error
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Payments").Preload("Customer").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Preload("Items").Preload("Payments").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Customer").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Paginate(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("tenant_id = ?", tenantID)

	// Payment status is derived, so the filter translates to balance predicates.
	switch filter.Status {
	case "UNPAID":
		q = q.Where("amount_paid = 0 AND total_price > 0")
	case "PARTIAL":
		q = q.Where("amount_paid > 0 AND amount_paid < total_price")
	case "PAID":
		q = q.Where("amount_paid >= total_price")
	}
	if filter.Credit == "true" {
		q = q.Where("is_credit = true")
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").Preload("Payments").Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

// ApplyPaymentTx appends the payment row and updates the sale balance in one
// shot. Caller computed newPaid/newDue from the row read inside the same tx.
func (r *saleRepo) ApplyPaymentTx(tx *gorm.DB, saleID uuid.UUID, payment *model.CreditPayment, newPaid, newDue decimal.Decimal) error {
	if err := tx.Create(payment).Error; err != nil {
		return err
	}
	return tx.Model(&model.Sale{}).Where("id = ?", saleID).
		Updates(map[string]interface{}{
			"amount_paid": newPaid,
			"due_amount":  newDue,
		}).Error
}
