package repository

import (
	"context"

	"depotpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryRepository interface {
	Create(ctx context.Context, d *model.Delivery) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Delivery, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Delivery, error)
	UpdateTx(tx *gorm.DB, d *model.Delivery) error
	UpdateLineTx(tx *gorm.DB, line *model.DeliveryLineItem) error
	DB() *gorm.DB
}

type deliveryRepo struct{ db *gorm.DB }

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository { return &deliveryRepo{db: db} }

func (r *deliveryRepo) DB() *gorm.DB { return r.db }

func (r *deliveryRepo) Create(ctx context.Context, d *model.Delivery) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *deliveryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).
		Preload("Lines.Product").
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *deliveryRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error) {
	var d model.Delivery
	err := tx.Preload("Lines").First(&d, "id = ?", id).Error
	return &d, err
}

func (r *deliveryRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepo) UpdateTx(tx *gorm.DB, d *model.Delivery) error {
	return tx.Model(&model.Delivery{}).Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"delivery_person_id": d.DeliveryPersonID,
			"status":             d.Status,
		}).Error
}

func (r *deliveryRepo) UpdateLineTx(tx *gorm.DB, line *model.DeliveryLineItem) error {
	return tx.Model(&model.DeliveryLineItem{}).Where("id = ?", line.ID).
		Updates(map[string]interface{}{
			"delivered_quantity": line.DeliveredQuantity,
			"returned_quantity":  line.ReturnedQuantity,
		}).Error
}
