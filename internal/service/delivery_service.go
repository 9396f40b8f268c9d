package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"depotpos/internal/billing"
	"depotpos/internal/dto"
	"depotpos/internal/model"
	"depotpos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryService interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.DeliveryResponse, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.DeliveryResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error)
}

type deliveryService struct {
	repo        repository.DeliveryRepository
	productRepo repository.ProductRepository
	movements   repository.StockMovementRepository
}

func NewDeliveryService(
	repo repository.DeliveryRepository,
	productRepo repository.ProductRepository,
	movements repository.StockMovementRepository,
) DeliveryService {
	return &deliveryService{repo: repo, productRepo: productRepo, movements: movements}
}

func (s *deliveryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.DeliveryResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("delivery not found")
	}
	if d.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	return deliveryToResponse(d), nil
}

func (s *deliveryService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.DeliveryResponse, error) {
	deliveries, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		resp = append(resp, *deliveryToResponse(&deliveries[i]))
	}
	return resp, nil
}

// ── Update ────────────────────────────────────────────────────────────────────
// All-or-nothing: EVERY line is validated against the allocation invariant
// before a single write happens. A validated delivery is terminal; returned
// quantities restock inside the same transaction.

func (s *deliveryService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error) {
	delivery, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("delivery not found")
	}
	if delivery.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	if delivery.Status == "VALIDATED" {
		return nil, errors.New("a validated delivery cannot be modified")
	}

	// Index existing lines by product
	lineByProduct := make(map[uuid.UUID]*model.DeliveryLineItem, len(delivery.Lines))
	for i := range delivery.Lines {
		lineByProduct[delivery.Lines[i].ProductID] = &delivery.Lines[i]
	}

	// 1. Validate every submitted line before any write
	type update struct {
		line      *model.DeliveryLineItem
		delivered int
		returned  int
	}
	updates := make([]update, 0, len(req.DeliveryProducts))
	for _, lr := range req.DeliveryProducts {
		pid, err := uuid.Parse(lr.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid productId: %w", err)
		}
		line, ok := lineByProduct[pid]
		if !ok {
			return nil, fmt.Errorf("product %s is not part of this delivery", lr.ProductID)
		}
		if err := billing.ValidateDeliveryLine(billing.DeliveryLine{
			Quantity:  line.Quantity,
			Delivered: lr.DeliveredQuantity,
			Returned:  lr.ReturnedQuantity,
		}); err != nil {
			return nil, err
		}
		updates = append(updates, update{line: line, delivered: lr.DeliveredQuantity, returned: lr.ReturnedQuantity})
	}

	var deliveryPersonID *uuid.UUID
	if req.DeliveryPersonID != nil {
		dpid, err := uuid.Parse(*req.DeliveryPersonID)
		if err != nil {
			return nil, fmt.Errorf("invalid deliveryPersonId: %w", err)
		}
		deliveryPersonID = &dpid
	}

	// 2. Apply in one transaction; restock newly returned quantities
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, u := range updates {
			restock := u.returned - u.line.ReturnedQuantity
			u.line.DeliveredQuantity = u.delivered
			u.line.ReturnedQuantity = u.returned
			if err := s.repo.UpdateLineTx(tx, u.line); err != nil {
				return err
			}
			if restock > 0 {
				before := 0
				if p, err := s.productRepo.FindByIDTx(tx, u.line.ProductID); err == nil {
					before = p.Stock
				}
				if err := s.productRepo.UpdateStockTx(tx, u.line.ProductID, restock); err != nil {
					return err
				}
				ref := delivery.ID
				mov := &model.StockMovement{
					ProductID:   u.line.ProductID,
					Type:        "delivery_return",
					Quantity:    restock,
					StockBefore: before,
					StockAfter:  before + restock,
					Reason:      fmt.Sprintf("Return on delivery %s", delivery.ID),
					ReferenceID: &ref,
				}
				if err := s.movements.CreateTx(tx, mov); err != nil {
					return err
				}
			}
		}

		delivery.DeliveryPersonID = deliveryPersonID
		delivery.Status = req.Status
		return s.repo.UpdateTx(tx, delivery)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Fresh read — the server state is the only truth after a mutation
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return deliveryToResponse(updated), nil
}

func deliveryToResponse(d *model.Delivery) *dto.DeliveryResponse {
	lines := make([]dto.DeliveryLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		name := ""
		if l.Product != nil {
			name = l.Product.Name
		}
		status := billing.ResolveDeliveryStatus(billing.DeliveryLine{
			Quantity:  l.Quantity,
			Delivered: l.DeliveredQuantity,
			Returned:  l.ReturnedQuantity,
		})
		lines = append(lines, dto.DeliveryLineResponse{
			ProductID:         l.ProductID.String(),
			ProductName:       name,
			Quantity:          l.Quantity,
			DeliveredQuantity: l.DeliveredQuantity,
			ReturnedQuantity:  l.ReturnedQuantity,
			Status:            string(status),
		})
	}
	var orderID, personID *string
	if d.OrderID != nil {
		v := d.OrderID.String()
		orderID = &v
	}
	if d.DeliveryPersonID != nil {
		v := d.DeliveryPersonID.String()
		personID = &v
	}
	return &dto.DeliveryResponse{
		ID:               d.ID.String(),
		OrderID:          orderID,
		DeliveryPersonID: personID,
		TenantID:         d.TenantID.String(),
		Status:           d.Status,
		Lines:            lines,
		CreatedAt:        d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
