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

type OrderService interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.OrderResponse, error)
	Complete(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error)
}

type orderService struct {
	repo        repository.OrderRepository
	productRepo repository.ProductRepository
	movements   repository.StockMovementRepository
}

func NewOrderService(
	repo repository.OrderRepository,
	productRepo repository.ProductRepository,
	movements repository.StockMovementRepository,
) OrderService {
	return &orderService{repo: repo, productRepo: productRepo, movements: movements}
}

func (s *orderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if o.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	return orderToResponse(o), nil
}

func (s *orderService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, *orderToResponse(&orders[i]))
	}
	return resp, nil
}

// Complete transitions PENDING → COMPLETED and decrements stock for each
// line. COMPLETED and CANCELED are terminal.
func (s *orderService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	switch order.Status {
	case "COMPLETED":
		return nil, errors.New("order is already completed")
	case "CANCELED":
		return nil, errors.New("a canceled order cannot be completed")
	}

	// Stock must cover every line before anything is written. Same rule as
	// direct sales: completion never drives stock negative.
	for _, item := range order.Items {
		p, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}
		if p.Stock < item.Quantity {
			return nil, fmt.Errorf("insufficient stock for %s: %d available", p.Name, p.Stock)
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range order.Items {
			before := 0
			if p, err := s.productRepo.FindByIDTx(tx, item.ProductID); err == nil {
				before = p.Stock
			}
			if err := s.productRepo.UpdateStockTx(tx, item.ProductID, -item.Quantity); err != nil {
				return fmt.Errorf("stock update for %s: %w", item.ProductName, err)
			}
			ref := order.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        "order",
				Quantity:    -item.Quantity,
				StockBefore: before,
				StockAfter:  before - item.Quantity,
				Reason:      fmt.Sprintf("Order %s completed", order.ID),
				ReferenceID: &ref,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(tx, id, "COMPLETED")
	})
	if txErr != nil {
		return nil, txErr
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToResponse(updated), nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	status, due := billing.ResolveStatus(o.TotalPrice, o.AmountPaid)
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return &dto.OrderResponse{
		ID:            o.ID.String(),
		CustomerID:    o.CustomerID.String(),
		TenantID:      o.TenantID.String(),
		Status:        o.Status,
		IsCredit:      o.IsCredit,
		TotalPrice:    o.TotalPrice,
		AmountPaid:    o.AmountPaid,
		DueAmount:     due,
		PaymentStatus: string(status),
		Items:         items,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
