package service

import (
	"context"
	"errors"
	"fmt"

	"depotpos/internal/dto"
	"depotpos/internal/model"
	"depotpos/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.SupplierResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenantId: %w", err)
	}
	sup := &model.Supplier{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		TenantID: tenantID,
		Active:   true,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	return supplierToResponse(sup), nil
}

func (s *supplierService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		resp = append(resp, *supplierToResponse(&suppliers[i]))
	}
	return resp, nil
}

func (s *supplierService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("supplier not found")
	}
	if sup.TenantID != tenantID {
		return ErrTenantMismatch
	}
	return s.repo.SoftDelete(ctx, id)
}

func supplierToResponse(sup *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:       sup.ID.String(),
		Name:     sup.Name,
		Phone:    sup.Phone,
		Email:    sup.Email,
		TenantID: sup.TenantID.String(),
		Active:   sup.Active,
	}
}
