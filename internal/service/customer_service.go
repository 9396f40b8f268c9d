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

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.CustomerResponse, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenantId: %w", err)
	}
	c := &model.Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		TenantID: tenantID,
		Active:   true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	if c.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	return customerToResponse(c), nil
}

func (s *customerService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		resp = append(resp, *customerToResponse(&customers[i]))
	}
	return resp, nil
}

func (s *customerService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	if c.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Phone != "" {
		c.Phone = req.Phone
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("customer not found")
	}
	if c.TenantID != tenantID {
		return ErrTenantMismatch
	}
	return s.repo.SoftDelete(ctx, id)
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		Phone:    c.Phone,
		Email:    c.Email,
		TenantID: c.TenantID.String(),
		Active:   c.Active,
	}
}
