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

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.CategoryResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenantId: %w", err)
	}
	c := &model.Category{Name: req.Name, TenantID: tenantID, Active: true}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return categoryToResponse(c), nil
}

func (s *categoryService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, *categoryToResponse(&categories[i]))
	}
	return resp, nil
}

func (s *categoryService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("category not found")
	}
	if cat.TenantID != tenantID {
		return ErrTenantMismatch
	}
	return s.repo.SoftDelete(ctx, id)
}

func categoryToResponse(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		TenantID: c.TenantID.String(),
		Active:   c.Active,
	}
}
