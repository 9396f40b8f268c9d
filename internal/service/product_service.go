package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"depotpos/internal/dto"
	"depotpos/internal/model"
	"depotpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const productCacheTTL = 5 * time.Minute

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.ProductResponse, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.ProductResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	AdjustStock(ctx context.Context, tenantID, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	rdb       *redis.Client
}

func NewProductService(repo repository.ProductRepository, movements repository.StockMovementRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, movements: movements, rdb: rdb}
}

func productCacheKey(tenantID uuid.UUID) string {
	return "cache:products:" + tenantID.String()
}

// invalidateCache drops the tenant's product list cache after any write.
// Cache errors are logged, never propagated — Redis being down must not
// block catalog writes.
func (s *productService) invalidateCache(ctx context.Context, tenantID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productCacheKey(tenantID)).Err(); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("product cache invalidation failed")
	}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenantId: %w", err)
	}
	p := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		PurchasePrice: req.PurchasePrice,
		Stock:         req.Stock,
		MinStock:      req.MinStock,
		TenantID:      tenantID,
		Active:        true,
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid categoryId: %w", err)
		}
		p.CategoryID = &cid
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("invalid supplierId: %w", err)
		}
		p.SupplierID = &sid
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, tenantID)
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if p.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	return productToResponse(p), nil
}

// ListByTenant serves from the Redis cache when possible; the DB list is
// cached on miss. Stale-by-TTL is acceptable for the catalog screen — every
// write invalidates eagerly anyway.
func (s *productService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.ProductResponse, error) {
	key := productCacheKey(tenantID)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached []dto.ProductResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	products, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *productToResponse(&products[i]))
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, productCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("product cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if p.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.New("price cannot be negative")
		}
		p.Price = *req.Price
	}
	if req.PurchasePrice != nil {
		if req.PurchasePrice.IsNegative() {
			return nil, errors.New("purchase price cannot be negative")
		}
		p.PurchasePrice = *req.PurchasePrice
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid categoryId: %w", err)
		}
		p.CategoryID = &cid
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("invalid supplierId: %w", err)
		}
		p.SupplierID = &sid
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, p.TenantID)
	return productToResponse(p), nil
}

// AdjustStock applies a manual stock delta and records the movement.
func (s *productService) AdjustStock(ctx context.Context, tenantID, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if p.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	if p.Stock+req.Delta < 0 {
		return nil, fmt.Errorf("adjustment would leave negative stock (%d)", p.Stock+req.Delta)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStockTx(tx, id, req.Delta); err != nil {
			return err
		}
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   id,
			Type:        "adjustment",
			Quantity:    req.Delta,
			StockBefore: p.Stock,
			StockAfter:  p.Stock + req.Delta,
			Reason:      req.Reason,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	s.invalidateCache(ctx, p.TenantID)

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(updated), nil
}

func (s *productService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("product not found")
	}
	if p.TenantID != tenantID {
		return ErrTenantMismatch
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, p.TenantID)
	return nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	var categoryID, supplierID *string
	if p.CategoryID != nil {
		v := p.CategoryID.String()
		categoryID = &v
	}
	if p.SupplierID != nil {
		v := p.SupplierID.String()
		supplierID = &v
	}
	return &dto.ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		PurchasePrice: p.PurchasePrice,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		CategoryID:    categoryID,
		SupplierID:    supplierID,
		TenantID:      p.TenantID.String(),
		Active:        p.Active,
	}
}
