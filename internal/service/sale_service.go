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
	"depotpos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateDirectSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	ApplyCreditPayment(ctx context.Context, tenantID, saleID uuid.UUID, req dto.ApplyPaymentRequest) (*dto.SaleResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.SaleResponse, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.SaleResponse, error)
	Paginate(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	customers   repository.CustomerRepository
	movements   repository.StockMovementRepository
	dispatcher  *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customers repository.CustomerRepository,
	movements repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:        repo,
		productRepo: productRepo,
		customers:   customers,
		movements:   movements,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CreateDirectSale ──────────────────────────────────────────────────────────
// Full ACID transaction:
//  1. Resolve products, snapshot names/prices, compute line totals and the
//     sale total via the reconciliation aggregator
//  2. Validate the cash/credit invariants against amountPaid
//  3. BEGIN TX: create sale+items (+initial payment row on credit), decrement
//     stock, record stock movements
//  4. COMMIT
//  5. (async) enqueue invoice job; low-stock push jobs per depleted product

func (s *saleService) CreateDirectSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenantId: %w", err)
	}
	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		return nil, fmt.Errorf("invalid sellerId: %w", err)
	}

	// 1. Resolve products and compute totals (pre-flight, outside TX)
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		unitPrice decimal.Decimal
		quantity  int
		total     decimal.Decimal
	}

	var resolved []resolvedItem
	var lines []billing.Line
	var lowStock []*model.Product

	for _, item := range req.SaleItems {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid productId: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}
		if !p.Active {
			return nil, fmt.Errorf("product %s is inactive and cannot be sold", p.Name)
		}
		if p.TenantID != tenantID {
			return nil, errors.New("product does not belong to this tenant")
		}
		if p.Stock < item.Quantity {
			return nil, fmt.Errorf("insufficient stock for %s: %d available", p.Name, p.Stock)
		}
		if p.Stock-item.Quantity <= p.MinStock {
			lowStock = append(lowStock, p)
		}
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			unitPrice: p.Price,
			quantity:  item.Quantity,
			total:     billing.LineTotal(item.Quantity, p.Price),
		})
		lines = append(lines, billing.Line{Quantity: item.Quantity, UnitPrice: p.Price})
	}

	totalPrice := billing.ComputeTotal(lines)

	// 2. Cash/credit invariants. amountPaid arrives raw and goes through the
	//    same parser as every other money input.
	amountPaid, err := billing.ParseAmount(req.AmountPaid)
	if err != nil {
		return nil, err
	}
	if amountPaid.IsNegative() {
		return nil, billing.ErrInvalidAmount
	}
	if amountPaid.GreaterThan(totalPrice) {
		// Overpayment is rejected at input validation, never clamped.
		return nil, billing.ErrExceedsDue
	}

	var customerID *uuid.UUID
	if req.IsCredit {
		if req.CustomerID == nil {
			return nil, errors.New("a credit sale requires a customer")
		}
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customerId: %w", err)
		}
		c, err := s.customers.FindByID(ctx, cid)
		if err != nil {
			return nil, errors.New("customer not found")
		}
		if c.TenantID != tenantID {
			return nil, errors.New("customer does not belong to this tenant")
		}
		customerID = &cid
	} else {
		if req.CustomerID != nil {
			return nil, errors.New("a cash sale cannot reference a customer")
		}
		if !amountPaid.Equal(totalPrice) {
			return nil, errors.New("a cash sale must be paid in full at creation")
		}
	}

	_, dueAmount := billing.ResolveStatus(totalPrice, amountPaid)

	// 3. ACID transaction
	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale = model.Sale{
			SellerID:   sellerID,
			CustomerID: customerID,
			TenantID:   tenantID,
			IsCredit:   req.IsCredit,
			TotalPrice: totalPrice,
			AmountPaid: amountPaid,
			DueAmount:  dueAmount,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:   r.productID,
				ProductName: r.name,
				Quantity:    r.quantity,
				UnitPrice:   r.unitPrice,
				TotalPrice:  r.total,
			})
		}
		if req.IsCredit && amountPaid.IsPositive() {
			// Initial installment paid at the counter
			sale.Payments = append(sale.Payments, model.CreditPayment{Amount: amountPaid})
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		for _, r := range resolved {
			before := 0
			if p, err := s.productRepo.FindByIDTx(tx, r.productID); err == nil {
				before = p.Stock
			}
			if err := s.productRepo.UpdateStockTx(tx, r.productID, -r.quantity); err != nil {
				return fmt.Errorf("stock update for %s: %w", r.name, err)
			}
			saleRef := sale.ID
			mov := &model.StockMovement{
				ProductID:   r.productID,
				Type:        "sale",
				Quantity:    -r.quantity,
				StockBefore: before,
				StockAfter:  before - r.quantity,
				Reason:      fmt.Sprintf("Direct sale %s", sale.ID),
				ReferenceID: &saleRef,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 4. Async invoice + push jobs (best-effort, fire & forget)
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueInvoice(ctx, worker.InvoiceJobPayload{SaleID: sale.ID.String()})
		for _, p := range lowStock {
			_ = s.dispatcher.EnqueuePush(ctx, worker.PushJobPayload{
				TenantID: tenantID.String(),
				Event:    "low_stock",
				Title:    "Low stock",
				Body:     fmt.Sprintf("%s is at or below its minimum stock", p.Name),
			})
		}
	}

	return saleToResponse(&sale), nil
}

// ── ApplyCreditPayment ────────────────────────────────────────────────────────
// Applies one installment to a credit sale. The due amount is re-read and the
// payment re-validated INSIDE the transaction, so a concurrent payment from
// another session cannot push the balance past zero. The response is the full
// updated sale — callers must replace their local copy wholesale instead of
// decrementing the balance themselves.

func (s *saleService) ApplyCreditPayment(ctx context.Context, tenantID, saleID uuid.UUID, req dto.ApplyPaymentRequest) (*dto.SaleResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.findForUpdate(ctx, tx, saleID)
		if err != nil {
			return errors.New("sale not found")
		}
		if sale.TenantID != tenantID {
			return ErrTenantMismatch
		}
		if !sale.IsCredit {
			return errors.New("payments can only be applied to credit sales")
		}

		payReq, err := billing.BuildPaymentRequest(saleID, sale.DueAmount, req.Amount)
		if err != nil {
			return err
		}

		newPaid := sale.AmountPaid.Add(payReq.Amount)
		_, newDue := billing.ResolveStatus(sale.TotalPrice, newPaid)
		payment := &model.CreditPayment{SaleID: saleID, Amount: payReq.Amount}
		return s.applyPayment(ctx, tx, saleID, payment, newPaid, newDue)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Server-authoritative refresh: re-read the sale after commit so the
	// response reflects exactly what was persisted.
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueInvoice(ctx, worker.InvoiceJobPayload{SaleID: sale.ID.String()})
		_ = s.dispatcher.EnqueuePush(ctx, worker.PushJobPayload{
			TenantID: sale.TenantID.String(),
			Event:    "payment_received",
			Title:    "Payment received",
			Body:     fmt.Sprintf("Payment of %s applied, %s outstanding", req.Amount, billing.FormatFCFA(sale.DueAmount)),
		})
	}

	return saleToResponse(sale), nil
}

// findForUpdate and applyPayment keep the tx-vs-stub split in one place:
// with a nil tx (unit tests) they fall back to the repo's plain methods.
func (s *saleService) findForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	if tx == nil {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.FindByIDTx(tx, id)
}

func (s *saleService) applyPayment(ctx context.Context, tx *gorm.DB, saleID uuid.UUID, payment *model.CreditPayment, newPaid, newDue decimal.Decimal) error {
	return s.repo.ApplyPaymentTx(tx, saleID, payment, newPaid, newDue)
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *saleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sale not found")
	}
	if sale.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]dto.SaleResponse, error) {
	sales, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, *saleToResponse(&sales[i]))
	}
	return resp, nil
}

func (s *saleService) Paginate(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	sales, total, err := s.repo.Paginate(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	status, due := billing.ResolveStatus(s.TotalPrice, s.AmountPaid)

	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	payments := make([]dto.CreditPaymentResponse, 0, len(s.Payments))
	for _, p := range s.Payments {
		payments = append(payments, dto.CreditPaymentResponse{
			ID:        p.ID.String(),
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	var customerID *string
	if s.CustomerID != nil {
		cid := s.CustomerID.String()
		customerID = &cid
	}
	return &dto.SaleResponse{
		ID:         s.ID.String(),
		SellerID:   s.SellerID.String(),
		CustomerID: customerID,
		TenantID:   s.TenantID.String(),
		IsCredit:   s.IsCredit,
		TotalPrice: s.TotalPrice,
		AmountPaid: s.AmountPaid,
		DueAmount:  due,
		Status:     string(status),
		Items:      items,
		Payments:   payments,
		CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
