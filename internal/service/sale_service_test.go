package service

import (
	"context"
	"testing"

	"depotpos/internal/billing"
	"depotpos/internal/dto"
	"depotpos/internal/model"
	"depotpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// In-memory stubs. Every repo method that takes a *gorm.DB tolerates nil,
// since runTx calls fn(nil) when no database is wired, so the whole service
// layer runs against plain maps here.

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		s.Items[i].ID = uuid.New()
		s.Items[i].SaleID = s.ID
	}
	for i := range s.Payments {
		s.Payments[i].ID = uuid.New()
		s.Payments[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubSaleRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) Paginate(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	sales, _ := r.ListByTenant(ctx, tenantID)
	return sales, int64(len(sales)), nil
}

func (r *stubSaleRepo) ApplyPaymentTx(tx *gorm.DB, saleID uuid.UUID, payment *model.CreditPayment, newPaid, newDue decimal.Decimal) error {
	s, ok := r.sales[saleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	payment.ID = uuid.New()
	s.Payments = append(s.Payments, *payment)
	s.AmountPaid = newPaid
	s.DueAmount = newDue
	return nil
}

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) Create(ctx context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(ctx context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.TenantID == tenantID && c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if c, ok := r.customers[id]; ok {
		c.Active = false
	}
	return nil
}

type stubMovementRepo struct {
	movements []model.StockMovement
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ─── Factories ───────────────────────────────────────────────────────────────

func buildSaleSvc() (SaleService, *stubSaleRepo, *stubProductRepo, *stubCustomerRepo, *stubMovementRepo) {
	sales := newStubSaleRepo()
	products := newStubProductRepo()
	customers := newStubCustomerRepo()
	movements := newStubMovementRepo()
	svc := NewSaleService(sales, products, customers, movements, nil)
	return svc, sales, products, customers, movements
}

func seedProduct(t *testing.T, repo *stubProductRepo, tenantID uuid.UUID, name string, price int64, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		MinStock: 0,
		TenantID: tenantID,
		Active:   true,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func seedCustomer(t *testing.T, repo *stubCustomerRepo, tenantID uuid.UUID) *model.Customer {
	t.Helper()
	c := &model.Customer{Name: "Aminata Diallo", Phone: "+221770000000", TenantID: tenantID, Active: true}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

// ─── CreateDirectSale ────────────────────────────────────────────────────────

func TestCreateDirectSale_CashPaidInFull(t *testing.T) {
	svc, _, products, _, movements := buildSaleSvc()
	tenantID := uuid.New()
	rice := seedProduct(t, products, tenantID, "Rice 25kg", 12500, 10)
	oil := seedProduct(t, products, tenantID, "Oil 5L", 4500, 8)

	resp, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		TenantID:   tenantID.String(),
		IsCredit:   false,
		AmountPaid: "29500", // 2×12500 + 1×4500
		SaleItems: []dto.SaleItemRequest{
			{ProductID: rice.ID.String(), Quantity: 2},
			{ProductID: oil.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PAID", resp.Status)
	assert.True(t, resp.DueAmount.IsZero())
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(29500)))
	assert.Len(t, resp.Items, 2)
	assert.Empty(t, resp.Payments, "a cash sale records no installments")

	// Stock decremented and movements recorded
	assert.Equal(t, 8, rice.Stock)
	assert.Equal(t, 7, oil.Stock)
	require.Len(t, movements.movements, 2)
	assert.Equal(t, "sale", movements.movements[0].Type)
	assert.Equal(t, -2, movements.movements[0].Quantity)
	assert.Equal(t, 10, movements.movements[0].StockBefore)
	assert.Equal(t, 8, movements.movements[0].StockAfter)
}

func TestCreateDirectSale_CashRequiresFullPayment(t *testing.T) {
	svc, sales, products, _, _ := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Sugar 1kg", 1000, 5)

	_, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		TenantID:   tenantID.String(),
		IsCredit:   false,
		AmountPaid: "500",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paid in full")
	assert.Empty(t, sales.sales)
	assert.Equal(t, 5, p.Stock, "a rejected sale must not touch stock")
}

func TestCreateDirectSale_CreditWithInitialInstallment(t *testing.T) {
	svc, _, products, customers, _ := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Cement 50kg", 5000, 20)
	c := seedCustomer(t, customers, tenantID)
	cid := c.ID.String()

	resp, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		CustomerID: &cid,
		TenantID:   tenantID.String(),
		IsCredit:   true,
		AmountPaid: "4000",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "PARTIAL", resp.Status)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(10000)))
	assert.True(t, resp.AmountPaid.Equal(decimal.NewFromInt(4000)))
	assert.True(t, resp.DueAmount.Equal(decimal.NewFromInt(6000)))
	require.Len(t, resp.Payments, 1, "the counter installment becomes the first payment row")
	assert.True(t, resp.Payments[0].Amount.Equal(decimal.NewFromInt(4000)))
}

func TestCreateDirectSale_CreditWithNothingDown(t *testing.T) {
	svc, _, products, customers, _ := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Flour 10kg", 3000, 6)
	c := seedCustomer(t, customers, tenantID)
	cid := c.ID.String()

	resp, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		CustomerID: &cid,
		TenantID:   tenantID.String(),
		IsCredit:   true,
		AmountPaid: "0",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "UNPAID", resp.Status)
	assert.Empty(t, resp.Payments, "no installment row for a zero down payment")
}

func TestCreateDirectSale_OverpaymentRejected(t *testing.T) {
	svc, sales, products, customers, _ := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Soap", 500, 10)
	c := seedCustomer(t, customers, tenantID)
	cid := c.ID.String()

	_, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		CustomerID: &cid,
		TenantID:   tenantID.String(),
		IsCredit:   true,
		AmountPaid: "600",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, billing.ErrExceedsDue)
	assert.Empty(t, sales.sales)
}

func TestCreateDirectSale_CreditRequiresCustomer(t *testing.T) {
	svc, _, products, _, _ := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Milk", 800, 4)

	_, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		TenantID:   tenantID.String(),
		IsCredit:   true,
		AmountPaid: "0",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a customer")
}

func TestCreateDirectSale_CashCannotReferenceCustomer(t *testing.T) {
	svc, _, products, customers, _ := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Bread", 200, 30)
	c := seedCustomer(t, customers, tenantID)
	cid := c.ID.String()

	_, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		CustomerID: &cid,
		TenantID:   tenantID.String(),
		IsCredit:   false,
		AmountPaid: "200",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reference a customer")
}

func TestCreateDirectSale_InsufficientStock(t *testing.T) {
	svc, sales, products, _, movements := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Eggs tray", 2500, 2)

	_, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		TenantID:   tenantID.String(),
		IsCredit:   false,
		AmountPaid: "7500",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 3}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
	assert.Empty(t, sales.sales)
	assert.Empty(t, movements.movements)
}

func TestCreateDirectSale_RejectsForeignTenantProduct(t *testing.T) {
	svc, _, products, _, _ := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, uuid.New(), "Foreign product", 1000, 5)

	_, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		TenantID:   tenantID.String(),
		IsCredit:   false,
		AmountPaid: "1000",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to this tenant")
}

func TestCreateDirectSale_FractionalAmountRejected(t *testing.T) {
	svc, _, products, _, _ := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Salt", 100, 10)

	_, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		TenantID:   tenantID.String(),
		IsCredit:   false,
		AmountPaid: "99.5",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, billing.ErrInvalidAmount)
}

// ─── ApplyCreditPayment ──────────────────────────────────────────────────────

func seedCreditSale(t *testing.T, svc SaleService, products *stubProductRepo, customers *stubCustomerRepo, tenantID uuid.UUID, total int64, down string) uuid.UUID {
	t.Helper()
	p := seedProduct(t, products, tenantID, "Gas bottle", total, 50)
	c := seedCustomer(t, customers, tenantID)
	cid := c.ID.String()
	resp, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		CustomerID: &cid,
		TenantID:   tenantID.String(),
		IsCredit:   true,
		AmountPaid: down,
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	return id
}

func TestApplyCreditPayment_Lifecycle(t *testing.T) {
	svc, _, products, customers, _ := buildSaleSvc()
	tenantID := uuid.New()
	saleID := seedCreditSale(t, svc, products, customers, tenantID, 10000, "0")

	// UNPAID → PARTIAL
	resp, err := svc.ApplyCreditPayment(context.Background(), tenantID, saleID, dto.ApplyPaymentRequest{Amount: "4000"})
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", resp.Status)
	assert.True(t, resp.AmountPaid.Equal(decimal.NewFromInt(4000)))
	assert.True(t, resp.DueAmount.Equal(decimal.NewFromInt(6000)))
	assert.Len(t, resp.Payments, 1)

	// PARTIAL → PAID, settling exactly
	resp, err = svc.ApplyCreditPayment(context.Background(), tenantID, saleID, dto.ApplyPaymentRequest{Amount: "6000"})
	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.Status)
	assert.True(t, resp.DueAmount.IsZero())
	assert.Len(t, resp.Payments, 2)

	// A settled sale accepts no further installments
	_, err = svc.ApplyCreditPayment(context.Background(), tenantID, saleID, dto.ApplyPaymentRequest{Amount: "1"})
	assert.ErrorIs(t, err, billing.ErrExceedsDue)
}

func TestApplyCreditPayment_OverpaymentRejected(t *testing.T) {
	svc, sales, products, customers, _ := buildSaleSvc()
	tenantID := uuid.New()
	saleID := seedCreditSale(t, svc, products, customers, tenantID, 5000, "2000")

	_, err := svc.ApplyCreditPayment(context.Background(), tenantID, saleID, dto.ApplyPaymentRequest{Amount: "3001"})
	assert.ErrorIs(t, err, billing.ErrExceedsDue)

	// Balance untouched after the rejection
	s := sales.sales[saleID]
	assert.True(t, s.AmountPaid.Equal(decimal.NewFromInt(2000)))
	assert.Len(t, s.Payments, 1)
}

func TestApplyCreditPayment_InvalidAmounts(t *testing.T) {
	svc, _, products, customers, _ := buildSaleSvc()
	tenantID := uuid.New()
	saleID := seedCreditSale(t, svc, products, customers, tenantID, 5000, "0")

	for _, raw := range []string{"abc", "", "-100", "0", "10.5"} {
		_, err := svc.ApplyCreditPayment(context.Background(), tenantID, saleID, dto.ApplyPaymentRequest{Amount: raw})
		assert.ErrorIs(t, err, billing.ErrInvalidAmount, "amount %q", raw)
	}
}

func TestApplyCreditPayment_RejectsCashSale(t *testing.T) {
	svc, _, products, _, _ := buildSaleSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Battery", 1500, 5)

	resp, err := svc.CreateDirectSale(context.Background(), dto.CreateSaleRequest{
		SellerID:   uuid.NewString(),
		TenantID:   tenantID.String(),
		IsCredit:   false,
		AmountPaid: "1500",
		SaleItems:  []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	saleID, _ := uuid.Parse(resp.ID)

	_, err = svc.ApplyCreditPayment(context.Background(), tenantID, saleID, dto.ApplyPaymentRequest{Amount: "100"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credit sales")
}

func TestApplyCreditPayment_UnknownSale(t *testing.T) {
	svc, _, _, _, _ := buildSaleSvc()

	_, err := svc.ApplyCreditPayment(context.Background(), uuid.New(), uuid.New(), dto.ApplyPaymentRequest{Amount: "100"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestApplyCreditPayment_ForeignTenantRejected(t *testing.T) {
	svc, sales, products, customers, _ := buildSaleSvc()
	saleID := seedCreditSale(t, svc, products, customers, uuid.New(), 5000, "0")

	// A caller from another tenant knows the sale UUID but nothing else.
	_, err := svc.ApplyCreditPayment(context.Background(), uuid.New(), saleID, dto.ApplyPaymentRequest{Amount: "1000"})
	assert.ErrorIs(t, err, ErrTenantMismatch)

	s := sales.sales[saleID]
	assert.True(t, s.AmountPaid.IsZero(), "a rejected cross-tenant payment must not touch the balance")
	assert.Empty(t, s.Payments)
}

func TestGetSale_ForeignTenantRejected(t *testing.T) {
	svc, _, products, customers, _ := buildSaleSvc()
	saleID := seedCreditSale(t, svc, products, customers, uuid.New(), 5000, "0")

	_, err := svc.GetByID(context.Background(), uuid.New(), saleID)
	assert.ErrorIs(t, err, ErrTenantMismatch)
}
