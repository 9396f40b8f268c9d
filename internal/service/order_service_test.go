package service

import (
	"context"
	"testing"

	"depotpos/internal/model"
	"depotpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

func (r *stubOrderRepo) Create(ctx context.Context, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubOrderRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.TenantID == tenantID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func buildOrderSvc() (OrderService, *stubOrderRepo, *stubProductRepo, *stubMovementRepo) {
	orders := newStubOrderRepo()
	products := newStubProductRepo()
	movements := newStubMovementRepo()
	svc := NewOrderService(orders, products, movements)
	return svc, orders, products, movements
}

func seedOrder(t *testing.T, repo *stubOrderRepo, tenantID uuid.UUID, product *model.Product, quantity int, status string) *model.Order {
	t.Helper()
	total := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
	o := &model.Order{
		CustomerID: uuid.New(),
		TenantID:   tenantID,
		Status:     status,
		TotalPrice: total,
		AmountPaid: total,
		Items: []model.OrderItem{
			{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    quantity,
				UnitPrice:   product.Price,
				TotalPrice:  total,
			},
		},
	}
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func TestCompleteOrder_DecrementsStockAndRecordsMovements(t *testing.T) {
	svc, orders, products, movements := buildOrderSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Flour sack", 8000, 12)
	o := seedOrder(t, orders, tenantID, p, 4, "PENDING")

	resp, err := svc.Complete(context.Background(), tenantID, o.ID)
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, "PAID", resp.PaymentStatus)
	assert.Equal(t, 8, p.Stock)
	require.Len(t, movements.movements, 1)
	assert.Equal(t, "order", movements.movements[0].Type)
	assert.Equal(t, -4, movements.movements[0].Quantity)
	assert.Equal(t, 12, movements.movements[0].StockBefore)
	assert.Equal(t, 8, movements.movements[0].StockAfter)
}

func TestCompleteOrder_CompletedIsTerminal(t *testing.T) {
	svc, orders, products, movements := buildOrderSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Onion net", 2500, 20)
	o := seedOrder(t, orders, tenantID, p, 2, "COMPLETED")

	_, err := svc.Complete(context.Background(), tenantID, o.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already completed")
	assert.Equal(t, 20, p.Stock, "a terminal order must not move stock again")
	assert.Empty(t, movements.movements)
}

func TestCompleteOrder_CanceledIsTerminal(t *testing.T) {
	svc, orders, products, _ := buildOrderSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Tomato crate", 4000, 10)
	o := seedOrder(t, orders, tenantID, p, 1, "CANCELED")

	_, err := svc.Complete(context.Background(), tenantID, o.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canceled order")
	assert.Equal(t, "CANCELED", o.Status)
}

func TestCompleteOrder_UnknownOrder(t *testing.T) {
	svc, _, _, _ := buildOrderSvc()

	_, err := svc.Complete(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCompleteOrder_InsufficientStock(t *testing.T) {
	svc, orders, products, movements := buildOrderSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Palm oil drum", 30000, 1)
	o := seedOrder(t, orders, tenantID, p, 5, "PENDING")

	_, err := svc.Complete(context.Background(), tenantID, o.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")

	// The order stays open and stock never goes negative
	assert.Equal(t, "PENDING", o.Status)
	assert.Equal(t, 1, p.Stock)
	assert.Empty(t, movements.movements)
}

func TestCompleteOrder_ForeignTenantRejected(t *testing.T) {
	svc, orders, products, movements := buildOrderSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Sorghum bag", 5500, 10)
	o := seedOrder(t, orders, tenantID, p, 2, "PENDING")

	_, err := svc.Complete(context.Background(), uuid.New(), o.ID)
	assert.ErrorIs(t, err, ErrTenantMismatch)
	assert.Equal(t, "PENDING", o.Status)
	assert.Equal(t, 10, p.Stock)
	assert.Empty(t, movements.movements)

	_, err = svc.GetByID(context.Background(), uuid.New(), o.ID)
	assert.ErrorIs(t, err, ErrTenantMismatch)
}

func TestGetOrder_DerivesPaymentStatus(t *testing.T) {
	svc, orders, products, _ := buildOrderSvc()
	tenantID := uuid.New()
	p := seedProduct(t, products, tenantID, "Millet bag", 6000, 30)
	o := seedOrder(t, orders, tenantID, p, 2, "PENDING")
	o.IsCredit = true
	o.AmountPaid = decimal.NewFromInt(5000)

	resp, err := svc.GetByID(context.Background(), tenantID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", resp.PaymentStatus)
	assert.True(t, resp.DueAmount.Equal(decimal.NewFromInt(7000)))
}
