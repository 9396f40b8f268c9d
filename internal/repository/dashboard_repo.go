package repository

import (
	"context"

	"depotpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardTotals is the raw aggregate row backing the dashboard endpoint.
type DashboardTotals struct {
	SaleCount         int64
	Revenue           decimal.Decimal
	AmountCollected   decimal.Decimal
	CreditOutstanding decimal.Decimal
	UnpaidCount       int64
	PartialCount      int64
	PaidCount         int64
}

type DashboardRepository interface {
	DailyTotals(ctx context.Context, tenantID uuid.UUID, date string) (*DashboardTotals, error)
}

type dashboardRepo struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) DashboardRepository { return &dashboardRepo{db: db} }

// DailyTotals computes everything in one aggregate query. Status buckets use
// the same balance predicates as the derived payment status: paid = 0 is
// UNPAID, 0 < paid < total is PARTIAL, paid >= total is PAID.
func (r *dashboardRepo) DailyTotals(ctx context.Context, tenantID uuid.UUID, date string) (*DashboardTotals, error) {
	var row DashboardTotals
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`COUNT(*) AS sale_count,
			COALESCE(SUM(total_price), 0) AS revenue,
			COALESCE(SUM(amount_paid), 0) AS amount_collected,
			COALESCE(SUM(due_amount), 0) AS credit_outstanding,
			COUNT(*) FILTER (WHERE amount_paid = 0 AND total_price > 0) AS unpaid_count,
			COUNT(*) FILTER (WHERE amount_paid > 0 AND amount_paid < total_price) AS partial_count,
			COUNT(*) FILTER (WHERE amount_paid >= total_price) AS paid_count`).
		Where("tenant_id = ?", tenantID)
	if date != "" {
		q = q.Where("DATE(created_at) = ?", date)
	} else {
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}
	err := q.Scan(&row).Error
	return &row, err
}
