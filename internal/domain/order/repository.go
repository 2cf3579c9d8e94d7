package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Create inserts the order and all its items in one transaction.
	Create(ctx context.Context, o *Order, items []Item) error
	FindByID(ctx context.Context, id int64) (*Info, error)
	Items(ctx context.Context, orderID int64) ([]ItemInfo, error)
	List(ctx context.Context, filters *ListFilters) ([]Info, int64, error)

	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]Order, int64, error)
	RecentByCustomer(ctx context.Context, customerID int64, limit int) ([]Order, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)

	// SumRevenue sums total_amount over a customer's orders whose order_date
	// lies within [from, to], both bounds inclusive and nil meaning unbounded.
	SumRevenue(ctx context.Context, customerID int64, from, to *time.Time) (decimal.Decimal, error)

	Recent(ctx context.Context, limit int) ([]Info, error)
	Count(ctx context.Context) (int64, error)
	SumTotal(ctx context.Context) (decimal.Decimal, error)
}
