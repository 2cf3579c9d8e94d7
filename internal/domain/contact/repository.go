package contact

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, id int64) (*Info, error)
	List(ctx context.Context, filters *ListFilters) ([]Info, int64, error)

	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]Info, int64, error)
	RecentByCustomer(ctx context.Context, customerID int64, limit int) ([]Info, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)

	// LastContactTime returns the customer's most recent contact_time,
	// or nil when the customer was never contacted.
	LastContactTime(ctx context.Context, customerID int64) (*time.Time, error)

	Recent(ctx context.Context, limit int) ([]Info, error)
	Count(ctx context.Context) (int64, error)
}
