package customer

import "context"

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id int64) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters *ListFilters) ([]Customer, int64, error)

	// ListAll returns every customer ordered by (last_name, first_name),
	// used to populate the order and contact form dropdowns.
	ListAll(ctx context.Context) ([]Customer, error)
	Recent(ctx context.Context, limit int) ([]Customer, error)
	Count(ctx context.Context) (int64, error)

	// ExistsByEmail reports whether another customer already uses the
	// address. excludeID skips the customer being edited (0 for creates).
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}
