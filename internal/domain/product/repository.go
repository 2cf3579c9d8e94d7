package product

import "context"

type Repository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)

	// ListAll returns every product ordered by name, for the order form.
	ListAll(ctx context.Context) ([]Product, error)
}
