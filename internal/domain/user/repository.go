package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)

	// ListAll returns every user ordered by name, for the contact form.
	ListAll(ctx context.Context) ([]User, error)
}
