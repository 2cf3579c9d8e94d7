package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/domain/customer"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone).
		Scan(&c.ID, &c.CreatedAt)
	if isUniqueViolation(err) {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	query := `
		SELECT c.id, c.first_name, c.last_name, c.email, c.phone, c.created_at,
		       (SELECT MAX(ct.contact_time) FROM contacts ct WHERE ct.customer_id = c.id)
		FROM customers c
		WHERE c.id = $1
	`

	var c customer.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt, &c.LastContact,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, email = $4, phone = $5
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, c.ID, c.FirstName, c.LastName, c.Email, c.Phone)
	if isUniqueViolation(err) {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes the customer. Orders, order items and contacts go with it
// through the ON DELETE CASCADE constraints.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) List(ctx context.Context, filters *customer.ListFilters) ([]customer.Customer, int64, error) {
	where := `
		($1 = '' OR c.first_name ILIKE '%'||$1||'%'
		         OR c.last_name  ILIKE '%'||$1||'%'
		         OR c.email      ILIKE '%'||$1||'%'
		         OR c.phone      ILIKE '%'||$1||'%')
	`

	var total int64
	countQuery := `SELECT COUNT(*) FROM customers c WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, filters.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	orderBy := `c.last_name, c.first_name`
	if filters.SortBy == customer.SortByLastContact {
		orderBy = `lc.last_contact DESC NULLS LAST, c.last_name, c.first_name`
	}

	query := `
		SELECT c.id, c.first_name, c.last_name, c.email, c.phone, c.created_at,
		       lc.last_contact
		FROM customers c
		LEFT JOIN (
			SELECT customer_id, MAX(contact_time) AS last_contact
			FROM contacts
			GROUP BY customer_id
		) lc ON lc.customer_id = c.id
		WHERE ` + where + `
		ORDER BY ` + orderBy + `
		LIMIT $2 OFFSET $3
	`

	offset := pagination.Offset(filters.Page, filters.PageSize)
	rows, err := r.db.Query(ctx, query, filters.Search, filters.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var out []customer.Customer
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt, &c.LastContact); err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *CustomerRepository) ListAll(ctx context.Context) ([]customer.Customer, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, created_at
		FROM customers
		ORDER BY last_name, first_name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var out []customer.Customer
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CustomerRepository) Recent(ctx context.Context, limit int) ([]customer.Customer, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, created_at
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent customers: %w", err)
	}
	defer rows.Close()

	var out []customer.Customer
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1 AND id <> $2)
	`, email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check customer email: %w", err)
	}
	return exists, nil
}
