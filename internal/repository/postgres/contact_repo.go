package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/domain/contact"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	query := `
		INSERT INTO contacts (customer_id, user_id, channel, subject, notes, contact_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		c.CustomerID, c.UserID, c.Channel, c.Subject, c.Notes, c.ContactTime,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id int64) (*contact.Info, error) {
	query := `
		SELECT ct.id, ct.customer_id, ct.user_id, ct.channel, ct.subject, ct.notes, ct.contact_time,
		       c.first_name, c.last_name, u.name
		FROM contacts ct
		JOIN customers c ON c.id = ct.customer_id
		LEFT JOIN users u ON u.id = ct.user_id
		WHERE ct.id = $1
	`

	var c contact.Info
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CustomerID, &c.UserID, &c.Channel, &c.Subject, &c.Notes, &c.ContactTime,
		&c.CustomerFirstName, &c.CustomerLastName, &c.UserName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return &c, nil
}

func (r *ContactRepository) List(ctx context.Context, filters *contact.ListFilters) ([]contact.Info, int64, error) {
	where := `($1 = '' OR ct.channel = $1)`

	var total int64
	countQuery := `SELECT COUNT(*) FROM contacts ct WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, filters.Channel).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := `
		SELECT ct.id, ct.customer_id, ct.user_id, ct.channel, ct.subject, ct.notes, ct.contact_time,
		       c.first_name, c.last_name, u.name
		FROM contacts ct
		JOIN customers c ON c.id = ct.customer_id
		LEFT JOIN users u ON u.id = ct.user_id
		WHERE ` + where + `
		ORDER BY ct.contact_time DESC
		LIMIT $2 OFFSET $3
	`

	offset := pagination.Offset(filters.Page, filters.PageSize)
	rows, err := r.db.Query(ctx, query, filters.Channel, filters.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	out, err := scanContactInfos(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ContactRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]contact.Info, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE customer_id = $1`, customerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customer contacts: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT ct.id, ct.customer_id, ct.user_id, ct.channel, ct.subject, ct.notes, ct.contact_time,
		       c.first_name, c.last_name, u.name
		FROM contacts ct
		JOIN customers c ON c.id = ct.customer_id
		LEFT JOIN users u ON u.id = ct.user_id
		WHERE ct.customer_id = $1
		ORDER BY ct.contact_time DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customer contacts: %w", err)
	}
	defer rows.Close()

	out, err := scanContactInfos(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ContactRepository) RecentByCustomer(ctx context.Context, customerID int64, limit int) ([]contact.Info, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ct.id, ct.customer_id, ct.user_id, ct.channel, ct.subject, ct.notes, ct.contact_time,
		       c.first_name, c.last_name, u.name
		FROM contacts ct
		JOIN customers c ON c.id = ct.customer_id
		LEFT JOIN users u ON u.id = ct.user_id
		WHERE ct.customer_id = $1
		ORDER BY ct.contact_time DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent customer contacts: %w", err)
	}
	defer rows.Close()

	return scanContactInfos(rows)
}

func (r *ContactRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE customer_id = $1`, customerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count customer contacts: %w", err)
	}
	return n, nil
}

func (r *ContactRepository) LastContactTime(ctx context.Context, customerID int64) (*time.Time, error) {
	var last *time.Time
	err := r.db.QueryRow(ctx, `
		SELECT MAX(contact_time) FROM contacts WHERE customer_id = $1
	`, customerID).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("failed to find last contact time: %w", err)
	}
	return last, nil
}

func (r *ContactRepository) Recent(ctx context.Context, limit int) ([]contact.Info, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ct.id, ct.customer_id, ct.user_id, ct.channel, ct.subject, ct.notes, ct.contact_time,
		       c.first_name, c.last_name, u.name
		FROM contacts ct
		JOIN customers c ON c.id = ct.customer_id
		LEFT JOIN users u ON u.id = ct.user_id
		ORDER BY ct.contact_time DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent contacts: %w", err)
	}
	defer rows.Close()

	return scanContactInfos(rows)
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}

func scanContactInfos(rows pgx.Rows) ([]contact.Info, error) {
	var out []contact.Info
	for rows.Next() {
		var c contact.Info
		if err := rows.Scan(&c.ID, &c.CustomerID, &c.UserID, &c.Channel, &c.Subject, &c.Notes, &c.ContactTime,
			&c.CustomerFirstName, &c.CustomerLastName, &c.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
