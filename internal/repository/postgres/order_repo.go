package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/domain/order"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and its items in one transaction. A failure on
// any item rolls back the whole order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order, items []order.Item) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, order_date, status, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, o.CustomerID, o.OrderDate, o.Status, o.TotalAmount).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = o.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice).Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Info, error) {
	query := `
		SELECT o.id, o.customer_id, o.order_date, o.status, o.total_amount::text,
		       c.first_name, c.last_name,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id)
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`

	var o order.Info
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &o.OrderDate, &o.Status, &o.TotalAmount,
		&o.CustomerFirstName, &o.CustomerLastName, &o.ItemCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

// Items returns the order's items with product name and SKU in one query.
func (r *OrderRepository) Items(ctx context.Context, orderID int64) ([]order.ItemInfo, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price::text,
		       p.name, p.sku
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	var out []order.ItemInfo
	for rows.Next() {
		var it order.ItemInfo
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.ProductName, &it.ProductSKU); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrderRepository) List(ctx context.Context, filters *order.ListFilters) ([]order.Info, int64, error) {
	where := `
		($1 = '' OR o.id::text ILIKE '%'||$1||'%'
		         OR c.first_name ILIKE '%'||$1||'%'
		         OR c.last_name  ILIKE '%'||$1||'%')
	`

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, filters.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `
		SELECT o.id, o.customer_id, o.order_date, o.status, o.total_amount::text,
		       c.first_name, c.last_name,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id)
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE ` + where + `
		ORDER BY o.order_date DESC
		LIMIT $2 OFFSET $3
	`

	offset := pagination.Offset(filters.Page, filters.PageSize)
	rows, err := r.db.Query(ctx, query, filters.Search, filters.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	out, err := scanOrderInfos(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]order.Order, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customer orders: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, order_date, status, total_amount::text
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_date DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customer orders: %w", err)
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.Status, &o.TotalAmount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *OrderRepository) RecentByCustomer(ctx context.Context, customerID int64, limit int) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, order_date, status, total_amount::text
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_date DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent customer orders: %w", err)
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.Status, &o.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count customer orders: %w", err)
	}
	return n, nil
}

// SumRevenue aggregates in SQL over NUMERIC so repeated summation never
// drifts; the result comes back as text and is parsed into a decimal.
func (r *OrderRepository) SumRevenue(ctx context.Context, customerID int64, from, to *time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)::text
		FROM orders
		WHERE customer_id = $1
		  AND ($2::timestamptz IS NULL OR order_date >= $2)
		  AND ($3::timestamptz IS NULL OR order_date <= $3)
	`, customerID, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return sum, nil
}

func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]order.Info, error) {
	query := `
		SELECT o.id, o.customer_id, o.order_date, o.status, o.total_amount::text,
		       c.first_name, c.last_name,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id)
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.order_date DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	defer rows.Close()

	return scanOrderInfos(rows)
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

func (r *OrderRepository) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0)::text FROM orders`).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum order totals: %w", err)
	}
	return sum, nil
}

func scanOrderInfos(rows pgx.Rows) ([]order.Info, error) {
	var out []order.Info
	for rows.Next() {
		var o order.Info
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.Status, &o.TotalAmount,
			&o.CustomerFirstName, &o.CustomerLastName, &o.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
