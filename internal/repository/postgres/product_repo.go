package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/domain/product"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (sku, name, base_price)
		VALUES ($1, $2, $3)
		RETURNING id
	`, p.SKU, p.Name, p.BasePrice).Scan(&p.ID)
	if isUniqueViolation(err) {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	err := r.db.QueryRow(ctx, `
		SELECT id, sku, name, base_price::text
		FROM products WHERE id = $1
	`, id).Scan(&p.ID, &p.SKU, &p.Name, &p.BasePrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]product.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sku, name, base_price::text
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var out []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.BasePrice); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
