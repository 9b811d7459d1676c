package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type productRepo struct {
	q    querier
	lock bool
}

const productColumns = `id::text, name, description, price::text, stock_quantity, created_at, updated_at`

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var (
		p     catalog.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = d
	return &p, nil
}

func (r *productRepo) Get(ctx context.Context, id string) (*catalog.Product, error) {
	if !validID(id) {
		return nil, catalog.ErrNotFound
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if r.lock {
		query += ` FOR UPDATE`
	}
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *productRepo) List(ctx context.Context) ([]*catalog.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]*catalog.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *productRepo) Add(ctx context.Context, p *catalog.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, name, description, price, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)`,
		p.ID, p.Name, p.Description, p.Price.StringFixed(catalog.PriceScale), p.StockQuantity, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update writes the descriptive fields only. Stock moves through the
// increment and decrement statements.
func (r *productRepo) Update(ctx context.Context, p *catalog.Product) error {
	if !validID(p.ID) {
		return catalog.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4::numeric, updated_at = $5
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price.StringFixed(catalog.PriceScale), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return catalog.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *productRepo) DecrementStock(ctx context.Context, id string, quantity int, at time.Time) error {
	if quantity <= 0 {
		return catalog.ErrInvalidQuantity
	}
	if !validID(id) {
		return catalog.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = $3
		WHERE id = $1 AND stock_quantity >= $2`,
		id, quantity, at.UTC())
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrStockConflict
	}
	return nil
}

func (r *productRepo) IncrementStock(ctx context.Context, id string, quantity int, at time.Time) error {
	if quantity <= 0 {
		return catalog.ErrInvalidQuantity
	}
	if !validID(id) {
		return catalog.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = $3
		WHERE id = $1`,
		id, quantity, at.UTC())
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
