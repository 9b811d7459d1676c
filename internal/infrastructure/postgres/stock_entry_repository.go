package postgres

import (
	"context"
	"fmt"

	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/jackc/pgx/v5"
)

type stockEntryRepo struct {
	q querier
}

const stockEntrySelect = `
	SELECT e.id::text, e.product_id::text, COALESCE(p.name, ''), e.quantity, e.invoice_number,
	       e.entry_date, e.created_by_user_id, e.created_by_user_name
	FROM stock_entries e
	LEFT JOIN products p ON p.id = e.product_id`

func scanStockEntry(row pgx.Row) (*catalog.StockEntry, error) {
	var e catalog.StockEntry
	err := row.Scan(&e.ID, &e.ProductID, &e.ProductName, &e.Quantity, &e.InvoiceNumber,
		&e.EntryDate, &e.CreatedByUserID, &e.CreatedByUserName)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *stockEntryRepo) Get(ctx context.Context, id string) (*catalog.StockEntry, error) {
	if !validID(id) {
		return nil, catalog.ErrStockEntryNotFound
	}
	e, err := scanStockEntry(r.q.QueryRow(ctx, stockEntrySelect+` WHERE e.id = $1`, id))
	if isNoRows(err) {
		return nil, catalog.ErrStockEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return e, nil
}

func (r *stockEntryRepo) List(ctx context.Context) ([]*catalog.StockEntry, error) {
	return r.list(ctx, stockEntrySelect+` ORDER BY e.entry_date DESC, e.id`)
}

func (r *stockEntryRepo) ListByProduct(ctx context.Context, productID string) ([]*catalog.StockEntry, error) {
	if !validID(productID) {
		return []*catalog.StockEntry{}, nil
	}
	return r.list(ctx, stockEntrySelect+` WHERE e.product_id = $1 ORDER BY e.entry_date DESC, e.id`, productID)
}

func (r *stockEntryRepo) list(ctx context.Context, query string, args ...any) ([]*catalog.StockEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()

	out := make([]*catalog.StockEntry, 0)
	for rows.Next() {
		e, err := scanStockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *stockEntryRepo) Add(ctx context.Context, e *catalog.StockEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_entries (id, product_id, quantity, invoice_number, entry_date, created_by_user_id, created_by_user_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ProductID, e.Quantity, e.InvoiceNumber, e.EntryDate, e.CreatedByUserID, e.CreatedByUserName)
	if err != nil {
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}
