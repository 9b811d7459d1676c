package postgres

import (
	"context"
	"fmt"

	domain "github.com/felipeshurrab/Harmonia/internal/domain/order"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type orderRepo struct {
	q querier
}

func (r *orderRepo) Add(ctx context.Context, o *domain.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, document_type, customer_document, seller_id, seller_name, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7)`,
		o.ID, string(o.DocumentType), o.CustomerDocument, o.SellerID, o.SellerName, o.TotalAmount.StringFixed(2), o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (id, order_id, product_id, position, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6::numeric)`,
			it.ID, o.ID, it.ProductID, i, it.Quantity, it.UnitPrice.StringFixed(2))
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

const orderSelect = `
	SELECT id::text, document_type, customer_document, seller_id, seller_name, total_amount::text, created_at
	FROM orders`

func (r *orderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	orders, err := r.list(ctx, orderSelect+` WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrNotFound
	}
	return orders[0], nil
}

func (r *orderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, orderSelect+` ORDER BY created_at DESC, id`)
}

func (r *orderRepo) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Order, error) {
	return r.list(ctx, orderSelect+` WHERE seller_id = $1 ORDER BY created_at DESC, id`, sellerID)
}

func (r *orderRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]*domain.Order, 0)
	byID := make(map[string]*domain.Order)
	ids := make([]string, 0)
	for rows.Next() {
		var (
			o       domain.Order
			docType string
			total   string
		)
		if err := rows.Scan(&o.ID, &docType, &o.CustomerDocument, &o.SellerID, &o.SellerName, &total, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.DocumentType = domain.DocumentType(docType)
		if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		out = append(out, &o)
		byID[o.ID] = &o
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	if err := r.loadItems(ctx, ids, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// loadItems attaches items to their orders, resolving product names.
func (r *orderRepo) loadItems(ctx context.Context, ids []string, byID map[string]*domain.Order) error {
	rows, err := r.q.Query(ctx, `
		SELECT i.id::text, i.order_id::text, i.product_id::text, COALESCE(p.name, ''), i.quantity, i.unit_price::text
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1::uuid[])
		ORDER BY i.order_id, i.position`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it    domain.Item
			price string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("parse unit price %q: %w", price, err)
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}
