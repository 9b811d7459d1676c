package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id             UUID PRIMARY KEY,
	name           VARCHAR(200)  NOT NULL,
	description    VARCHAR(1000) NOT NULL DEFAULT '',
	price          NUMERIC(18,2) NOT NULL CHECK (price >= 0),
	stock_quantity INTEGER       NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
	created_at     TIMESTAMPTZ   NOT NULL,
	updated_at     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS orders (
	id                UUID PRIMARY KEY,
	document_type     VARCHAR(4)    NOT NULL,
	customer_document VARCHAR(14)   NOT NULL,
	seller_id         TEXT          NOT NULL,
	seller_name       TEXT          NOT NULL,
	total_amount      NUMERIC(18,2) NOT NULL,
	created_at        TIMESTAMPTZ   NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_seller_created_idx ON orders (seller_id, created_at DESC);

CREATE TABLE IF NOT EXISTS order_items (
	id         UUID PRIMARY KEY,
	order_id   UUID          NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
	product_id UUID          NOT NULL,
	position   INTEGER       NOT NULL,
	quantity   INTEGER       NOT NULL CHECK (quantity > 0),
	unit_price NUMERIC(18,2) NOT NULL
);
CREATE INDEX IF NOT EXISTS order_items_order_idx ON order_items (order_id);

CREATE TABLE IF NOT EXISTS stock_entries (
	id                   UUID PRIMARY KEY,
	product_id           UUID        NOT NULL,
	quantity             INTEGER     NOT NULL CHECK (quantity > 0),
	invoice_number       VARCHAR(50) NOT NULL,
	entry_date           TIMESTAMPTZ NOT NULL,
	created_by_user_id   TEXT        NOT NULL,
	created_by_user_name TEXT        NOT NULL
);
CREATE INDEX IF NOT EXISTS stock_entries_product_idx ON stock_entries (product_id, entry_date DESC);
`

// Migrate creates the tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
