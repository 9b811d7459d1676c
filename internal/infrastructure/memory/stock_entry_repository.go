package memory

import (
	"context"
	"fmt"

	"github.com/felipeshurrab/Harmonia/internal/application"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
)

type stockEntryRepo struct {
	s *Store
	t *txn
}

func (r *stockEntryRepo) Get(ctx context.Context, id string) (*catalog.StockEntry, error) {
	_ = ctx
	if r.t != nil {
		e, ok := r.t.entry(id)
		if !ok {
			return nil, catalog.ErrStockEntryNotFound
		}
		out := e.Clone()
		out.ProductName = r.t.productName(e.ProductID)
		return out, nil
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.entries[id]
	if !ok {
		return nil, catalog.ErrStockEntryNotFound
	}
	return r.s.resolveEntry(e), nil
}

func (r *stockEntryRepo) List(ctx context.Context) ([]*catalog.StockEntry, error) {
	return r.filter(ctx, func(*catalog.StockEntry) bool { return true })
}

func (r *stockEntryRepo) ListByProduct(ctx context.Context, productID string) ([]*catalog.StockEntry, error) {
	return r.filter(ctx, func(e *catalog.StockEntry) bool { return e.ProductID == productID })
}

func (r *stockEntryRepo) filter(ctx context.Context, keep func(*catalog.StockEntry) bool) ([]*catalog.StockEntry, error) {
	_ = ctx
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*catalog.StockEntry, 0)
	for _, e := range r.s.entries {
		if keep(e) {
			out = append(out, r.s.resolveEntry(e))
		}
	}
	r.s.newestEntries(out)
	return out, nil
}

func (r *stockEntryRepo) Add(ctx context.Context, e *catalog.StockEntry) error {
	if e == nil || e.ID == "" {
		return fmt.Errorf("stock entry repository: id is required")
	}
	add := func(t *txn) error {
		if _, exists := t.entry(e.ID); exists {
			return fmt.Errorf("stock entry repository: %s already exists", e.ID)
		}
		if _, ok := t.product(e.ProductID); !ok {
			return catalog.ErrNotFound
		}
		t.entries = append(t.entries, e.Clone())
		return nil
	}
	if r.t != nil {
		return add(r.t)
	}
	return r.s.WithinTx(ctx, func(_ context.Context, tx application.Tx) error {
		return add(tx.(*txn))
	})
}
