package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/application"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
)

// productRepo reads committed state when t is nil and routes each write
// through its own unit of work.
type productRepo struct {
	s *Store
	t *txn
}

func (r *productRepo) Get(ctx context.Context, id string) (*catalog.Product, error) {
	_ = ctx
	if r.t != nil {
		p, ok := r.t.product(id)
		if !ok {
			return nil, catalog.ErrNotFound
		}
		return p.Clone(), nil
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *productRepo) List(ctx context.Context) ([]*catalog.Product, error) {
	_ = ctx
	r.s.mu.RLock()
	seen := make(map[string]*catalog.Product, len(r.s.products))
	for id, p := range r.s.products {
		seen[id] = p
	}
	r.s.mu.RUnlock()

	if r.t != nil {
		for id, p := range r.t.products {
			if p == nil {
				delete(seen, id)
				continue
			}
			seen[id] = p
		}
	}

	out := make([]*catalog.Product, 0, len(seen))
	for _, p := range seen {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *productRepo) Add(ctx context.Context, p *catalog.Product) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}
	return r.write(ctx, func(t *txn) error {
		if _, exists := t.product(p.ID); exists {
			return fmt.Errorf("product repository: %s already exists", p.ID)
		}
		t.products[p.ID] = p.Clone()
		return nil
	})
}

func (r *productRepo) Update(ctx context.Context, p *catalog.Product) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}
	return r.write(ctx, func(t *txn) error {
		if _, exists := t.product(p.ID); !exists {
			return catalog.ErrNotFound
		}
		t.products[p.ID] = p.Clone()
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.write(ctx, func(t *txn) error {
		if _, exists := t.product(id); !exists {
			return catalog.ErrNotFound
		}
		t.products[id] = nil
		return nil
	})
}

func (r *productRepo) DecrementStock(ctx context.Context, id string, quantity int, at time.Time) error {
	return r.write(ctx, func(t *txn) error {
		current, ok := t.product(id)
		if !ok {
			return catalog.ErrNotFound
		}
		if quantity <= 0 {
			return catalog.ErrInvalidQuantity
		}
		if current.StockQuantity < quantity {
			return catalog.ErrStockConflict
		}
		next := current.Clone()
		if err := next.Deduct(quantity, at); err != nil {
			return err
		}
		t.products[id] = next
		return nil
	})
}

func (r *productRepo) IncrementStock(ctx context.Context, id string, quantity int, at time.Time) error {
	return r.write(ctx, func(t *txn) error {
		current, ok := t.product(id)
		if !ok {
			return catalog.ErrNotFound
		}
		next := current.Clone()
		if err := next.Restock(quantity, at); err != nil {
			return err
		}
		t.products[id] = next
		return nil
	})
}

func (r *productRepo) write(ctx context.Context, fn func(t *txn) error) error {
	if r.t != nil {
		return fn(r.t)
	}
	return r.s.WithinTx(ctx, func(_ context.Context, tx application.Tx) error {
		return fn(tx.(*txn))
	})
}
