package memory

import (
	"context"
	"fmt"

	"github.com/felipeshurrab/Harmonia/internal/application"
	domain "github.com/felipeshurrab/Harmonia/internal/domain/order"
)

type orderRepo struct {
	s *Store
	t *txn
}

func (r *orderRepo) Add(ctx context.Context, o *domain.Order) error {
	if o == nil || o.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}
	add := func(t *txn) error {
		if _, exists := t.order(o.ID); exists {
			return domain.ErrConflict
		}
		stored := o.Clone()
		for i := range stored.Items {
			stored.Items[i].ProductName = ""
		}
		t.orders = append(t.orders, stored)
		return nil
	}
	if r.t != nil {
		return add(r.t)
	}
	return r.s.WithinTx(ctx, func(_ context.Context, tx application.Tx) error {
		return add(tx.(*txn))
	})
}

func (r *orderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx
	if r.t != nil {
		o, ok := r.t.order(id)
		if !ok {
			return nil, domain.ErrNotFound
		}
		out := o.Clone()
		for i := range out.Items {
			out.Items[i].ProductName = r.t.productName(out.Items[i].ProductID)
		}
		return out, nil
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.s.resolveOrder(o), nil
}

func (r *orderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	return r.filter(ctx, func(*domain.Order) bool { return true })
}

func (r *orderRepo) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Order, error) {
	return r.filter(ctx, func(o *domain.Order) bool { return o.SellerID == sellerID })
}

func (r *orderRepo) filter(ctx context.Context, keep func(*domain.Order) bool) ([]*domain.Order, error) {
	_ = ctx
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Order, 0)
	for _, o := range r.s.orders {
		if keep(o) {
			out = append(out, r.s.resolveOrder(o))
		}
	}
	r.s.newestOrders(out)
	return out, nil
}
