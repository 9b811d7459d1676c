package memory

import (
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/order"
)

// txn is the write set of one unit of work. A nil product marks a delete.
type txn struct {
	s        *Store
	products map[string]*catalog.Product
	entries  []*catalog.StockEntry
	orders   []*order.Order
}

func newTxn(s *Store) *txn {
	return &txn{s: s, products: make(map[string]*catalog.Product)}
}

func (t *txn) Products() catalog.ProductRepository { return &productRepo{s: t.s, t: t} }

func (t *txn) StockEntries() catalog.StockEntryRepository { return &stockEntryRepo{s: t.s, t: t} }

func (t *txn) Orders() order.Repository { return &orderRepo{s: t.s, t: t} }

// product returns the staged version of id, falling back to committed state.
// The result must not be mutated.
func (t *txn) product(id string) (*catalog.Product, bool) {
	if p, staged := t.products[id]; staged {
		return p, p != nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	p, ok := t.s.products[id]
	return p, ok
}

func (t *txn) productName(id string) string {
	if p, ok := t.product(id); ok {
		return p.Name
	}
	return ""
}

func (t *txn) order(id string) (*order.Order, bool) {
	for _, o := range t.orders {
		if o.ID == id {
			return o, true
		}
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	o, ok := t.s.orders[id]
	return o, ok
}

func (t *txn) entry(id string) (*catalog.StockEntry, bool) {
	for _, e := range t.entries {
		if e.ID == id {
			return e, true
		}
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	e, ok := t.s.entries[id]
	return e, ok
}
