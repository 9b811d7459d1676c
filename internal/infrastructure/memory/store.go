package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/felipeshurrab/Harmonia/internal/application"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/order"
)

var _ application.Transactor = (*Store)(nil)

// Store keeps products, stock entries and orders in process memory. Units of
// work run one at a time; their writes are staged and applied on commit.
type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	products map[string]*catalog.Product
	entries  map[string]*catalog.StockEntry
	orders   map[string]*order.Order
	seq      map[string]int64 // insertion sequence, tie-break for equal timestamps
	next     int64
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]*catalog.Product),
		entries:  make(map[string]*catalog.StockEntry),
		orders:   make(map[string]*order.Order),
		seq:      make(map[string]int64),
	}
}

// WithinTx runs fn against a staging area. Nothing fn wrote is visible to
// other callers until fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx application.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	t := newTxn(s)
	if err := fn(ctx, t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.commit(t)
	return nil
}

// Products returns a repository whose writes commit immediately.
func (s *Store) Products() catalog.ProductRepository { return &productRepo{s: s} }

func (s *Store) StockEntries() catalog.StockEntryRepository { return &stockEntryRepo{s: s} }

func (s *Store) Orders() order.Repository { return &orderRepo{s: s} }

func (s *Store) commit(t *txn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range t.products {
		if p == nil {
			delete(s.products, id)
			continue
		}
		s.products[id] = p
	}
	for _, e := range t.entries {
		s.entries[e.ID] = e
		s.stamp(e.ID)
	}
	for _, o := range t.orders {
		s.orders[o.ID] = o
		s.stamp(o.ID)
	}
}

func (s *Store) stamp(id string) {
	s.next++
	s.seq[id] = s.next
}

// productName resolves a display name; callers hold s.mu.
func (s *Store) productName(id string) string {
	if p, ok := s.products[id]; ok {
		return p.Name
	}
	return ""
}

func (s *Store) resolveOrder(o *order.Order) *order.Order {
	clone := o.Clone()
	for i := range clone.Items {
		if name := s.productName(clone.Items[i].ProductID); name != "" {
			clone.Items[i].ProductName = name
		}
	}
	return clone
}

func (s *Store) resolveEntry(e *catalog.StockEntry) *catalog.StockEntry {
	clone := e.Clone()
	if name := s.productName(clone.ProductID); name != "" {
		clone.ProductName = name
	}
	return clone
}

// newestOrders sorts by creation time descending, latest insert first on ties.
func (s *Store) newestOrders(orders []*order.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return s.seq[orders[i].ID] > s.seq[orders[j].ID]
	})
}

func (s *Store) newestEntries(entries []*catalog.StockEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.After(entries[j].EntryDate)
		}
		return s.seq[entries[i].ID] > s.seq[entries[j].ID]
	})
}
