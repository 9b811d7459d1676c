package application

import (
	"context"

	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/order"
)

type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

type IDGenerator interface {
	NewID() string
}

// Tx exposes the repositories bound to one unit of work.
type Tx interface {
	Products() catalog.ProductRepository
	StockEntries() catalog.StockEntryRepository
	Orders() order.Repository
}

// Transactor runs fn as a single atomic unit. Every write made through tx is
// committed when fn returns nil and discarded otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// IdempotencyStore remembers which result a client request key produced.
type IdempotencyStore interface {
	// Reserve claims key. When it was claimed before, result is the stored
	// result, or "" while the first request is still running.
	Reserve(ctx context.Context, key string) (reserved bool, result string, err error)
	Complete(ctx context.Context, key, result string) error
	Release(ctx context.Context, key string) error
}
