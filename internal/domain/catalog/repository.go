package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrStockConflict is returned by a conditional decrement that found less
// stock than requested.
var ErrStockConflict = errors.New("catalog: stock changed concurrently")

type ProductReader interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}

// ProductRepository is the write side. Inside a unit of work Get locks the
// row for the remainder of the transaction where the store supports it.
type ProductRepository interface {
	ProductReader
	Add(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	// DecrementStock applies stock = stock - quantity only when stock >= quantity.
	DecrementStock(ctx context.Context, id string, quantity int, at time.Time) error
	IncrementStock(ctx context.Context, id string, quantity int, at time.Time) error
}

type StockEntryReader interface {
	Get(ctx context.Context, id string) (*StockEntry, error)
	List(ctx context.Context) ([]*StockEntry, error)
	ListByProduct(ctx context.Context, productID string) ([]*StockEntry, error)
}

type StockEntryRepository interface {
	StockEntryReader
	Add(ctx context.Context, e *StockEntry) error
}
