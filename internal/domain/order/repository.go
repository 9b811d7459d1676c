package order

import "context"

// Reader returns orders with item product names resolved.
type Reader interface {
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*Order, error)
}

type Repository interface {
	Reader
	Add(ctx context.Context, o *Order) error
}
