package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("catalog: product not found")
	ErrInvalidQuantity   = errors.New("catalog: quantity must be greater than zero")
	ErrInvalidPrice      = errors.New("catalog: price must be zero or greater")
	ErrInsufficientStock = errors.New("catalog: insufficient stock")
)

// PriceScale is the number of fractional digits kept on every monetary value.
const PriceScale = 2

type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// NewProduct builds a product with an empty stock.
func NewProduct(id, name, description string, price decimal.Decimal, now time.Time) (*Product, error) {
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price.Round(PriceScale),
		CreatedAt:   now.UTC(),
	}, nil
}

// Revise replaces the descriptive fields and price. Stock is untouched.
func (p *Product) Revise(name, description string, price decimal.Decimal, now time.Time) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	p.Name = name
	p.Description = description
	p.Price = price.Round(PriceScale)
	p.touch(now)
	return nil
}

// Deduct removes quantity units from stock, refusing to go below zero.
func (p *Product) Deduct(quantity int, now time.Time) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.StockQuantity {
		return ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	p.touch(now)
	return nil
}

func (p *Product) Restock(quantity int, now time.Time) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.StockQuantity += quantity
	p.touch(now)
	return nil
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	if p.UpdatedAt != nil {
		at := *p.UpdatedAt
		clone.UpdatedAt = &at
	}
	return &clone
}

func (p *Product) touch(now time.Time) {
	at := now.UTC()
	p.UpdatedAt = &at
}
