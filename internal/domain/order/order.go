package order

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("order: not found")
	ErrConflict            = errors.New("order: already exists")
	ErrInvalidQuantity     = errors.New("order: quantity must be greater than zero")
	ErrNoItems             = errors.New("order: at least one item is required")
	ErrInvalidDocumentType = errors.New("order: document type must be CPF or CNPJ")
)

// DocumentType identifies the customer's tax document.
type DocumentType string

const (
	DocumentCPF  DocumentType = "CPF"
	DocumentCNPJ DocumentType = "CNPJ"
)

// ParseDocumentType accepts the type case-insensitively.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(strings.ToUpper(strings.TrimSpace(s))) {
	case DocumentCPF:
		return DocumentCPF, nil
	case DocumentCNPJ:
		return DocumentCNPJ, nil
	default:
		return "", ErrInvalidDocumentType
	}
}

// Digits is the exact length a document number of this type must have.
func (t DocumentType) Digits() int {
	switch t {
	case DocumentCPF:
		return 11
	case DocumentCNPJ:
		return 14
	default:
		return 0
	}
}

type Item struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string // resolved on read, not part of the persisted item
	Quantity    int
	UnitPrice   decimal.Decimal
}

// TotalPrice is quantity times the unit price captured at order time.
func (i Item) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// Order is an append-only record of a completed sale.
type Order struct {
	ID               string
	DocumentType     DocumentType
	CustomerDocument string
	SellerID         string
	SellerName       string
	CreatedAt        time.Time
	TotalAmount      decimal.Decimal
	Items            []Item
}

// New assembles an order aggregate and derives its total from the items.
func New(id string, docType DocumentType, document, sellerID, sellerName string, items []Item, now time.Time) (*Order, error) {
	if docType.Digits() == 0 {
		return nil, ErrInvalidDocumentType
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	owned := make([]Item, len(items))
	for i, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		it.OrderID = id
		it.UnitPrice = it.UnitPrice.Round(2)
		owned[i] = it
	}

	o := &Order{
		ID:               id,
		DocumentType:     docType,
		CustomerDocument: document,
		SellerID:         sellerID,
		SellerName:       sellerName,
		CreatedAt:        now.UTC(),
		Items:            owned,
	}
	o.TotalAmount = o.ComputeTotal()
	return o, nil
}

// ComputeTotal sums the line totals.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.TotalPrice())
	}
	return total.Round(2)
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	return &clone
}
