package catalog

import (
	"errors"
	"time"
)

var ErrStockEntryNotFound = errors.New("catalog: stock entry not found")

// StockEntry is the audit record of a stock replenishment.
type StockEntry struct {
	ID                string
	ProductID         string
	ProductName       string // resolved on read
	Quantity          int
	InvoiceNumber     string
	EntryDate         time.Time
	CreatedByUserID   string
	CreatedByUserName string
}

func NewStockEntry(id, productID string, quantity int, invoiceNumber, actorID, actorName string, now time.Time) (*StockEntry, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &StockEntry{
		ID:                id,
		ProductID:         productID,
		Quantity:          quantity,
		InvoiceNumber:     invoiceNumber,
		EntryDate:         now.UTC(),
		CreatedByUserID:   actorID,
		CreatedByUserName: actorName,
	}, nil
}

func (e *StockEntry) Clone() *StockEntry {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}
