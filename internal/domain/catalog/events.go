package catalog

import "time"

// StockAddedEvent is emitted after a replenishment commits.
type StockAddedEvent struct {
	EntryID       string    `json:"entry_id"`
	ProductID     string    `json:"product_id"`
	Quantity      int       `json:"quantity"`
	InvoiceNumber string    `json:"invoice_number"`
	ActorID       string    `json:"actor_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (StockAddedEvent) EventName() string { return "stock.added" }

func (e StockAddedEvent) AggregateID() string { return e.ProductID }

func NewStockAddedEvent(entry *StockEntry) StockAddedEvent {
	return StockAddedEvent{
		EntryID:       entry.ID,
		ProductID:     entry.ProductID,
		Quantity:      entry.Quantity,
		InvoiceNumber: entry.InvoiceNumber,
		ActorID:       entry.CreatedByUserID,
		OccurredAt:    time.Now().UTC(),
	}
}
