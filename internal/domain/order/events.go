package order

import "time"

type PlacedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// OrderPlacedEvent is emitted once an order and its stock deductions commit.
type OrderPlacedEvent struct {
	OrderID     string       `json:"order_id"`
	SellerID    string       `json:"seller_id"`
	TotalAmount string       `json:"total_amount"`
	Items       []PlacedItem `json:"items"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

func (OrderPlacedEvent) EventName() string { return "order.placed" }

func (e OrderPlacedEvent) AggregateID() string { return e.OrderID }

func NewOrderPlacedEvent(o *Order) OrderPlacedEvent {
	items := make([]PlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, PlacedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
		})
	}
	return OrderPlacedEvent{
		OrderID:     o.ID,
		SellerID:    o.SellerID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		Items:       items,
		OccurredAt:  time.Now().UTC(),
	}
}
