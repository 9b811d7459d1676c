package httppresentation

import (
	"encoding/json"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	domainOrder "github.com/felipeshurrab/Harmonia/internal/domain/order"
	"github.com/shopspring/decimal"
)

// money renders a monetary value as a JSON number with two decimals.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(catalog.PriceScale))
}

type orderItemResponse struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price"`
	TotalPrice  json.Number `json:"total_price"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	DocumentType     string              `json:"document_type"`
	CustomerDocument string              `json:"customer_document"`
	SellerID         string              `json:"seller_id"`
	SellerName       string              `json:"seller_name"`
	CreatedAt        time.Time           `json:"created_at"`
	TotalAmount      json.Number         `json:"total_amount"`
	Items            []orderItemResponse `json:"items"`
}

func toOrderResponse(o *domainOrder.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   money(it.UnitPrice),
			TotalPrice:  money(it.TotalPrice()),
		})
	}
	return orderResponse{
		ID:               o.ID,
		DocumentType:     string(o.DocumentType),
		CustomerDocument: o.CustomerDocument,
		SellerID:         o.SellerID,
		SellerName:       o.SellerName,
		CreatedAt:        o.CreatedAt,
		TotalAmount:      money(o.TotalAmount),
		Items:            items,
	}
}

type productResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Price         json.Number `json:"price"`
	StockQuantity int         `json:"stock_quantity"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty"`
}

func toProductResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         money(p.Price),
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type stockEntryResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name"`
	Quantity          int       `json:"quantity"`
	InvoiceNumber     string    `json:"invoice_number"`
	EntryDate         time.Time `json:"entry_date"`
	CreatedByUserID   string    `json:"created_by_user_id"`
	CreatedByUserName string    `json:"created_by_user_name"`
}

func toStockEntryResponse(e *catalog.StockEntry) stockEntryResponse {
	return stockEntryResponse{
		ID:                e.ID,
		ProductID:         e.ProductID,
		ProductName:       e.ProductName,
		Quantity:          e.Quantity,
		InvoiceNumber:     e.InvoiceNumber,
		EntryDate:         e.EntryDate,
		CreatedByUserID:   e.CreatedByUserID,
		CreatedByUserName: e.CreatedByUserName,
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
