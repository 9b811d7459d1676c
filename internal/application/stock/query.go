package stock

import (
	"context"

	"github.com/felipeshurrab/Harmonia/internal/application"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/felipeshurrab/Harmonia/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const useCaseStockList = "stock.list"

// ListEntriesInput selects every entry when ProductID is empty.
type ListEntriesInput struct {
	ProductID string
}

type ListEntriesUseCase struct {
	entries catalog.StockEntryReader
	in      application.Instrumentation
}

func NewListEntriesUseCase(entries catalog.StockEntryReader, tel observability.Observability) *ListEntriesUseCase {
	return &ListEntriesUseCase{
		entries: entries,
		in:      application.NewInstrumentation(tel, stockService),
	}
}

func (uc *ListEntriesUseCase) Execute(ctx context.Context, cmd ListEntriesInput) (_ []*catalog.StockEntry, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseStockList, "ListStockEntries",
		attribute.String("product.id", cmd.ProductID),
	)
	defer func() { run.End(err) }()

	var out []*catalog.StockEntry
	if cmd.ProductID == "" {
		out, err = uc.entries.List(ctx)
	} else {
		out, err = uc.entries.ListByProduct(ctx, cmd.ProductID)
	}
	if err != nil {
		err = fault.Infrastructure("list stock entries", err)
		return nil, err
	}
	run.Field("count", len(out))
	return out, nil
}
