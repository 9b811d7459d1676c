package stock

import (
	"context"
	"errors"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/application"
	"github.com/felipeshurrab/Harmonia/internal/domain/access"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	domoutbox "github.com/felipeshurrab/Harmonia/internal/domain/outbox"
	"github.com/felipeshurrab/Harmonia/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	stockService    = "stock-service"
	useCaseStockAdd = "stock.add"
)

type AddStockInput struct {
	ProductID     string
	Quantity      int
	InvoiceNumber string
	Actor         access.Actor
}

// AddStockUseCase records a replenishment and raises the product stock in the
// same unit of work.
type AddStockUseCase struct {
	tx          application.Transactor
	entries     catalog.StockEntryReader
	idGenerator application.IDGenerator
	publisher   domoutbox.Publisher
	in          application.Instrumentation
	now         func() time.Time
}

func NewAddStockUseCase(
	tx application.Transactor,
	entries catalog.StockEntryReader,
	idGen application.IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *AddStockUseCase {
	return &AddStockUseCase{
		tx:          tx,
		entries:     entries,
		idGenerator: idGen,
		publisher:   publisher,
		in:          application.NewInstrumentation(tel, stockService),
		now:         time.Now,
	}
}

func (uc *AddStockUseCase) Execute(ctx context.Context, cmd AddStockInput) (_ *catalog.StockEntry, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseStockAdd, "AddStock",
		attribute.String("product.id", cmd.ProductID),
		attribute.Int("stock.quantity", cmd.Quantity),
	)
	defer func() { run.End(err) }()

	if cmd.Quantity <= 0 {
		run.Status("QUANTITY_INVALID")
		err = fault.Validation(catalog.ErrInvalidQuantity.Error(), map[string][]string{"quantity": {catalog.ErrInvalidQuantity.Error()}})
		return nil, err
	}

	entryID := uc.idGenerator.NewID()
	err = uc.tx.WithinTx(ctx, func(ctx context.Context, tx application.Tx) error {
		product, gerr := tx.Products().Get(ctx, cmd.ProductID)
		if errors.Is(gerr, catalog.ErrNotFound) {
			return fault.NotFound("Product", cmd.ProductID)
		}
		if gerr != nil {
			return fault.Infrastructure("load product", gerr)
		}

		now := uc.now()
		entry, nerr := catalog.NewStockEntry(entryID, product.ID, cmd.Quantity, cmd.InvoiceNumber, cmd.Actor.ID, cmd.Actor.Name, now)
		if nerr != nil {
			return fault.Validation(nerr.Error(), nil)
		}
		if aerr := tx.StockEntries().Add(ctx, entry); aerr != nil {
			return fault.Infrastructure("add stock entry", aerr)
		}
		if ierr := tx.Products().IncrementStock(ctx, product.ID, cmd.Quantity, now); ierr != nil {
			return fault.Infrastructure("increment stock", ierr)
		}
		return nil
	})
	if err != nil {
		err = fault.Infrastructure("add stock", err)
		return nil, err
	}

	uc.in.Metrics().Counter(observability.MStockUnits).Add(float64(cmd.Quantity), observability.L("direction", "in"))

	saved, gerr := uc.entries.Get(ctx, entryID)
	if gerr != nil {
		run.Status("RELOAD_FAILED")
		err = fault.Infrastructure("reload stock entry", gerr)
		return nil, err
	}

	if perr := uc.in.Publish(ctx, uc.publisher, catalog.NewStockAddedEvent(saved)); perr != nil {
		run.Status("EVENT_PUBLISH_FAILED")
		run.Field("event_publish_error", perr.Error())
	}

	run.Field("entry_id", saved.ID)
	return saved, nil
}
