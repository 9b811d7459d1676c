package order

import (
	"context"
	"errors"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/application"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	domain "github.com/felipeshurrab/Harmonia/internal/domain/order"
	domoutbox "github.com/felipeshurrab/Harmonia/internal/domain/outbox"
	"github.com/felipeshurrab/Harmonia/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	orderService      = "order-service"
	useCaseOrderPlace = "order.place"
)

type PlaceOrderLine struct {
	ProductID string
	Quantity  int
}

// PlaceOrderInput is a request that already passed field validation, plus the
// authenticated seller placing it.
type PlaceOrderInput struct {
	DocumentType     string
	CustomerDocument string
	SellerID         string
	SellerName       string
	Items            []PlaceOrderLine

	// IdempotencyKey is optional. A retried request with the same key from the
	// same seller returns the order the first attempt created.
	IdempotencyKey string
}

// PlaceOrderUseCase validates an order against current stock, deducts the
// stock and records the order in one unit of work.
type PlaceOrderUseCase struct {
	tx          application.Transactor
	orders      domain.Reader
	idGenerator application.IDGenerator
	publisher   domoutbox.Publisher
	idempotency application.IdempotencyStore
	in          application.Instrumentation
	now         func() time.Time
}

func NewPlaceOrderUseCase(
	tx application.Transactor,
	orders domain.Reader,
	idGen application.IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		tx:          tx,
		orders:      orders,
		idGenerator: idGen,
		publisher:   publisher,
		in:          application.NewInstrumentation(tel, orderService),
		now:         time.Now,
	}
}

// WithIdempotency enables request-key deduplication backed by store.
func (uc *PlaceOrderUseCase) WithIdempotency(store application.IdempotencyStore) *PlaceOrderUseCase {
	uc.idempotency = store
	return uc
}

// validatedLine is a request line that passed the stock check.
type validatedLine struct {
	product  *catalog.Product
	quantity int
}

// Execute runs the two phases (validate every line, then mutate) and returns
// the order as re-read from the store.
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, cmd PlaceOrderInput) (_ *domain.Order, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseOrderPlace, "PlaceOrder",
		attribute.String("order.seller_id", cmd.SellerID),
		attribute.Int("order.lines", len(cmd.Items)),
	)
	defer func() { run.End(err) }()

	docType, perr := domain.ParseDocumentType(cmd.DocumentType)
	if perr != nil {
		run.Status("DOCUMENT_TYPE_INVALID")
		return nil, fault.Validation(perr.Error(), map[string][]string{"document_type": {perr.Error()}})
	}
	if len(cmd.Items) == 0 {
		run.Status("ITEMS_REQUIRED")
		return nil, fault.Validation(domain.ErrNoItems.Error(), map[string][]string{"items": {domain.ErrNoItems.Error()}})
	}
	for _, line := range cmd.Items {
		if line.Quantity <= 0 {
			run.Status("QUANTITY_INVALID")
			return nil, fault.Validation(domain.ErrInvalidQuantity.Error(), map[string][]string{"quantity": {domain.ErrInvalidQuantity.Error()}})
		}
	}
	if err := ctx.Err(); err != nil {
		run.Status("CONTEXT_CANCELED")
		return nil, err
	}

	orderID := uc.idGenerator.NewID()
	run.SetAttributes(attribute.String("order.id", orderID))

	var committed bool
	if cmd.IdempotencyKey != "" && uc.idempotency != nil {
		key := "order:" + cmd.SellerID + ":" + cmd.IdempotencyKey
		reserved, prior, rerr := uc.idempotency.Reserve(ctx, key)
		if rerr != nil {
			err = fault.Infrastructure("reserve idempotency key", rerr)
			return nil, err
		}
		if !reserved {
			return uc.replay(ctx, run, prior)
		}
		defer func() { uc.settle(ctx, run, key, orderID, committed) }()
	}

	var units int
	err = uc.tx.WithinTx(ctx, func(ctx context.Context, tx application.Tx) error {
		units = 0
		lines, verr := validateLines(ctx, tx.Products(), cmd.Items)
		if verr != nil {
			return verr
		}
		run.Event("order.validated")

		now := uc.now()
		if merr := deductStock(ctx, tx.Products(), lines, now); merr != nil {
			return merr
		}

		items := make([]domain.Item, 0, len(lines))
		for _, l := range lines {
			items = append(items, domain.Item{
				ID:        uc.idGenerator.NewID(),
				ProductID: l.product.ID,
				Quantity:  l.quantity,
				UnitPrice: l.product.Price,
			})
			units += l.quantity
		}

		entity, derr := domain.New(orderID, docType, cmd.CustomerDocument, cmd.SellerID, cmd.SellerName, items, now)
		if derr != nil {
			return fault.Validation(derr.Error(), nil)
		}
		if aerr := tx.Orders().Add(ctx, entity); aerr != nil {
			return fault.Infrastructure("add order", aerr)
		}
		return nil
	})
	if err != nil {
		err = fault.Infrastructure("place order", err)
		return nil, err
	}
	committed = true

	uc.in.Metrics().Counter(observability.MStockUnits).Add(float64(units), observability.L("direction", "out"))

	saved, gerr := uc.orders.Get(ctx, orderID)
	if gerr != nil {
		run.Status("RELOAD_FAILED")
		err = fault.Infrastructure("reload order", gerr)
		return nil, err
	}

	if perr := uc.in.Publish(ctx, uc.publisher, domain.NewOrderPlacedEvent(saved)); perr != nil {
		run.Status("EVENT_PUBLISH_FAILED")
		run.Field("event_publish_error", perr.Error())
	}

	run.SetAttributes(attribute.String("order.total_amount", saved.TotalAmount.StringFixed(2)))
	run.Event("order.placed", attribute.String("order.id", saved.ID))
	run.Field("order_id", saved.ID)
	return saved, nil
}

// replay answers a repeated request key with the order it already produced.
func (uc *PlaceOrderUseCase) replay(ctx context.Context, run *application.Run, orderID string) (*domain.Order, error) {
	if orderID == "" {
		run.Status("IDEMPOTENCY_IN_FLIGHT")
		return nil, fault.Conflict("a request with this idempotency key is still being processed")
	}
	run.Status("REPLAYED")
	saved, err := uc.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fault.Infrastructure("load replayed order", err)
	}
	run.Field("order_id", saved.ID)
	return saved, nil
}

// settle records the outcome under key. Once the order is committed the key
// maps to it, even if a later step fails; otherwise the key is freed so the
// client can retry.
func (uc *PlaceOrderUseCase) settle(ctx context.Context, run *application.Run, key, orderID string, committed bool) {
	ctx = context.WithoutCancel(ctx)
	var serr error
	if committed {
		serr = uc.idempotency.Complete(ctx, key, orderID)
	} else {
		serr = uc.idempotency.Release(ctx, key)
	}
	if serr != nil {
		run.Field("idempotency_error", serr.Error())
	}
}

// validateLines checks every line in request order against a stock snapshot
// taken once per product. Lines naming the same product draw from the same
// remaining counter.
func validateLines(ctx context.Context, products catalog.ProductReader, lines []PlaceOrderLine) ([]validatedLine, error) {
	snapshot := make(map[string]*catalog.Product, len(lines))
	remaining := make(map[string]int, len(lines))
	out := make([]validatedLine, 0, len(lines))

	for _, line := range lines {
		p, seen := snapshot[line.ProductID]
		if !seen {
			fetched, err := products.Get(ctx, line.ProductID)
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, fault.NotFound("Product", line.ProductID)
			}
			if err != nil {
				return nil, fault.Infrastructure("load product", err)
			}
			p = fetched
			snapshot[p.ID] = p
			remaining[p.ID] = p.StockQuantity
		}

		if line.Quantity > remaining[p.ID] {
			return nil, fault.InsufficientStock(p.ID, p.Name, line.Quantity, remaining[p.ID])
		}
		remaining[p.ID] -= line.Quantity
		out = append(out, validatedLine{product: p, quantity: line.Quantity})
	}
	return out, nil
}

// deductStock applies a conditional decrement per validated line. A miss means
// another writer consumed the stock after validation.
func deductStock(ctx context.Context, products catalog.ProductRepository, lines []validatedLine, now time.Time) error {
	for _, l := range lines {
		err := products.DecrementStock(ctx, l.product.ID, l.quantity, now)
		switch {
		case err == nil:
		case errors.Is(err, catalog.ErrStockConflict), errors.Is(err, catalog.ErrInsufficientStock):
			available := 0
			if fresh, gerr := products.Get(ctx, l.product.ID); gerr == nil {
				available = fresh.StockQuantity
			}
			return fault.InsufficientStock(l.product.ID, l.product.Name, l.quantity, available)
		case errors.Is(err, catalog.ErrNotFound):
			return fault.NotFound("Product", l.product.ID)
		default:
			return fault.Infrastructure("decrement stock", err)
		}
	}
	return nil
}
