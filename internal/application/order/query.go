package order

import (
	"context"
	"errors"

	"github.com/felipeshurrab/Harmonia/internal/application"
	"github.com/felipeshurrab/Harmonia/internal/domain/access"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	domain "github.com/felipeshurrab/Harmonia/internal/domain/order"
	"github.com/felipeshurrab/Harmonia/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	useCaseOrderList = "order.list"
	useCaseOrderGet  = "order.get"
)

// ListOrdersUseCase returns every order to administrators and only their own
// sales to everyone else.
type ListOrdersUseCase struct {
	orders domain.Reader
	in     application.Instrumentation
}

func NewListOrdersUseCase(orders domain.Reader, tel observability.Observability) *ListOrdersUseCase {
	return &ListOrdersUseCase{orders: orders, in: application.NewInstrumentation(tel, orderService)}
}

func (uc *ListOrdersUseCase) Execute(ctx context.Context, actor access.Actor) (_ []*domain.Order, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseOrderList, "ListOrders",
		attribute.String("actor.role", string(actor.Role)),
	)
	defer func() { run.End(err) }()

	var orders []*domain.Order
	if actor.IsAdministrator() {
		orders, err = uc.orders.List(ctx)
	} else {
		orders, err = uc.orders.ListBySeller(ctx, actor.ID)
	}
	if err != nil {
		err = fault.Infrastructure("list orders", err)
		return nil, err
	}
	run.Field("count", len(orders))
	return orders, nil
}

type GetOrderInput struct {
	Actor   access.Actor
	OrderID string
}

type GetOrderUseCase struct {
	orders domain.Reader
	in     application.Instrumentation
}

func NewGetOrderUseCase(orders domain.Reader, tel observability.Observability) *GetOrderUseCase {
	return &GetOrderUseCase{orders: orders, in: application.NewInstrumentation(tel, orderService)}
}

func (uc *GetOrderUseCase) Execute(ctx context.Context, cmd GetOrderInput) (_ *domain.Order, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseOrderGet, "GetOrder",
		attribute.String("order.id", cmd.OrderID),
	)
	defer func() { run.End(err) }()

	o, err := uc.orders.Get(ctx, cmd.OrderID)
	if errors.Is(err, domain.ErrNotFound) {
		err = fault.NotFound("Order", cmd.OrderID)
		return nil, err
	}
	if err != nil {
		err = fault.Infrastructure("get order", err)
		return nil, err
	}
	if !cmd.Actor.CanViewSale(o.SellerID) {
		run.Status("NOT_OWNER")
		err = fault.Forbidden("order belongs to another seller")
		return nil, err
	}
	return o, nil
}
