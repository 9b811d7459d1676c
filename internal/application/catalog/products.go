// Package catalog holds the product management use cases.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/application"
	domain "github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
)

const (
	catalogService = "catalog-service"

	useCaseProductCreate = "product.create"
	useCaseProductUpdate = "product.update"
	useCaseProductGet    = "product.get"
	useCaseProductList   = "product.list"
	useCaseProductDelete = "product.delete"
)

var (
	_ application.UseCase[ProductInput, *domain.Product]       = (*CreateProductUseCase)(nil)
	_ application.UseCase[UpdateProductInput, *domain.Product] = (*UpdateProductUseCase)(nil)
	_ application.UseCase[string, *domain.Product]             = (*GetProductUseCase)(nil)
	_ application.UseCase[struct{}, []*domain.Product]         = (*ListProductsUseCase)(nil)
	_ application.UseCase[string, struct{}]                    = (*DeleteProductUseCase)(nil)
)

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

type CreateProductUseCase struct {
	products    domain.ProductRepository
	idGenerator application.IDGenerator
	in          application.Instrumentation
	now         func() time.Time
}

func NewCreateProductUseCase(products domain.ProductRepository, idGen application.IDGenerator, tel observability.Observability) *CreateProductUseCase {
	return &CreateProductUseCase{
		products:    products,
		idGenerator: idGen,
		in:          application.NewInstrumentation(tel, catalogService),
		now:         time.Now,
	}
}

// Execute registers a product with zero stock.
func (uc *CreateProductUseCase) Execute(ctx context.Context, cmd ProductInput) (_ *domain.Product, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseProductCreate, "CreateProduct")
	defer func() { run.End(err) }()

	p, nerr := domain.NewProduct(uc.idGenerator.NewID(), cmd.Name, cmd.Description, cmd.Price, uc.now())
	if nerr != nil {
		err = fault.Validation(nerr.Error(), map[string][]string{"price": {nerr.Error()}})
		return nil, err
	}
	if aerr := uc.products.Add(ctx, p); aerr != nil {
		err = fault.Infrastructure("add product", aerr)
		return nil, err
	}
	run.Field("product_id", p.ID)
	return p, nil
}

type UpdateProductInput struct {
	ID string
	ProductInput
}

type UpdateProductUseCase struct {
	tx  application.Transactor
	in  application.Instrumentation
	now func() time.Time
}

func NewUpdateProductUseCase(tx application.Transactor, tel observability.Observability) *UpdateProductUseCase {
	return &UpdateProductUseCase{
		tx:  tx,
		in:  application.NewInstrumentation(tel, catalogService),
		now: time.Now,
	}
}

// Execute replaces name, description and price. Stock and recorded orders
// are left as they are.
func (uc *UpdateProductUseCase) Execute(ctx context.Context, cmd UpdateProductInput) (_ *domain.Product, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseProductUpdate, "UpdateProduct",
		attribute.String("product.id", cmd.ID),
	)
	defer func() { run.End(err) }()

	var updated *domain.Product
	err = uc.tx.WithinTx(ctx, func(ctx context.Context, tx application.Tx) error {
		p, gerr := tx.Products().Get(ctx, cmd.ID)
		if errors.Is(gerr, domain.ErrNotFound) {
			return fault.NotFound("Product", cmd.ID)
		}
		if gerr != nil {
			return fault.Infrastructure("load product", gerr)
		}
		if rerr := p.Revise(cmd.Name, cmd.Description, cmd.Price, uc.now()); rerr != nil {
			return fault.Validation(rerr.Error(), map[string][]string{"price": {rerr.Error()}})
		}
		if uerr := tx.Products().Update(ctx, p); uerr != nil {
			return fault.Infrastructure("update product", uerr)
		}
		updated = p
		return nil
	})
	if err != nil {
		err = fault.Infrastructure("update product", err)
		return nil, err
	}
	return updated, nil
}

type GetProductUseCase struct {
	products domain.ProductReader
	in       application.Instrumentation
}

func NewGetProductUseCase(products domain.ProductReader, tel observability.Observability) *GetProductUseCase {
	return &GetProductUseCase{products: products, in: application.NewInstrumentation(tel, catalogService)}
}

func (uc *GetProductUseCase) Execute(ctx context.Context, id string) (_ *domain.Product, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseProductGet, "GetProduct",
		attribute.String("product.id", id),
	)
	defer func() { run.End(err) }()

	p, err := uc.products.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		err = fault.NotFound("Product", id)
		return nil, err
	}
	if err != nil {
		err = fault.Infrastructure("get product", err)
		return nil, err
	}
	return p, nil
}

type ListProductsUseCase struct {
	products domain.ProductReader
	in       application.Instrumentation
}

func NewListProductsUseCase(products domain.ProductReader, tel observability.Observability) *ListProductsUseCase {
	return &ListProductsUseCase{products: products, in: application.NewInstrumentation(tel, catalogService)}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context, _ struct{}) (_ []*domain.Product, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseProductList, "ListProducts")
	defer func() { run.End(err) }()

	out, err := uc.products.List(ctx)
	if err != nil {
		err = fault.Infrastructure("list products", err)
		return nil, err
	}
	run.Field("count", len(out))
	return out, nil
}

type DeleteProductUseCase struct {
	products domain.ProductRepository
	in       application.Instrumentation
}

func NewDeleteProductUseCase(products domain.ProductRepository, tel observability.Observability) *DeleteProductUseCase {
	return &DeleteProductUseCase{products: products, in: application.NewInstrumentation(tel, catalogService)}
}

func (uc *DeleteProductUseCase) Execute(ctx context.Context, id string) (_ struct{}, err error) {
	ctx, run := uc.in.Begin(ctx, useCaseProductDelete, "DeleteProduct",
		attribute.String("product.id", id),
	)
	defer func() { run.End(err) }()

	err = uc.products.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		err = fault.NotFound("Product", id)
		return struct{}{}, err
	}
	if err != nil {
		err = fault.Infrastructure("delete product", err)
	}
	return struct{}{}, err
}
