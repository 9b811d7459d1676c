package catalog

import (
	"context"
	"testing"

	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/id"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLifecycle(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	created, err := NewCreateProductUseCase(s.Products(), id.NewUUIDGenerator(), nil).Execute(ctx, ProductInput{
		Name:        "Notebook",
		Description: "14 inch",
		Price:       decimal.RequireFromString("3499.999"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.StockQuantity)
	assert.Equal(t, "3500.00", created.Price.StringFixed(2))
	assert.Nil(t, created.UpdatedAt)

	require.NoError(t, s.Products().IncrementStock(ctx, created.ID, 7, created.CreatedAt))

	updated, err := NewUpdateProductUseCase(s, nil).Execute(ctx, UpdateProductInput{
		ID:           created.ID,
		ProductInput: ProductInput{Name: "Notebook Pro", Price: decimal.RequireFromString("3999.90")},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.StockQuantity)
	assert.NotNil(t, updated.UpdatedAt)

	got, err := NewGetProductUseCase(s.Products(), nil).Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notebook Pro", got.Name)
	assert.Equal(t, "3999.90", got.Price.StringFixed(2))

	list, err := NewListProductsUseCase(s.Products(), nil).Execute(ctx, struct{}{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = NewDeleteProductUseCase(s.Products(), nil).Execute(ctx, created.ID)
	require.NoError(t, err)

	_, err = NewGetProductUseCase(s.Products(), nil).Execute(ctx, created.ID)
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestProductMissing(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	_, err := NewUpdateProductUseCase(s, nil).Execute(ctx, UpdateProductInput{ID: "nope", ProductInput: ProductInput{Name: "x", Price: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, fault.ErrNotFound)

	_, err = NewDeleteProductUseCase(s.Products(), nil).Execute(ctx, "nope")
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	s := memory.NewStore()
	_, err := NewCreateProductUseCase(s.Products(), id.NewUUIDGenerator(), nil).Execute(context.Background(), ProductInput{
		Name:  "Broken",
		Price: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, fault.ErrValidation)
}
