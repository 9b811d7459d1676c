package postgres

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apporder "github.com/felipeshurrab/Harmonia/internal/application/order"
	"github.com/felipeshurrab/Harmonia/internal/application/stock"
	"github.com/felipeshurrab/Harmonia/internal/domain/access"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/id"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("harmonia"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := Connect(ctx, url, 20)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := NewStore(pool)
	require.NoError(t, s.Migrate(ctx))
	return s
}

func addProduct(t *testing.T, s *Store, name, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(uuid.NewString(), name, "", decimal.RequireFromString(price), time.Now())
	require.NoError(t, err)
	p.StockQuantity = stock
	require.NoError(t, s.Products().Add(context.Background(), p))
	return p
}

func TestPostgres_PlaceOrderAndReadBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := addProduct(t, s, "Headset", "89.90", 100)

	uc := apporder.NewPlaceOrderUseCase(s, s.Orders(), id.NewUUIDGenerator(), nil, nil)
	placed, err := uc.Execute(ctx, apporder.PlaceOrderInput{
		DocumentType:     "CPF",
		CustomerDocument: "12345678901",
		SellerID:         "seller-1",
		SellerName:       "Ana",
		Items:            []apporder.PlaceOrderLine{{ProductID: p.ID, Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "449.50", placed.TotalAmount.StringFixed(2))
	require.Len(t, placed.Items, 1)
	assert.Equal(t, "Headset", placed.Items[0].ProductName)

	reloaded, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 95, reloaded.StockQuantity)

	mine, err := s.Orders().ListBySeller(ctx, "seller-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, placed.ID, mine[0].ID)
}

func TestPostgres_InsufficientStockRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := addProduct(t, s, "Mouse", "50.00", 10)
	b := addProduct(t, s, "Monitor", "900.00", 3)

	uc := apporder.NewPlaceOrderUseCase(s, s.Orders(), id.NewUUIDGenerator(), nil, nil)
	_, err := uc.Execute(ctx, apporder.PlaceOrderInput{
		DocumentType:     "CNPJ",
		CustomerDocument: "12345678000195",
		SellerID:         "seller-1",
		Items: []apporder.PlaceOrderLine{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 10},
		},
	})
	require.ErrorIs(t, err, fault.ErrInsufficientStock)

	got, err := s.Products().Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockQuantity)

	all, err := s.Orders().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPostgres_ConcurrentOrdersNeverOversell(t *testing.T) {
	s := newTestStore(t)
	p := addProduct(t, s, "Mouse", "50.00", 10)
	uc := apporder.NewPlaceOrderUseCase(s, s.Orders(), id.NewUUIDGenerator(), nil, nil)

	var (
		wg           sync.WaitGroup
		placed       atomic.Int64
		insufficient atomic.Int64
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), apporder.PlaceOrderInput{
				DocumentType:     "CPF",
				CustomerDocument: "12345678901",
				SellerID:         "seller-1",
				Items:            []apporder.PlaceOrderLine{{ProductID: p.ID, Quantity: 1}},
			})
			switch {
			case err == nil:
				placed.Add(1)
			case errors.Is(err, fault.ErrInsufficientStock):
				insufficient.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, placed.Load())
	assert.EqualValues(t, 10, insufficient.Load())
	got, err := s.Products().Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)
}

func TestPostgres_AddStockRecordsEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := addProduct(t, s, "Cable", "9.90", 10)

	uc := stock.NewAddStockUseCase(s, s.StockEntries(), id.NewUUIDGenerator(), nil, nil)
	entry, err := uc.Execute(ctx, stock.AddStockInput{
		ProductID:     p.ID,
		Quantity:      50,
		InvoiceNumber: "NF-2024-001",
		Actor:         access.Actor{ID: "admin-1", Name: "Root", Role: access.RoleAdministrator},
	})
	require.NoError(t, err)
	assert.Equal(t, "Cable", entry.ProductName)

	got, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.StockQuantity)

	entries, err := s.StockEntries().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPostgres_MalformedIDsAreNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Products().Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	_, err = s.Orders().Get(ctx, "not-a-uuid")
	assert.Error(t, err)
}
