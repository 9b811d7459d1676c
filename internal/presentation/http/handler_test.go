package httppresentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appCatalog "github.com/felipeshurrab/Harmonia/internal/application/catalog"
	appOrder "github.com/felipeshurrab/Harmonia/internal/application/order"
	appStock "github.com/felipeshurrab/Harmonia/internal/application/stock"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	domoutbox "github.com/felipeshurrab/Harmonia/internal/domain/outbox"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/id"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/memory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domoutbox.Event) error { return nil }

type fixture struct {
	store  *memory.Store
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	ids := id.NewUUIDGenerator()
	pub := nopPublisher{}

	uc := UseCases{
		PlaceOrder: appOrder.NewPlaceOrderUseCase(store, store.Orders(), ids, pub, nil).
			WithIdempotency(memory.NewIdempotencyStore(time.Minute)),
		ListOrders:       appOrder.NewListOrdersUseCase(store.Orders(), nil),
		GetOrder:         appOrder.NewGetOrderUseCase(store.Orders(), nil),
		AddStock:         appStock.NewAddStockUseCase(store, store.StockEntries(), ids, pub, nil),
		ListStockEntries: appStock.NewListEntriesUseCase(store.StockEntries(), nil),
		CreateProduct:    appCatalog.NewCreateProductUseCase(store.Products(), ids, nil),
		UpdateProduct:    appCatalog.NewUpdateProductUseCase(store, nil),
		GetProduct:       appCatalog.NewGetProductUseCase(store.Products(), nil),
		ListProducts:     appCatalog.NewListProductsUseCase(store.Products(), nil),
		DeleteProduct:    appCatalog.NewDeleteProductUseCase(store.Products(), nil),
	}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
	return &fixture{store: store, router: NewHandler(uc, "harmonia-test", metrics, nil).Router()}
}

func (f *fixture) seedProduct(t *testing.T, price string, stock int) string {
	t.Helper()
	pid := uuid.NewString()
	p, err := catalog.NewProduct(pid, "Keyboard", "", decimal.RequireFromString(price), time.Now())
	require.NoError(t, err)
	p.StockQuantity = stock
	require.NoError(t, f.store.Products().Add(context.Background(), p))
	return pid
}

func (f *fixture) stock(t *testing.T, pid string) int {
	t.Helper()
	p, err := f.store.Products().Get(context.Background(), pid)
	require.NoError(t, err)
	return p.StockQuantity
}

type caller struct{ id, name, role string }

var (
	seller      = caller{"seller-1", "Ana", "Seller"}
	otherSeller = caller{"seller-2", "Bruno", "seller"}
	admin       = caller{"admin-1", "Carla", "Administrator"}
	anonymous   = caller{}
)

func (f *fixture) do(t *testing.T, as caller, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as.id != "" {
		req.Header.Set(HeaderUserID, as.id)
		req.Header.Set(HeaderUserName, as.name)
		req.Header.Set(HeaderUserRole, as.role)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func orderBody(docType, doc string, lines ...map[string]any) map[string]any {
	return map[string]any{"document_type": docType, "customer_document": doc, "items": lines}
}

func line(pid string, qty int) map[string]any {
	return map[string]any{"product_id": pid, "quantity": qty}
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, anonymous, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))

	rec = f.do(t, anonymous, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, "req-42")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(headerRequestID))
}

func TestMissingCallerIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, anonymous, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decode[errorResponse](t, rec).ErrorCode)

	rec = f.do(t, caller{"x", "X", "guest"}, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "89.90", 100)

	rec := f.do(t, seller, http.MethodPost, "/api/orders", orderBody("cpf", "12345678901", line(pid, 5)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total_amount":449.50`)

	got := decode[orderResponse](t, rec)
	assert.Equal(t, "CPF", got.DocumentType)
	assert.Equal(t, "seller-1", got.SellerID)
	assert.Equal(t, "Ana", got.SellerName)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Keyboard", got.Items[0].ProductName)
	assert.Equal(t, json.Number("89.90"), got.Items[0].UnitPrice)
	assert.Equal(t, 95, f.stock(t, pid))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "10.00", 3)

	rec := f.do(t, seller, http.MethodPost, "/api/orders", orderBody("CPF", "12345678901", line(pid, 10)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[errorResponse](t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.ErrorCode)
	require.NotNil(t, body.Details)
	assert.Equal(t, pid, body.Details.ProductID)
	assert.Equal(t, 10, body.Details.RequestedQuantity)
	assert.Equal(t, 3, body.Details.AvailableQuantity)
	assert.Equal(t, 3, f.stock(t, pid))
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, seller, http.MethodPost, "/api/orders", orderBody("CNPJ", "12345678000199", line(uuid.NewString(), 1)))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorResponse](t, rec).ErrorCode)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "10.00", 10)

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"unknown document type", orderBody("RG", "12345678901", line(pid, 1)), "document_type"},
		{"cpf with wrong length", orderBody("CPF", "1234567890", line(pid, 1)), "customer_document"},
		{"cnpj with cpf length", orderBody("CNPJ", "12345678901", line(pid, 1)), "customer_document"},
		{"document with letters", orderBody("CPF", "1234567890a", line(pid, 1)), "customer_document"},
		{"no items", orderBody("CPF", "12345678901"), "items"},
		{"zero quantity", orderBody("CPF", "12345678901", line(pid, 0)), "items[0].quantity"},
		{"product id not a uuid", orderBody("CPF", "12345678901", line("p-1", 1)), "items[0].product_id"},
		{"malformed json", `{"items":`, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, seller, http.MethodPost, "/api/orders", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decode[errorResponse](t, rec)
			assert.Equal(t, "VALIDATION_ERROR", body.ErrorCode)
			assert.Contains(t, body.Errors, tt.field)
		})
	}
	assert.Equal(t, 10, f.stock(t, pid))
}

func TestPlaceOrderRequiresSeller(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "10.00", 10)
	rec := f.do(t, admin, http.MethodPost, "/api/orders", orderBody("CPF", "12345678901", line(pid, 1)))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decode[errorResponse](t, rec).ErrorCode)
}

func TestOrderVisibility(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "10.00", 10)

	rec := f.do(t, seller, http.MethodPost, "/api/orders", orderBody("CPF", "12345678901", line(pid, 1)))
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decode[orderResponse](t, rec).ID

	rec = f.do(t, otherSeller, http.MethodPost, "/api/orders", orderBody("CPF", "12345678901", line(pid, 2)))
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Len(t, decode[[]orderResponse](t, f.do(t, seller, http.MethodGet, "/api/orders", nil)), 1)
	assert.Len(t, decode[[]orderResponse](t, f.do(t, admin, http.MethodGet, "/api/orders", nil)), 2)

	assert.Equal(t, http.StatusOK, f.do(t, seller, http.MethodGet, "/api/orders/"+orderID, nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, admin, http.MethodGet, "/api/orders/"+orderID, nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, otherSeller, http.MethodGet, "/api/orders/"+orderID, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, seller, http.MethodGet, "/api/orders/"+uuid.NewString(), nil).Code)
}

func TestAddStock(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "10.00", 0)

	rec := f.do(t, admin, http.MethodPost, "/api/stock", map[string]any{
		"product_id": pid, "quantity": 50, "invoice_number": "NF-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode[stockEntryResponse](t, rec)
	assert.Equal(t, "admin-1", entry.CreatedByUserID)
	assert.Equal(t, "Carla", entry.CreatedByUserName)
	assert.Equal(t, "Keyboard", entry.ProductName)
	assert.Equal(t, 50, f.stock(t, pid))

	all := decode[[]stockEntryResponse](t, f.do(t, admin, http.MethodGet, "/api/stock", nil))
	assert.Len(t, all, 1)
	byProduct := decode[[]stockEntryResponse](t, f.do(t, admin, http.MethodGet, "/api/stock/product/"+pid, nil))
	assert.Len(t, byProduct, 1)
	none := decode[[]stockEntryResponse](t, f.do(t, admin, http.MethodGet, "/api/stock/product/"+uuid.NewString(), nil))
	assert.Empty(t, none)
}

func TestAddStockRules(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "10.00", 0)

	rec := f.do(t, seller, http.MethodPost, "/api/stock", map[string]any{
		"product_id": pid, "quantity": 5, "invoice_number": "NF-1",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, admin, http.MethodPost, "/api/stock", map[string]any{
		"product_id": pid, "quantity": 5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Errors, "invoice_number")

	rec = f.do(t, admin, http.MethodPost, "/api/stock", map[string]any{
		"product_id": uuid.NewString(), "quantity": 5, "invoice_number": "NF-2",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, f.stock(t, pid))
}

func TestProductLifecycle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, admin, http.MethodPost, "/api/products", map[string]any{
		"name": "Mouse", "description": "wireless", "price": "59.9",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[productResponse](t, rec)
	assert.Equal(t, json.Number("59.90"), created.Price)
	assert.Zero(t, created.StockQuantity)

	rec = f.do(t, admin, http.MethodPut, "/api/products/"+created.ID, map[string]any{
		"name": "Mouse Pro", "price": 79.5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Mouse Pro", decode[productResponse](t, rec).Name)

	listed := decode[[]productResponse](t, f.do(t, seller, http.MethodGet, "/api/products", nil))
	require.Len(t, listed, 1)
	assert.Equal(t, json.Number("79.50"), listed[0].Price)

	assert.Equal(t, http.StatusForbidden, f.do(t, seller, http.MethodDelete, "/api/products/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, admin, http.MethodDelete, "/api/products/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, seller, http.MethodGet, "/api/products/"+created.ID, nil).Code)
}

func TestProductReadsAreAnonymous(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "12.00", 4)

	rec := f.do(t, anonymous, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[[]productResponse](t, rec), 1)

	rec = f.do(t, anonymous, http.MethodGet, "/api/products/"+pid, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4, decode[productResponse](t, rec).StockQuantity)

	rec = f.do(t, anonymous, http.MethodPost, "/api/products", map[string]any{"name": "Mouse", "price": 10})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, anonymous, http.MethodDelete, "/api/products/"+pid, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, admin, http.MethodPost, "/api/products", map[string]any{"name": "Mouse", "price": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Errors, "price")

	rec = f.do(t, admin, http.MethodPost, "/api/products", map[string]any{"name": "M", "price": 10})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Errors, "name")
}

type brokenGet struct{}

func (brokenGet) Execute(context.Context, string) (*catalog.Product, error) {
	return nil, fault.Infrastructure("get product", errors.New("connection refused on 10.0.0.7"))
}

func TestInfrastructureFaultIsMasked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewHandler(UseCases{GetProduct: brokenGet{}}, "harmonia-test", nil, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+uuid.NewString(), nil)
	req.Header.Set(HeaderUserID, "u")
	req.Header.Set(HeaderUserRole, "Seller")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Equal(t, codeInternal, body.ErrorCode)
	assert.Equal(t, messageInternal, body.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")
}

func TestPlaceOrderIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "10.00", 10)

	send := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(orderBody("CPF", "12345678901", line(pid, 4))))
		req := httptest.NewRequest(http.MethodPost, "/api/orders", &buf)
		req.Header.Set(HeaderUserID, seller.id)
		req.Header.Set(HeaderUserRole, seller.role)
		req.Header.Set(headerIdempotencyKey, "checkout-77")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := send()
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

	assert.Equal(t, decode[orderResponse](t, first).ID, decode[orderResponse](t, second).ID)
	assert.Equal(t, 6, f.stock(t, pid))
}
