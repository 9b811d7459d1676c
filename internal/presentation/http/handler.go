package httppresentation

import (
	"net/http"

	"github.com/felipeshurrab/Harmonia/internal/application"
	appCatalog "github.com/felipeshurrab/Harmonia/internal/application/catalog"
	appOrder "github.com/felipeshurrab/Harmonia/internal/application/order"
	appStock "github.com/felipeshurrab/Harmonia/internal/application/stock"
	"github.com/felipeshurrab/Harmonia/internal/domain/access"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	domainOrder "github.com/felipeshurrab/Harmonia/internal/domain/order"
	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const componentHTTPHandler = "http_server"

// UseCases is the set of operations exposed over HTTP.
type UseCases struct {
	PlaceOrder application.UseCase[appOrder.PlaceOrderInput, *domainOrder.Order]
	ListOrders application.UseCase[access.Actor, []*domainOrder.Order]
	GetOrder   application.UseCase[appOrder.GetOrderInput, *domainOrder.Order]

	AddStock         application.UseCase[appStock.AddStockInput, *catalog.StockEntry]
	ListStockEntries application.UseCase[appStock.ListEntriesInput, []*catalog.StockEntry]

	CreateProduct application.UseCase[appCatalog.ProductInput, *catalog.Product]
	UpdateProduct application.UseCase[appCatalog.UpdateProductInput, *catalog.Product]
	GetProduct    application.UseCase[string, *catalog.Product]
	ListProducts  application.UseCase[struct{}, []*catalog.Product]
	DeleteProduct application.UseCase[string, struct{}]
}

type Handler struct {
	uc          UseCases
	serviceName string
	metrics     http.Handler
	log         observability.Logger
	tel         observability.Observability
}

// NewHandler builds the HTTP handler. metrics may be nil, in which case
// /metrics is not mounted.
func NewHandler(uc UseCases, serviceName string, metrics http.Handler, tel observability.Observability) *Handler {
	_, logger, _ := observability.Resolve(tel)
	return &Handler{
		uc:          uc,
		serviceName: serviceName,
		metrics:     metrics,
		log:         logger.With(observability.F("component", componentHTTPHandler)),
		tel:         tel,
	}
}

// Router wires every route behind:
// Recovery → otelgin server span → request logger, metrics and access log → actor → handler
func (h *Handler) Router() http.Handler {
	registerValidators()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(h.serviceName))
	r.Use(ObservabilityMiddleware(h.log, h.tel))

	r.GET("/health", h.handleHealth)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	api := r.Group("/api", ActorMiddleware())

	orders := api.Group("/orders")
	orders.POST("", RequireRole(access.RoleSeller), h.handlePlaceOrder)
	orders.GET("", h.handleListOrders)
	orders.GET("/:id", h.handleGetOrder)

	stock := api.Group("/stock", RequireRole(access.RoleAdministrator))
	stock.POST("", h.handleAddStock)
	stock.GET("", h.handleListStockEntries)
	stock.GET("/product/:productId", h.handleListStockEntriesByProduct)

	// Catalog reads are public.
	public := r.Group("/api/products")
	public.GET("", h.handleListProducts)
	public.GET("/:id", h.handleGetProduct)

	admin := api.Group("/products", RequireRole(access.RoleAdministrator))
	admin.POST("", h.handleCreateProduct)
	admin.PUT("/:id", h.handleUpdateProduct)
	admin.DELETE("/:id", h.handleDeleteProduct)

	return r
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
