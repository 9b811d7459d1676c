package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/felipeshurrab/Harmonia/internal/application"
	appCatalog "github.com/felipeshurrab/Harmonia/internal/application/catalog"
	appOrder "github.com/felipeshurrab/Harmonia/internal/application/order"
	appStock "github.com/felipeshurrab/Harmonia/internal/application/stock"
	"github.com/felipeshurrab/Harmonia/internal/config"
	"github.com/felipeshurrab/Harmonia/internal/domain/catalog"
	domainOrder "github.com/felipeshurrab/Harmonia/internal/domain/order"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/id"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/kafka"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/memory"
	infraobs "github.com/felipeshurrab/Harmonia/internal/infrastructure/observability"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/observability/oteltrace"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/observability/prometrics"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/observability/zaplogger"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/outbox"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/postgres"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/redis"
	"github.com/felipeshurrab/Harmonia/internal/observability"
	httppresentation "github.com/felipeshurrab/Harmonia/internal/presentation/http"
	workerpresentation "github.com/felipeshurrab/Harmonia/internal/presentation/worker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// store is what both storage backends provide.
type store interface {
	application.Transactor
	Products() catalog.ProductRepository
	StockEntries() catalog.StockEntryRepository
	Orders() domainOrder.Repository
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "harmonia:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := zaplogger.New(zaplogger.Options{
		Level:   cfg.LogLevel,
		LogFile: cfg.LogFile,
		Fixed: []observability.Field{
			observability.F("service", cfg.ServiceName),
			observability.F("env", cfg.Env),
		},
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger.Zap())

	systemLogger := logger.With(observability.F("component", "system"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := oteltrace.Setup(ctx, oteltrace.Options{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	registry := prometrics.New("")
	counters, histograms := registry.Instruments()
	tel := infraobs.New(oteltrace.New(cfg.ServiceName), logger, counters, histograms)

	st, closeStore, err := openStore(ctx, cfg, systemLogger)
	if err != nil {
		return err
	}
	defer closeStore()

	bus := outbox.NewBus(logger, outbox.Options{Buffer: cfg.EventBufferSize})

	var closeWriter func() error
	if len(cfg.KafkaBrokers) > 0 {
		writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		closeWriter = writer.Close
		relay := kafka.NewRelay(writer, logger)
		workerpresentation.Subscribe(bus, logger, "kafka_relay", relay.Handle,
			domainOrder.OrderPlacedEvent{}.EventName(),
			catalog.StockAddedEvent{}.EventName(),
		)
		systemLogger.Info("kafka_relay_enabled",
			observability.F("brokers", cfg.KafkaBrokers),
			observability.F("topic", cfg.KafkaTopic),
		)
	}
	bus.Start(ctx)

	idem, closeIdem, err := openIdempotency(ctx, cfg, systemLogger)
	if err != nil {
		return err
	}
	defer closeIdem()

	ids := id.NewUUIDGenerator()
	uc := httppresentation.UseCases{
		PlaceOrder:       appOrder.NewPlaceOrderUseCase(st, st.Orders(), ids, bus, tel).WithIdempotency(idem),
		ListOrders:       appOrder.NewListOrdersUseCase(st.Orders(), tel),
		GetOrder:         appOrder.NewGetOrderUseCase(st.Orders(), tel),
		AddStock:         appStock.NewAddStockUseCase(st, st.StockEntries(), ids, bus, tel),
		ListStockEntries: appStock.NewListEntriesUseCase(st.StockEntries(), tel),
		CreateProduct:    appCatalog.NewCreateProductUseCase(st.Products(), ids, tel),
		UpdateProduct:    appCatalog.NewUpdateProductUseCase(st, tel),
		GetProduct:       appCatalog.NewGetProductUseCase(st.Products(), tel),
		ListProducts:     appCatalog.NewListProductsUseCase(st.Products(), tel),
		DeleteProduct:    appCatalog.NewDeleteProductUseCase(st.Products(), tel),
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httppresentation.NewHandler(uc, cfg.ServiceName, registry.Handler(), tel)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Router(),
	}

	serveErr := make(chan error, 1)
	go func() {
		systemLogger.Info("http_server_start",
			observability.F("addr", server.Addr),
			observability.F("storage", cfg.StorageDriver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			systemLogger.Error("http_server_error", observability.F("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error", observability.F("error", err))
	} else {
		systemLogger.Info("http_server_stopped")
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		systemLogger.Warn("event_bus_stop_error", observability.F("error", err))
	}
	if closeWriter != nil {
		if err := closeWriter(); err != nil {
			systemLogger.Warn("kafka_writer_close_error", observability.F("error", err))
		}
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		systemLogger.Warn("tracer_shutdown_error", observability.F("error", err))
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config, log observability.Logger) (store, func(), error) {
	if cfg.StorageDriver != config.StoragePostgres {
		return memory.NewStore(), func() {}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}
	st := postgres.NewStore(pool)
	if err := st.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrate: %w", err)
	}
	log.Info("postgres_ready", observability.F("max_conns", cfg.DBMaxConns))
	return st, pool.Close, nil
}

func openIdempotency(ctx context.Context, cfg config.Config, log observability.Logger) (application.IdempotencyStore, func(), error) {
	if cfg.RedisAddr == "" {
		return memory.NewIdempotencyStore(cfg.IdempotencyTTL), func() {}, nil
	}

	rdb, err := redis.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	log.Info("redis_ready", observability.F("addr", cfg.RedisAddr))
	return redis.NewIdempotencyStore(rdb, cfg.IdempotencyTTL), func() { _ = rdb.Close() }, nil
}
