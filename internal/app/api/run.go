package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	orderserver "github.com/Apurer/go-order-fulfillment/go"
	"github.com/Apurer/go-order-fulfillment/internal/app/bootstrap"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/changefeed"
	ordersmemory "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/observability"
	orderskafka "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/queue/kafka"
	ordersapp "github.com/Apurer/go-order-fulfillment/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/go-order-fulfillment/internal/platform/kafka"
	platformobservability "github.com/Apurer/go-order-fulfillment/internal/platform/observability"
)

const serviceName = "order-api"

// Run boots the order HTTP API with observability, stores and the fulfillment
// hand-off wired. It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig(serviceName)
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	infra := bootstrap.ConnectInfra(ctx, cfg, logger)
	defer infra.Close()

	store, inventory, err := bootstrap.BuildInventory(ctx, cfg, infra, logger)
	if err != nil {
		return err
	}
	repo := bootstrap.BuildOrderRepository(infra, logger)
	stages := bootstrap.BuildStages(cfg, instruments)
	temporalClient := bootstrap.ConnectTemporal(cfg, instruments)
	if temporalClient != nil {
		defer temporalClient.Close()
	}
	orchestrator := bootstrap.BuildOrchestrator(temporalClient, stages)

	var (
		dispatcher ordersports.Dispatcher
		feed       ordersports.ChangeFeed
		inline     *changefeed.Inline
	)
	if cfg.KafkaEnabled() {
		fulfillmentWriter := platformkafka.NewWriter(cfg.KafkaBrokers, cfg.FulfillmentTopic)
		defer fulfillmentWriter.Close()
		changesWriter := platformkafka.NewWriter(cfg.KafkaBrokers, cfg.OrderChangesTopic)
		defer changesWriter.Close()
		dispatcher = orderskafka.NewDispatcher(fulfillmentWriter)
		feed = changefeed.NewPublisher(changesWriter)
		logger.Info("change feed and fulfillment queue on kafka", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Warn("KAFKA_BROKERS not set, reserving inline and forwarding to the pipeline in process")
		dispatcher = ordersmemory.NewDispatcher(ordersmemory.WithForward(bootstrap.ForwardToPipeline(orchestrator, logger)))
		inline = changefeed.NewInline()
		feed = inline
	}

	coordinator := ordersapp.NewCoordinator(store, repo, dispatcher, ordersapp.WithCoordinatorLogger(logger))
	orderService := ordersobs.New(
		ordersapp.NewService(repo, feed, coordinator,
			ordersapp.WithServiceLogger(logger),
			ordersapp.WithIdempotencyStore(bootstrap.BuildIdempotencyStore(infra))),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	if inline != nil {
		inline.Subscribe(changefeed.ServiceHandler(orderService, logger))
	}

	handlers := orderserver.ApiHandleFunctions{
		OrderAPI:       orderserver.NewOrderAPI(orderService),
		InventoryAPI:   orderserver.NewInventoryAPI(inventory),
		FulfillmentAPI: orderserver.NewFulfillmentAPI(stages.Payment, stages.Shipping),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := orderserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("order API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("order API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown order API: %w", err)
	}
	logger.Info("order API stopped")
	return nil
}
