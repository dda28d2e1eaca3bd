// Package worker runs the asynchronous side of the system: the Temporal
// pipeline worker and the Kafka consumers for the change feed and the
// fulfillment queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalworker "go.temporal.io/sdk/worker"
	"golang.org/x/sync/errgroup"

	"github.com/Apurer/go-order-fulfillment/internal/app/bootstrap"
	fulfillmentkafka "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/adapters/queue/kafka"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/changefeed"
	ordersobs "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/observability"
	orderskafka "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/queue/kafka"
	ordersapp "github.com/Apurer/go-order-fulfillment/internal/domains/orders/application"
	platformkafka "github.com/Apurer/go-order-fulfillment/internal/platform/kafka"
	platformobservability "github.com/Apurer/go-order-fulfillment/internal/platform/observability"
	fulfillmentactivities "github.com/Apurer/go-order-fulfillment/internal/platform/temporal/activities/fulfillment"
	fulfillmentworkflows "github.com/Apurer/go-order-fulfillment/internal/platform/temporal/workflows/fulfillment"
)

const serviceName = "order-worker"

// Run blocks until ctx is cancelled or one of the worker loops fails.
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

	stages := bootstrap.BuildStages(cfg, instruments)
	temporalClient := bootstrap.ConnectTemporal(cfg, instruments)
	if temporalClient != nil {
		defer temporalClient.Close()
	}
	if temporalClient == nil && !cfg.KafkaEnabled() {
		return errors.New("worker has nothing to run: Temporal is unavailable and KAFKA_BROKERS is not set")
	}

	g, gctx := errgroup.WithContext(ctx)
	if temporalClient != nil {
		w := newPipelineWorker(temporalClient, stages)
		g.Go(func() error {
			if err := w.Start(); err != nil {
				return fmt.Errorf("start temporal worker: %w", err)
			}
			logger.Info("worker listening", slog.String("taskQueue", fulfillmentworkflows.PipelineTaskQueue), slog.String("namespace", cfg.Temporal.Namespace))
			<-gctx.Done()
			w.Stop()
			logger.Info("Temporal worker stopped")
			return nil
		})
	}

	if cfg.KafkaEnabled() {
		infra := bootstrap.ConnectInfra(ctx, cfg, logger)
		defer infra.Close()
		store, _, err := bootstrap.BuildInventory(ctx, cfg, infra, logger)
		if err != nil {
			return err
		}
		repo := bootstrap.BuildOrderRepository(infra, logger)

		fulfillmentWriter := platformkafka.NewWriter(cfg.KafkaBrokers, cfg.FulfillmentTopic)
		defer fulfillmentWriter.Close()
		changesWriter := platformkafka.NewWriter(cfg.KafkaBrokers, cfg.OrderChangesTopic)
		defer changesWriter.Close()

		coordinator := ordersapp.NewCoordinator(store, repo, orderskafka.NewDispatcher(fulfillmentWriter), ordersapp.WithCoordinatorLogger(logger))
		orderService := ordersobs.New(
			ordersapp.NewService(repo, changefeed.NewPublisher(changesWriter), coordinator, ordersapp.WithServiceLogger(logger)),
			ordersobs.WithLogger(logger),
			ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
			ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
		)
		changes := changefeed.NewConsumer(
			platformkafka.NewReader(cfg.KafkaBrokers, cfg.OrderChangesTopic, cfg.KafkaGroupID+"-reservations"),
			changefeed.ServiceHandler(orderService, logger),
			bootstrap.BuildDeduplicator(cfg, infra, logger),
			changefeed.WithConsumerLogger(logger),
			changefeed.WithConsumerTracer(instruments.Tracer("internal.orders.changefeed")),
		)
		g.Go(func() error { return changes.Run(gctx) })

		fulfillment := fulfillmentkafka.NewConsumer(
			platformkafka.NewReader(cfg.KafkaBrokers, cfg.FulfillmentTopic, cfg.KafkaGroupID+"-fulfillment"),
			bootstrap.BuildOrchestrator(temporalClient, stages),
			fulfillmentkafka.WithLogger(logger),
			fulfillmentkafka.WithTracer(instruments.Tracer("internal.fulfillment.queue")),
		)
		g.Go(func() error { return fulfillment.Run(gctx) })
		logger.Info("kafka consumers started",
			slog.String("changes_topic", cfg.OrderChangesTopic),
			slog.String("fulfillment_topic", cfg.FulfillmentTopic))
	} else {
		logger.Warn("KAFKA_BROKERS not set, running the Temporal worker only")
	}

	return g.Wait()
}

func newPipelineWorker(c client.Client, stages bootstrap.Stages) temporalworker.Worker {
	acts := fulfillmentactivities.NewActivities(stages.Payment, stages.Shipping)
	w := temporalworker.New(c, fulfillmentworkflows.PipelineTaskQueue, temporalworker.Options{})
	w.RegisterWorkflowWithOptions(fulfillmentworkflows.PipelineWorkflow, fulfillmentworkflows.RegisterOptions())
	w.RegisterActivityWithOptions(acts.ProcessPayment, activity.RegisterOptions{Name: fulfillmentactivities.ProcessPaymentActivityName})
	w.RegisterActivityWithOptions(acts.ScheduleShipping, activity.RegisterOptions{Name: fulfillmentactivities.ScheduleShippingActivityName})
	return w
}
