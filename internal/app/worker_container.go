package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/config"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/repository"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/assignment"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/lifecycle"
	ordersvc "github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/orders"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/transport/kafka"
)

// MustBuildWorkerContainer builds the change-feed worker's DI container.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	container, err := buildWorker(ctx, connectDbWithRetry)
	if err != nil {
		log.Fatalf("failed to build worker container: %v", err)
	}
	return container
}

func buildWorker(
	ctx context.Context,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDb(container, dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(
			lc *lifecycle.Service,
			admin *assignment.Admin,
			orders *repository.OrderRepo,
			logger logx.Logger,
		) *ordersvc.Processor {
			return ordersvc.NewProcessor(lc, admin, orders, logger)
		},
		makeOrdersKafka,
		func(cfg *config.Config, h kafka.HandleFunc, logger logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrderEventsTopic, h, logger)
		},
	)
}
