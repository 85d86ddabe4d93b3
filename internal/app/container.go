package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/config"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/events"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/gateway/notify"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/geo"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/http/handlers"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/http/router"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/repository"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/assignment"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/lifecycle"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		NewLogger,
		config.Load,
		func(logger logx.Logger) *events.Bus {
			return events.NewBus(256, logger)
		},
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type dispatcherIn struct {
	dig.In
	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"notification_retries_total"`
}

// newDispatcher wires the notification sink: a kafka producer behind the
// bounded retry ladder, or a no-op when brokers are not configured.
func newDispatcher(in dispatcherIn) (notify.Dispatcher, *notify.KafkaDispatcher, error) {
	kd, err := notify.NewKafkaDispatcher(in.Cfg.Kafka.Brokers, in.Cfg.Kafka.NotificationTopic)
	if err != nil {
		return nil, nil, err
	}
	if kd == nil {
		return notify.NopDispatcher{}, nil, nil
	}
	retrying := notify.NewRetryingDispatcher(kd, in.Logger, in.Retries, notify.RetryConfig{
		Delays: in.Cfg.Notify.Delays,
	})
	return retrying, kd, nil
}

func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
}

type engineIn struct {
	dig.In
	Orders     *repository.OrderRepo
	Riders     *repository.RiderRepo
	Ledger     *repository.AssignmentRepo
	Distance   geo.DistanceProvider
	Locator    *geo.LocationStore
	Settings   *assignment.SettingsStore
	Notifier   notify.Dispatcher
	Logger     logx.Logger
	Assigned   prometheus.Counter `name:"assignments_total"`
	Conflicts  prometheus.Counter `name:"assignment_conflicts_total"`
	Unassigned prometheus.Gauge
}

func newEngine(in engineIn) *assignment.Engine {
	return assignment.NewEngine(assignment.EngineDeps{
		Orders:     in.Orders,
		Riders:     in.Riders,
		Ledger:     in.Ledger,
		Distance:   in.Distance,
		Locator:    in.Locator,
		Settings:   in.Settings,
		Notifier:   in.Notifier,
		Logger:     in.Logger,
		Assigned:   in.Assigned,
		Conflicts:  in.Conflicts,
		Unassigned: in.Unassigned,
	})
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewOrderRepo,
		repository.NewRiderRepo,
		repository.NewPaymentRepo,
		repository.NewAssignmentRepo,
		func() time.Duration { return 3 * time.Second },
		func() geo.DistanceProvider { return geo.Haversine{} },
		newRedisClient,
		geo.NewLocationStore,
		newDispatcher,
		func(cfg *config.Config) (*assignment.SettingsStore, error) {
			return assignment.NewSettingsStore(assignment.SettingsFromConfig(cfg.Assignment))
		},
		func(
			orders *repository.OrderRepo,
			payments *repository.PaymentRepo,
			n notify.Dispatcher,
			bus *events.Bus,
			timeout time.Duration,
			logger logx.Logger,
		) *lifecycle.Service {
			return lifecycle.NewService(orders, payments, n, bus, timeout, logger)
		},
		newEngine,
		func(
			engine *assignment.Engine,
			orders *repository.OrderRepo,
			riders *repository.RiderRepo,
			ledger *repository.AssignmentRepo,
			payments *repository.PaymentRepo,
			lc *lifecycle.Service,
			locator *geo.LocationStore,
			n notify.Dispatcher,
			logger logx.Logger,
			timeout time.Duration,
		) *assignment.Ledger {
			return assignment.NewLedger(assignment.LedgerDeps{
				Engine:    engine,
				Orders:    orders,
				Riders:    riders,
				Ledger:    ledger,
				Payments:  payments,
				Lifecycle: lc,
				Locator:   locator,
				Notifier:  n,
				Logger:    logger,
				Timeout:   timeout,
			})
		},
		func(
			engine *assignment.Engine,
			orders *repository.OrderRepo,
			riders *repository.RiderRepo,
			settings *assignment.SettingsStore,
			timeout time.Duration,
			logger logx.Logger,
		) *assignment.Admin {
			return assignment.NewAdmin(engine, orders, riders, settings, timeout, logger)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewLifecycleUsecase,
		handlers.NewOrderHandler,
		handlers.NewRiderUsecase,
		handlers.NewRiderHandler,
		handlers.NewAdminUsecase,
		handlers.NewAdminHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
	)
}
