package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/config"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/events"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/gateway/notify"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/http/pprofserver"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/assignment"
)

// MustRun starts the HTTP server using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

func run(container *dig.Container) error {
	return container.Invoke(func(
		server *http.Server,
		ctx context.Context,
		cfg *config.Config,
		pool *pgxpool.Pool,
		logger *log.Logger,
		appLogger logx.Logger,
		bus *events.Bus,
		engine *assignment.Engine,
		producer *notify.KafkaDispatcher,
	) error {
		subscribeSweepTrigger(bus, engine, appLogger)
		go bus.Run(ctx)

		stopPprof := startPprof(cfg.Pprof, logger)
		defer stopPprof()

		startServer(server, logger)
		waitForShutdown(ctx, logger)
		gracefulShutdown(server, logger, 15*time.Second)
		closeResources(pool, server, producer, logger)
		return nil
	})
}

// startPprof serves the debug endpoints on their own listener so they
// never share a port with the public API. Returns a stop func.
func startPprof(cfg config.Pprof, logger *log.Logger) func() {
	if cfg.Addr == "" {
		return func() {}
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           pprofserver.Handler(pprofserver.Config{User: cfg.User, Pass: cfg.Pass}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Printf("pprof listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("pprof listen error: %v", err)
		}
	}()
	return func() {
		if err := srv.Close(); err != nil {
			logger.Printf("pprof close error: %v", err)
		}
	}
}

func startServer(server *http.Server, logger *log.Logger) {
	go func() {
		logger.Printf("service-orders listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()
}

func waitForShutdown(ctx context.Context, logger *log.Logger) {
	<-ctx.Done()
	logger.Println("shutting down service-orders...")
}

func gracefulShutdown(srv *http.Server, logger *log.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
}

func closeResources(pool *pgxpool.Pool, server *http.Server, producer *notify.KafkaDispatcher, logger *log.Logger) {
	if err := server.Close(); err != nil {
		logger.Printf("server close error: %v", err)
	}
	if err := producer.Close(); err != nil {
		logger.Printf("notify producer close error: %v", err)
	}
	pool.Close()
}
