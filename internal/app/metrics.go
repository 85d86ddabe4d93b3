package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/metrics"
)

// registerCollector adds c to the default registry so /metrics exposes
// it. A collector registered by an earlier container (tests build more
// than one) is reused instead of panicking.
func registerCollector[C prometheus.Collector](c C) C {
	err := prometheus.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	return c
}

func provideCounter(container *dig.Container, name string, ctor func() prometheus.Counter) error {
	provider := func() prometheus.Counter { return registerCollector(ctor()) }
	if err := container.Provide(provider, dig.Name(name)); err != nil {
		return fmt.Errorf("provide counter %s: %w", name, err)
	}
	return nil
}

func registerMetrics(container *dig.Container) error {
	if err := provideCounter(container, "assignments_total", metrics.NewAssignmentsTotal); err != nil {
		return err
	}
	if err := provideCounter(container, "assignment_conflicts_total", metrics.NewAssignmentConflictsTotal); err != nil {
		return err
	}
	if err := provideCounter(container, "notification_retries_total", metrics.NewNotificationRetriesTotal); err != nil {
		return err
	}
	if err := provideCounter(container, "rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal); err != nil {
		return err
	}
	return container.Provide(func() prometheus.Gauge {
		return registerCollector(metrics.NewUnassignedOrders())
	})
}
