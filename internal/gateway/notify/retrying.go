package notify

import (
	"context"
	"time"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

type dispatcher interface {
	Send(ctx context.Context, n Notification) error
}

type counter interface {
	Inc()
}

// RetryConfig describes the bounded retry ladder: one initial attempt
// plus one retry per delay, then the send is given up.
type RetryConfig struct {
	Delays []time.Duration
}

// RetryingDispatcher wraps a dispatcher with a fixed, bounded retry
// ladder. It replaces ad-hoc timer chains at call sites: the policy
// lives here, once.
type RetryingDispatcher struct {
	next    dispatcher
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	sleep   func(time.Duration)
}

// NewRetryingDispatcher wraps next with the retry policy. Returns nil
// when next is nil (notifications disabled).
func NewRetryingDispatcher(next dispatcher, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingDispatcher {
	if next == nil {
		return nil
	}
	return &RetryingDispatcher{next: next, logger: logger, retries: retries, cfg: cfg, sleep: time.Sleep}
}

// Send attempts the send, retrying per the ladder. The final error is
// returned for the caller to log; it must never block or roll back the
// state change that produced the notification.
func (d *RetryingDispatcher) Send(ctx context.Context, n Notification) error {
	err := d.next.Send(ctx, n)
	if err == nil {
		return nil
	}

	for attempt, delay := range d.cfg.Delays {
		if ctx.Err() != nil {
			break
		}
		if d.retries != nil {
			d.retries.Inc()
		}
		d.logger.Warn("notification retry",
			logx.String("user_id", n.UserID),
			logx.String("kind", string(n.Kind)),
			logx.Int("attempt", attempt+1),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, d.sleep, delay) {
			break
		}
		if err = d.next.Send(ctx, n); err == nil {
			return nil
		}
	}
	return err
}

func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
