package events

import (
	"context"
	"sync"
	"time"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

// OrderStatusChanged is published for every genuine order transition.
// Both the automatic-sweep trigger and any refresh concern subscribe to
// this one event type instead of a vendor change-feed callback.
type OrderStatusChanged struct {
	OrderID     string
	From        domain.OrderStatus
	To          domain.OrderStatus
	Fulfillment domain.FulfillmentType
	At          time.Time
}

// Handler consumes one event. Handlers run on the bus dispatcher, one at
// a time; anything slow should fan out itself.
type Handler func(ctx context.Context, e OrderStatusChanged)

// Bus is a bounded in-process pub/sub channel for order events.
// Publishing never blocks the caller: when the buffer is full the event
// is dropped and counted, since every consumer can recover from a missed
// event on its next pass.
type Bus struct {
	ch     chan OrderStatusChanged
	logger logx.Logger

	mu   sync.RWMutex
	subs []Handler
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int, logger logx.Logger) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{ch: make(chan OrderStatusChanged, buffer), logger: logger}
}

// Subscribe registers a handler. Subscriptions are expected at wiring
// time, before Run.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, h)
}

// Publish enqueues an event, dropping it when the buffer is full.
func (b *Bus) Publish(e OrderStatusChanged) {
	select {
	case b.ch <- e:
	default:
		b.logger.Warn("event bus full, dropping event",
			logx.String("order_id", e.OrderID),
			logx.String("to", string(e.To)),
		)
	}
}

// Run dispatches events to subscribers until ctx is done.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-b.ch:
			b.mu.RLock()
			subs := b.subs
			b.mu.RUnlock()
			for _, h := range subs {
				h(ctx, e)
			}
		}
	}
}
