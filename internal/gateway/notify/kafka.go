package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
)

// KafkaDispatcher publishes notifications to a topic the platform's
// push service consumes. Delivery past the broker is somebody else's
// problem; this gateway only answers "did the broker take it".
type KafkaDispatcher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaDispatcher creates a notification dispatcher. Returns nil when
// brokers are not configured; callers treat a nil dispatcher as disabled.
func NewKafkaDispatcher(brokers []string, topic string) (*KafkaDispatcher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("notify producer: %w", err)
	}
	return &KafkaDispatcher{producer: producer, topic: topic}, nil
}

// Send publishes one notification, keyed by user for per-user ordering.
func (d *KafkaDispatcher) Send(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify encode: %w", err)
	}
	_, _, err = d.producer.SendMessage(&sarama.ProducerMessage{
		Topic: d.topic,
		Key:   sarama.StringEncoder(n.UserID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("%w: notify send: %v", apperr.ErrExternal, err)
	}
	return nil
}

// Close shuts the underlying producer down.
func (d *KafkaDispatcher) Close() error {
	if d == nil {
		return nil
	}
	return d.producer.Close()
}
