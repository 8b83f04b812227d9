package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka publishes notification requests to the messaging topic. The
// notification service consumes the topic and owns templating, channel
// choice (email/SMS) and retries; losing a request is worse than sending
// twice, so the produce is synchronous.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka builds a producer for the given brokers and topic.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Kafka{client: client, topic: topic}, nil
}

// Dispatch produces one JSON record keyed by order id so all notifications
// for an order land in one partition, in order.
func (k *Kafka) Dispatch(ctx context.Context, req Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal notification request: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(req.OrderID.String()),
		Value: body,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce notification: %w", err)
	}
	return nil
}

// Close flushes and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}
