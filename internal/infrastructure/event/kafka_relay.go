package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/domain/trade"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Record header keys
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// DefaultProduceTimeout bounds one delivery when no timeout is configured
const DefaultProduceTimeout = 2 * time.Second

// Producer is the part of *kgo.Client the relay uses
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Envelope is the record value written to the order events topic
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// KafkaRelay forwards committed order events to Kafka so the search indexer
// can refresh the affected SKUs. Records are keyed by order id.
type KafkaRelay struct {
	producer Producer
	topic    string
	timeout  time.Duration
	logger   *zap.Logger
}

// KafkaRelayOption configures a KafkaRelay
type KafkaRelayOption func(*KafkaRelay)

// WithProduceTimeout caps how long Handle waits for the broker ack.
// The bus dispatches synchronously after commit, so this is also the longest
// a checkout response can be held by an unreachable cluster.
func WithProduceTimeout(d time.Duration) KafkaRelayOption {
	return func(r *KafkaRelay) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewKafkaClient builds a franz-go client from the kafka config section
func NewKafkaClient(cfg config.KafkaConfig) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	return kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.RecordDeliveryTimeout(produceTimeout(cfg)),
	)
}

func produceTimeout(cfg config.KafkaConfig) time.Duration {
	if cfg.ProduceTimeout > 0 {
		return cfg.ProduceTimeout
	}
	return DefaultProduceTimeout
}

// NewKafkaRelay creates a relay writing to topic
func NewKafkaRelay(producer Producer, topic string, logger *zap.Logger, opts ...KafkaRelayOption) *KafkaRelay {
	r := &KafkaRelay{
		producer: producer,
		topic:    topic,
		timeout:  DefaultProduceTimeout,
		logger:   logger.Named("kafka_relay"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EventTypes implements shared.EventHandler
func (r *KafkaRelay) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderPaid}
}

// Handle produces one record per event and waits for the broker ack, at most
// the relay's produce timeout
func (r *KafkaRelay) Handle(ctx context.Context, evt shared.DomainEvent) error {
	rec, err := r.record(evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce %s: %w", evt.EventType(), err)
	}
	r.logger.Debug("event relayed",
		zap.String("event_type", evt.EventType()),
		zap.String("aggregate_id", evt.AggregateID()),
	)
	return nil
}

func (r *KafkaRelay) record(evt shared.DomainEvent) (*kgo.Record, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", evt.EventType(), err)
	}
	value, err := json.Marshal(Envelope{
		EventID:       evt.EventID().String(),
		EventType:     evt.EventType(),
		AggregateType: evt.AggregateType(),
		AggregateID:   evt.AggregateID(),
		OccurredAt:    evt.OccurredAt().UTC(),
		Payload:       payload,
	})
	if err != nil {
		return nil, err
	}
	return &kgo.Record{
		Topic: r.topic,
		Key:   []byte(evt.AggregateID()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: HeaderEventType, Value: []byte(evt.EventType())},
			{Key: HeaderEventID, Value: []byte(evt.EventID().String())},
		},
	}, nil
}

var _ shared.EventHandler = (*KafkaRelay)(nil)
