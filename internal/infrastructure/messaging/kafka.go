package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pharmacy-clinic/config"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Publisher ships domain events keyed by aggregate id.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	topic  string
	log    *logrus.Logger
}

// NewPublisher returns a Kafka-backed publisher, or a no-op one when no brokers are configured.
func NewPublisher(cfg config.KafkaConfig, log *logrus.Logger) Publisher {
	if len(cfg.Brokers) == 0 {
		log.Info("KAFKA_BROKERS not set, prescription events are disabled")
		return NopPublisher{}
	}

	log.Infof("Kafka publisher created for topic %s", cfg.Topic)
	return &kafkaPublisher{writer: newWriter(cfg), topic: cfg.Topic, log: log}
}

// publishBatchTimeout bounds how long a single event waits for a batch to fill.
// kafka-go defaults to one second, which Publish would add to every request.
const publishBatchTimeout = 10 * time.Millisecond

func newWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           publishBatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.log.Debugf("Published event to %s with key %s", p.topic, key)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

func (NopPublisher) Close() error { return nil }
