package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fx-transactions/internal/models"

	"github.com/IBM/sarama"
)

type Producer interface {
	SendTransactionEvent(ctx context.Context, event models.TransactionEvent) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

func NewKafkaProducer(brokers []string, topic string, log *slog.Logger) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created", slog.String("topic", topic), slog.Any("brokers", brokers))

	return newProducer(producer, topic, log), nil
}

func newProducer(producer sarama.SyncProducer, topic string, log *slog.Logger) *KafkaProducer {
	return &KafkaProducer{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// SendTransactionEvent publishes event keyed by transaction id so all events
// of one transaction land on the same partition.
func (p *KafkaProducer) SendTransactionEvent(ctx context.Context, event models.TransactionEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.TransactionID),
		Value: sarama.ByteEncoder(eventData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	// SendMessage cannot be interrupted; an already cancelled request skips it.
	if err := ctx.Err(); err != nil {
		p.log.Warn("kafka send cancelled", slog.String("tx_id", event.TransactionID))
		return err
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Error("kafka send failed",
			slog.String("tx_id", event.TransactionID),
			slog.String("event_type", string(event.Type)),
			slog.String("error", err.Error()))
		return err
	}
	p.log.Debug("kafka send success",
		slog.String("tx_id", event.TransactionID),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset))
	return nil
}

func (p *KafkaProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	p.log.Info("closing kafka producer")
	return p.producer.Close()
}

type NoOpProducer struct {
	log *slog.Logger
}

func NewNoOpProducer(log *slog.Logger) Producer {
	return &NoOpProducer{log: log}
}

func (p *NoOpProducer) SendTransactionEvent(ctx context.Context, event models.TransactionEvent) error {
	p.log.Debug("kafka disabled, event dropped",
		slog.String("tx_id", event.TransactionID),
		slog.String("event_type", string(event.Type)))
	return nil
}

func (p *NoOpProducer) Close() error {
	return nil
}
