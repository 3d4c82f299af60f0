package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"queuely/internal/tickets"

	"github.com/IBM/sarama"
)

// KafkaMirrorConfig contains configuration for the queue-event mirror
type KafkaMirrorConfig struct {
	Brokers         []string
	Topic           string
	RetryMax        int
	TimeoutMs       int
	RequiredAcks    sarama.RequiredAcks
	CompressionType sarama.CompressionCodec
	MaxMessageBytes int
}

// DefaultKafkaMirrorConfig returns a default mirror configuration
func DefaultKafkaMirrorConfig() *KafkaMirrorConfig {
	return &KafkaMirrorConfig{
		Brokers:         []string{"localhost:9092"},
		Topic:           "queue-events",
		RetryMax:        3,
		TimeoutMs:       10000, // 10 seconds
		RequiredAcks:    sarama.WaitForAll,
		CompressionType: sarama.CompressionSnappy,
		MaxMessageBytes: 1000000, // 1MB
	}
}

// KafkaMirror republishes every queue event to a Kafka topic so downstream
// consumers (dashboards, analytics) can follow queue activity without a live
// connection to this instance. Delivery is best-effort; failures are logged
// by the hub and never reach the triggering operation.
type KafkaMirror struct {
	producer sarama.SyncProducer
	config   *KafkaMirrorConfig
}

// NewKafkaMirror creates a mirror backed by a synchronous Kafka producer
func NewKafkaMirror(config *KafkaMirrorConfig) (*KafkaMirror, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Hash partitioner keeps each clinic's events on one partition, so
	// consumers observe a clinic's mutations in order
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaMirror{
		producer: producer,
		config:   config,
	}, nil
}

// Publish sends a single queue event to the mirror topic
func (m *KafkaMirror) Publish(ctx context.Context, event tickets.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal queue event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: m.config.Topic,
		Key:   sarama.StringEncoder(event.ClinicID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(event.Kind)},
		},
		Timestamp: time.Now().UTC(),
	}

	if _, _, err := m.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to publish queue event: %w", err)
	}
	return nil
}

// Close shuts down the underlying producer
func (m *KafkaMirror) Close() error {
	if err := m.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
