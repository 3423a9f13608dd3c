package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/internal/config"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

const TopicCatalogEvents = "catalog.events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	CatalogEventsWriter messageWriter
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'catalog.events', keyed by channel so one channel's events stay ordered
	catalogWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicCatalogEvents,
		Balancer: &kafka.Hash{},
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{CatalogEventsWriter: catalogWriter, logger: log}, nil
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func (c *KafkaProducerClient) PublishCatalogEvent(ctx context.Context, e service.CatalogEvent) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog event: %w", err)
	}

	err = c.CatalogEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.ChannelID.String()),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to write catalog event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.CatalogEventsWriter != nil {
		if err := c.CatalogEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close Kafka writer", err)
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

// DecodeCatalogEvent parses a message written by PublishCatalogEvent.
func DecodeCatalogEvent(msg kafka.Message) (service.CatalogEvent, error) {
	var e service.CatalogEvent
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return e, fmt.Errorf("failed to unmarshal catalog event: %w", err)
	}
	return e, nil
}
