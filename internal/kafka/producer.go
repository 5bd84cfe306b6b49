package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-nametags/internal/logger"
	"ms-nametags/internal/models"
	"ms-nametags/internal/utils"
)

// Publisher sends activity messages to the feed.
type Publisher interface {
	Publish(ctx context.Context, activity models.Activity) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer messageWriter
	Topic  string
	Logger *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		BatchTimeout: 50 * time.Millisecond,
	})
	return &Producer{Writer: writer, Topic: topic, Logger: log}
}

// Publish streams one activity, keyed by event id so an event's history stays
// on one partition.
func (p *Producer) Publish(ctx context.Context, activity models.Activity) error {
	if activity.ID == "" {
		activity.ID = utils.GenerateUUID()
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now().UTC()
	}

	msgBytes, err := json.Marshal(activity)
	if err != nil {
		return err
	}

	key := activity.EventID
	if key == "" {
		key = activity.Kind
	}

	if err := p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: msgBytes,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(activity.Kind)},
		},
	}); err != nil {
		p.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish %s: %v", activity.Kind, err))
		return err
	}

	p.Logger.LogKafka("PUBLISH", p.Topic, activity.Kind)
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NopPublisher drops every activity. Used when the feed is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.Activity) error { return nil }

func (NopPublisher) Close() error { return nil }
