package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abmunshi/paradise-nursery-backend/internal/service"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher emits cart change events to a Kafka topic. Delivery is
// best effort: a failed write is logged and dropped, never surfaced to
// the shopper.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) CartChanged(ctx context.Context, event service.CartEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal cart event failed", zap.Error(err))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: payload,
	})
	if err != nil {
		p.logger.Warn("publish cart event failed",
			zap.String("type", event.Type),
			zap.String("cart_id", event.CartID),
			zap.Error(err))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
