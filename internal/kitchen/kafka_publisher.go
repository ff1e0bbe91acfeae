package kitchen

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"comandero/internal/domain"
	"comandero/internal/dto"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes every restaurant to one topic keyed by slug, so a restaurant's messages
// share a partition. The logical kitchen topic travels in a header.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, restaurantSlug string, msg dto.OrderResponse) error {
	payload, err := encode(msg)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(restaurantSlug),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kitchen_topic", Value: []byte(domain.KitchenTopic(restaurantSlug))},
		},
	})
	if err != nil {
		return fmt.Errorf("writing kafka message for %s: %w", restaurantSlug, err)
	}
	return nil
}
