package kitchen

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"comandero/internal/dto"
)

const amqpPublishTimeout = 5 * time.Second

type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPPublisher routes with key kitchen.<slug> on a topic exchange. Messages are not persisted.
type AMQPPublisher struct {
	channel  channelPublisher
	exchange string
}

func NewAMQPPublisher(channel channelPublisher, exchange string) *AMQPPublisher {
	return &AMQPPublisher{channel: channel, exchange: exchange}
}

func RoutingKey(restaurantSlug string) string {
	return "kitchen." + restaurantSlug
}

func (p *AMQPPublisher) Publish(ctx context.Context, restaurantSlug string, msg dto.OrderResponse) error {
	payload, err := encode(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, amqpPublishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(restaurantSlug), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         payload,
		DeliveryMode: amqp091.Transient,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publishing to exchange %s: %w", p.exchange, err)
	}
	return nil
}
