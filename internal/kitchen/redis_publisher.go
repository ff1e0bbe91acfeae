package kitchen

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"comandero/internal/domain"
	"comandero/internal/dto"
)

// RedisPublisher publishes on the kitchen_<slug> channel.
type RedisPublisher struct {
	client redis.UniversalClient
}

func NewRedisPublisher(client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, restaurantSlug string, msg dto.OrderResponse) error {
	payload, err := encode(msg)
	if err != nil {
		return err
	}
	topic := domain.KitchenTopic(restaurantSlug)
	if err := p.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// RedisSubscriber feeds live kitchen displays from the same channel RedisPublisher writes to.
type RedisSubscriber struct {
	client redis.UniversalClient
}

func NewRedisSubscriber(client redis.UniversalClient) *RedisSubscriber {
	return &RedisSubscriber{client: client}
}

// Subscribe returns the payloads published for the restaurant from now on. The channel is closed
// after stop is called or ctx ends.
func (s *RedisSubscriber) Subscribe(ctx context.Context, restaurantSlug string) (<-chan []byte, func(), error) {
	topic := domain.KitchenTopic(restaurantSlug)
	pubsub := s.client.Subscribe(ctx, topic)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}

	out := make(chan []byte)
	done := make(chan struct{})
	go func() {
		defer close(out)
		in := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}
	return out, stop, nil
}
