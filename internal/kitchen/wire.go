package kitchen

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"comandero/internal/config"
	"comandero/internal/infrastructure/amqp"
)

// Clients holds the broker connections opened at startup. Only the one matching the configured
// backend has to be set.
type Clients struct {
	Redis *redis.Client
	Kafka *kafka.Writer
	AMQP  *amqp.Connection
}

func NewPublisher(backend Backend, cfg *config.Config, clients Clients, logger *zap.Logger) (Publisher, error) {
	switch backend {
	case BackendRedis:
		if clients.Redis == nil {
			return nil, fmt.Errorf("redis backend selected without a redis client")
		}
		return NewRedisPublisher(clients.Redis), nil
	case BackendKafka:
		if clients.Kafka == nil {
			return nil, fmt.Errorf("kafka backend selected without a kafka writer")
		}
		return NewKafkaPublisher(clients.Kafka), nil
	case BackendAMQP:
		if clients.AMQP == nil {
			return nil, fmt.Errorf("amqp backend selected without a rabbitmq connection")
		}
		return NewAMQPPublisher(clients.AMQP.Channel(), cfg.AMQP.Exchange), nil
	case BackendNoop:
		return NewNoopPublisher(logger), nil
	default:
		return nil, fmt.Errorf("unknown notifications backend %q", backend)
	}
}
