package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"

	"comandero/internal/config"
)

// batchTimeout caps how long a synchronous write of a single message waits for more
// messages to fill its batch. The kafka-go default is one second.
const batchTimeout = 10 * time.Millisecond

// NewWriter hashes message keys onto partitions, so every message keyed by the same
// restaurant lands on the same partition and keeps its order.
func NewWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}
