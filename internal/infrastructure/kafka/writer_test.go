package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comandero/internal/config"
)

func TestNewWriter_Settings(t *testing.T) {
	w := NewWriter(config.KafkaConfig{Brokers: []string{"broker-1:9092"}, Topic: "kitchen-orders"})
	defer w.Close()

	assert.Equal(t, "kitchen-orders", w.Topic)
	assert.Equal(t, "broker-1:9092", w.Addr.String())
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
}

// Publishing is synchronous and runs in the request path, so a single message must not wait
// for the default one-second batch window.
func TestNewWriter_SingleMessageDoesNotWaitForBatch(t *testing.T) {
	w := NewWriter(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "kitchen-orders"})
	defer w.Close()

	require.False(t, w.Async)
	assert.Positive(t, w.BatchTimeout)
	assert.LessOrEqual(t, w.BatchTimeout, batchTimeout)
}
