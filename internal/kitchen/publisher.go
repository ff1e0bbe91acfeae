// Package kitchen broadcasts order snapshots to the kitchen displays of one restaurant. Delivery is
// at most once: a display that is not listening when a message goes out never sees it and has to
// reconcile by listing active orders.
package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"comandero/internal/dto"
)

type Publisher interface {
	Publish(ctx context.Context, restaurantSlug string, msg dto.OrderResponse) error
}

type Backend string

const (
	BackendRedis Backend = "redis"
	BackendKafka Backend = "kafka"
	BackendAMQP  Backend = "amqp"
	BackendNoop  Backend = "noop"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendRedis, BackendKafka, BackendAMQP, BackendNoop:
		return b, nil
	default:
		return "", fmt.Errorf("unknown notifications backend %q", s)
	}
}

func encode(msg dto.OrderResponse) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding kitchen notification: %w", err)
	}
	return payload, nil
}

// NoopPublisher only logs. It serves local runs without a broker.
type NoopPublisher struct {
	logger *zap.Logger
}

func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, restaurantSlug string, msg dto.OrderResponse) error {
	p.logger.Debug("kitchen notification discarded",
		zap.String("slug", restaurantSlug),
		zap.String("orderId", msg.ID),
		zap.String("status", msg.Status),
	)
	return nil
}
