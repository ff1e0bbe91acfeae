package amqp

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"comandero/internal/config"
)

const maxDialAttempts = 5

type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// Dial connects to RabbitMQ and declares the kitchen topic exchange.
func Dial(cfg config.AMQPConfig, logger *zap.Logger) (*Connection, error) {
	var err error
	for attempt := 1; attempt <= maxDialAttempts; attempt++ {
		var c *Connection
		c, err = dialOnce(cfg)
		if err == nil {
			return c, nil
		}
		if attempt < maxDialAttempts {
			wait := time.Duration(attempt) * 2 * time.Second
			logger.Warn("rabbitmq connection failed, retrying",
				zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
			time.Sleep(wait)
		}
	}
	return nil, fmt.Errorf("connecting to rabbitmq after %d attempts: %w", maxDialAttempts, err)
}

func dialOnce(cfg config.AMQPConfig) (*Connection, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", cfg.Exchange, err)
	}

	return &Connection{conn: conn, channel: ch}, nil
}

func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

func (c *Connection) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}
