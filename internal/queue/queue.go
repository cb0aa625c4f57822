package queue

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/unet360/unet360/backend/internal/util"

	"github.com/rabbitmq/amqp091-go"
)

const (
	// Exchange carries all domain events between server instances.
	Exchange = "unet360.events"
	// RoutingGraphChanged is published after every write that can change
	// the graph.
	RoutingGraphChanged = "graph.changed"
)

type Config struct {
	User     string
	Password string
	Host     string
	Port     string
}

func ConfigFromEnv() Config {
	return Config{
		User:     util.GetEnv("RABBITMQ_USER"),
		Password: util.GetEnv("RABBITMQ_PASSWORD"),
		Host:     util.GetEnv("RABBITMQ_HOST"),
		Port:     util.GetEnvString("RABBITMQ_PORT", "5672"),
	}
}

// Enabled reports whether a broker is configured. Without one, instances
// only refresh on their own writes and on the periodic ticker.
func (c Config) Enabled() bool {
	return c.Host != ""
}

func (c Config) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/",
	}
	return u.String()
}

func Init(c Config) (*amqp091.Connection, error) {
	conn, err := amqp091.Dial(c.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// SetupExchange declares the durable topic exchange used for events.
func SetupExchange(ch *amqp091.Channel) error {
	err := ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("ExchangeDeclare failed: %w", err)
	}
	return nil
}

func PublishTopic(ctx context.Context, ch *amqp091.Channel, topic string, data []byte) error {
	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Transient,
		Timestamp:    time.Now(),
	}

	return ch.PublishWithContext(
		ctx,
		Exchange,
		topic,
		false,
		false,
		publishing,
	)
}
