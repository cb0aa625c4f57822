package queue

import (
	"context"
	"fmt"

	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Outcomes reported to the consumer's observer.
const (
	OutcomeApplied = "applied"
	OutcomeIgnored = "ignored"
	OutcomeInvalid = "invalid"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a function to the Refresher interface.
type RefreshFunc func(ctx context.Context) error

func (f RefreshFunc) Refresh(ctx context.Context) error {
	return f(ctx)
}

// Consumer refreshes the local graph when another instance reports a
// change. Events that arrive while a refresh is pending are folded into
// that refresh, and refreshes are throttled by a rate limiter.
type Consumer struct {
	origin    string
	refresher Refresher
	limiter   *rate.Limiter
	observe   func(outcome string)
	pending   chan struct{}
}

type ConsumerOption func(*Consumer)

// WithObserver registers fn to receive the outcome of every delivery.
func WithObserver(fn func(outcome string)) ConsumerOption {
	return func(c *Consumer) {
		c.observe = fn
	}
}

func NewConsumer(origin string, refresher Refresher, limiter *rate.Limiter, opts ...ConsumerOption) *Consumer {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	c := &Consumer{
		origin:    origin,
		refresher: refresher,
		limiter:   limiter,
		observe:   func(string) {},
		pending:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Run binds an exclusive queue to the graph change topic and processes
// deliveries until ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context, ch *amqp091.Channel) error {
	q, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // autoDelete
		true,  // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("QueueDeclare failed: %w", err)
	}
	if err := ch.QueueBind(q.Name, RoutingGraphChanged, Exchange, false, nil); err != nil {
		return fmt.Errorf("QueueBind failed: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(
		ctx,
		q.Name,
		"graph_consumer_"+c.origin,
		true,  // autoAck
		true,  // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger.Info("[Queue] Listening for graph changes", "queue", q.Name)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.refreshLoop(ctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-msgs:
				if !ok {
					return fmt.Errorf("graph event channel closed")
				}
				c.handle(msg.Body)
			}
		}
	})
	return g.Wait()
}

// handle schedules a refresh for a valid foreign event and reports whether
// it did.
func (c *Consumer) handle(body []byte) bool {
	ev, err := DecodeGraphChanged(body)
	if err != nil {
		logger.Warn("[Queue] Dropping graph event", "err", err)
		c.observe(OutcomeInvalid)
		return false
	}
	if ev.Origin == c.origin {
		c.observe(OutcomeIgnored)
		return false
	}

	logger.Debug("[Queue] Graph changed elsewhere", "origin", ev.Origin, "reason", ev.Reason, "node", ev.Node)
	c.observe(OutcomeApplied)
	select {
	case c.pending <- struct{}{}:
	default:
	}
	return true
}

func (c *Consumer) refreshLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.pending:
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil
		}
		if err := c.refresher.Refresh(ctx); err != nil {
			logger.Error("[Queue] Graph refresh after remote change failed", "err", err)
		}
	}
}
