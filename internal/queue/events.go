package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	ReasonNodeCreated = "node.created"
	ReasonNodeUpdated = "node.updated"
	ReasonNodeDeleted = "node.deleted"
	ReasonRefresh     = "graph.refresh"
)

// GraphChanged tells other instances that the node set was modified.
type GraphChanged struct {
	Reason string    `json:"reason"`
	Node   string    `json:"node,omitempty"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

var errMissingOrigin = errors.New("graph event without origin")

func EncodeGraphChanged(ev GraphChanged) ([]byte, error) {
	return json.Marshal(ev)
}

func DecodeGraphChanged(data []byte) (GraphChanged, error) {
	var ev GraphChanged
	if err := json.Unmarshal(data, &ev); err != nil {
		return GraphChanged{}, fmt.Errorf("invalid graph event: %w", err)
	}
	if ev.Origin == "" {
		return GraphChanged{}, errMissingOrigin
	}
	return ev, nil
}

// Publisher announces graph changes made by this instance.
type Publisher struct {
	ch     *amqp091.Channel
	origin string
	mu     sync.Mutex
}

func NewPublisher(ch *amqp091.Channel, origin string) *Publisher {
	return &Publisher{ch: ch, origin: origin}
}

func (p *Publisher) GraphChanged(ctx context.Context, reason, node string) error {
	data, err := EncodeGraphChanged(GraphChanged{
		Reason: reason,
		Node:   node,
		Origin: p.origin,
		At:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := PublishTopic(ctx, p.ch, RoutingGraphChanged, data); err != nil {
		return fmt.Errorf("failed to publish graph event: %w", err)
	}
	return nil
}
