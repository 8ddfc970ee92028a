// Package events publishes order lifecycle notifications to a message broker.
// Delivery to end users happens downstream.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

// Audiences an event is addressed to.
const (
	AudienceAdmin    = "admin"
	AudienceCustomer = "customer"
)

// Event is the payload written to the broker.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Audience       string    `json:"audience"`
	OrderID        string    `json:"orderId"`
	OrderNumber    string    `json:"orderNumber"`
	CustomerID     string    `json:"customerId"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	Total          float64   `json:"total"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType, audience string) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Audience:   audience,
		OccurredAt: time.Now().UTC(),
	}
}

// Key returns the partitioning key; events of one order stay ordered.
func (e Event) Key() string {
	return e.OrderID
}

// Publisher sends events to a broker.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, ...Event) error { return nil }

func (noopPublisher) Close() error { return nil }
