package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"catalog/internal/models"
	"catalog/pkg/clock"
)

// Product event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent describes a committed change to a product.
type ProductEvent struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	ProductID  uint                    `json:"product_id"`
	Product    *models.ProductResponse `json:"product,omitempty"`
	OccurredAt string                  `json:"occurred_at"`
}

func newProductEvent(c clock.Clock, eventType string, productID uint, product *models.Product) ProductEvent {
	ev := ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: c.Now().UTC().Format(models.DateTimeLayout),
	}
	if product != nil {
		resp := product.Serialized()
		ev.Product = &resp
	}
	return ev
}

// EventPublisher delivers product events to subscribers.
type EventPublisher interface {
	PublishProductEvent(ev ProductEvent) error
}

// MultiPublisher publishes every event to each of its publishers.
type MultiPublisher []EventPublisher

func (m MultiPublisher) PublishProductEvent(ev ProductEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishProductEvent(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MessageBroker is implemented by *rabbitmq.Client.
type MessageBroker interface {
	PublishJSON(eventType string, v interface{}) error
}

// BrokerPublisher sends product events to a message broker.
type BrokerPublisher struct {
	broker MessageBroker
}

func NewBrokerPublisher(broker MessageBroker) *BrokerPublisher {
	return &BrokerPublisher{broker: broker}
}

func (p *BrokerPublisher) PublishProductEvent(ev ProductEvent) error {
	if err := p.broker.PublishJSON(ev.Type, ev); err != nil {
		return fmt.Errorf("failed to publish %s for product %d: %w", ev.Type, ev.ProductID, err)
	}
	return nil
}

// Broadcaster is implemented by *ws.Hub.
type Broadcaster interface {
	Broadcast(msg []byte)
}

// BroadcastPublisher pushes product events to live WebSocket clients.
type BroadcastPublisher struct {
	hub Broadcaster
}

func NewBroadcastPublisher(hub Broadcaster) *BroadcastPublisher {
	return &BroadcastPublisher{hub: hub}
}

func (p *BroadcastPublisher) PublishProductEvent(ev ProductEvent) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}
	p.hub.Broadcast(msg)
	return nil
}

// publishEvent never fails the caller. The change is already committed.
func publishEvent(events EventPublisher, ev ProductEvent) {
	if events == nil {
		return
	}
	if err := events.PublishProductEvent(ev); err != nil {
		log.Printf("Warning: failed to publish %s event for product %d: %v", ev.Type, ev.ProductID, err)
	}
}
