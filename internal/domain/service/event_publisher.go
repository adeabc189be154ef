package service

import (
	"context"
)

// OrderPlacedEvent is published after an order placement transaction commits.
// Consumers (fulfillment, notifications) process it asynchronously; publishing
// is best-effort and never affects the committed order.
type OrderPlacedEvent struct {
	RequestID  string           `json:"request_id,omitempty"` // For distributed tracing
	OrderID    string           `json:"order_id"`
	UserID     string           `json:"user_id"`
	TotalPrice float64          `json:"total_price"`
	Items      []OrderEventItem `json:"items"`
}

// OrderEventItem is one line of an OrderPlacedEvent.
type OrderEventItem struct {
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"price_at_order"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderPlaced publishes an order placement event for async processing
	PublishOrderPlaced(ctx context.Context, event *OrderPlacedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
