// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfillment state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the state every order is created in.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusShipped indicates the order left the warehouse.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered indicates the order reached the customer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled indicates the order was cancelled.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Order is a committed purchase. It is created atomically together with its
// OrderItems; TotalPrice is the sum of PriceAtOrder × Quantity over the items,
// computed once at creation and never recomputed.
type Order struct {
	ID          uuid.UUID    // The unique identifier for the order.
	UserID      uuid.UUID    // The customer that placed the order.
	Description string       // Human-readable summary, e.g. "Order of 2 item(s)".
	TotalPrice  float64      // Immutable total, fixed at creation time.
	Status      OrderStatus  // Fulfillment state, defaults to pending.
	Items       []*OrderItem // Line items persisted in the same transaction as the order.
	CreatedAt   time.Time    // Timestamp of when this order was placed.
	UpdatedAt   time.Time    // Timestamp of the last status change.
}

// OrderItem is a single line of an order. PriceAtOrder snapshots the product's
// unit price at validation time, decoupled from later price changes.
type OrderItem struct {
	ID           uuid.UUID // The unique identifier for the line item.
	OrderID      uuid.UUID // The order this line belongs to.
	ProductID    uuid.UUID // The product that was purchased.
	Quantity     int       // Units purchased, always >= 1.
	PriceAtOrder float64   // Unit price observed inside the placement transaction.
}
