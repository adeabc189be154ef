package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput defines the data required to place an order.
type PlaceOrderInput struct {
	UserID uuid.UUID
	Items  []OrderItemInput
}

// ListOrdersInput defines pagination parameters for a user's order history.
type ListOrdersInput struct {
	UserID   uuid.UUID
	Page     int
	PageSize int
}

// --- Output DTOs ---

// ListOrdersOutput returns one page of a user's orders with the total count.
type ListOrdersOutput struct {
	Orders   []*entity.Order
	Total    int64
	Page     int
	PageSize int
}

// OrderUsecase defines the interface for order-related business operations.
// PlaceOrder is the transactional core: it validates stock under row locks
// and either commits the entire order or leaves no trace.
type OrderUsecase interface {
	PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*entity.Order, error)
	GetOrder(ctx context.Context, requester *entity.User, orderID uuid.UUID) (*entity.Order, error)
	ListOrders(ctx context.Context, input *ListOrdersInput) (*ListOrdersOutput, error)
}
