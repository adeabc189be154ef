package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is a domain-specific error returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// Create persists a new order together with all of its line items.
	// The order row is inserted first, then the items are bulk-inserted
	// referencing the generated order id, all on the repository's connection
	// (a single transaction when obtained through a RepositoryFactory).
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves a single order with its items preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByUserID retrieves a page of a user's orders, newest first, with
	// items preloaded, together with the user's total order count.
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, int64, error)
}
