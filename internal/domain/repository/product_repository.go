package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is a domain-specific error returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List retrieves a page of products together with the total catalog size.
	List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error)

	// FindByIDsForUpdate loads the products matching the given ids while
	// taking an exclusive row lock (SELECT ... FOR UPDATE) on each returned
	// row. The locks are held until the enclosing transaction ends, so this
	// must only be called through a TransactionManager-bound repository.
	// Missing ids are not an error; callers compare the result size.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)

	// DecrementStock reduces a product's stock by the given quantity.
	// Callers are expected to hold the row lock from FindByIDsForUpdate and
	// to have validated that quantity does not exceed the current stock.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// Create persists a new product entity to the storage.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product entity in the storage.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product from the storage.
	Delete(ctx context.Context, id uuid.UUID) error
}
