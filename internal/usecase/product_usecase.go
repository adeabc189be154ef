package usecase

import (
	"context"
	"io"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateProductInput defines the data required to add a product to the catalog.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	CreatorID   uuid.UUID
}

// UpdateProductInput defines a partial catalog update. Nil fields are left
// untouched; at least one field must be set.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
}

// ListProductsInput defines pagination parameters for catalog listing.
type ListProductsInput struct {
	Page     int
	PageSize int
}

// UploadImageInput defines the data required to attach an image to a product.
type UploadImageInput struct {
	ProductID   uuid.UUID
	FileName    string
	ContentType string
	Content     io.Reader
}

// --- Output DTOs ---

// ListProductsOutput returns one catalog page together with the total count.
type ListProductsOutput struct {
	Products []*entity.Product
	Total    int64
	Page     int
	PageSize int
}

// ProductUsecase defines the interface for catalog-related business operations.
type ProductUsecase interface {
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	ListProducts(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	UploadProductImage(ctx context.Context, input *UploadImageInput) (*entity.Product, error)
}
