// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. Stock is the only field mutated outside of the
// admin update path: order placement decrements it inside a transaction that
// holds a row lock, so stock never drops below zero.
type Product struct {
	ID          uuid.UUID // The unique identifier for the product.
	Name        string    // Display name of the product.
	Description string    // Free-text product description.
	Price       float64   // Unit price, positive, two-decimal precision (DECIMAL(10,2) in storage).
	Stock       int       // Units available for ordering. Invariant: Stock >= 0.
	Category    string    // Catalog category the product belongs to.
	UserID      uuid.UUID // The admin user that created this product.
	ImageURL    string    // Optional URL of the uploaded product image. Empty when no image exists.
	CreatedAt   time.Time // Timestamp of when this product was created.
	UpdatedAt   time.Time // Timestamp of the last modification to this product.
}
