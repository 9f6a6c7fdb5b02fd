// Package catalog contains the domain types for the product catalog.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/atelier-store/atelier/internal/domain/user"
)

// ErrNotFound is returned when a product lookup matches no record.
var ErrNotFound = errors.New("product not found")

// ErrURLExists is returned when a product URL is already in the catalog.
var ErrURLExists = errors.New("product with this url already exists")

// Product is a single catalog entry.
type Product struct {
	// ID is the unique identifier, assigned by the store.
	ID int64 `json:"id"`
	// Price in the store currency.
	Price float64 `json:"price"`
	// URL is the unique product page link.
	URL string `json:"url"`
	// Gender tags which audience the product targets.
	Gender user.Gender `json:"gender,omitempty"`
	// Description is optional free text.
	Description string `json:"description,omitempty"`
	// Category groups products for filtered queries.
	Category string `json:"category"`
	// CreatedAt is set by the store on insert (UTC).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is set by the store on every write (UTC).
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store provides persistence for catalog entries.
// Implementations: in-memory (dev, tests), SQLite (prod).
type Store interface {
	// GetByID retrieves a product by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Product, error)

	// List returns all products.
	List(ctx context.Context) ([]Product, error)

	// ListByGender returns products tagged with the given gender.
	ListByGender(ctx context.Context, gender user.Gender) ([]Product, error)

	// ListByPriceRange returns products with minPrice <= price <= maxPrice.
	ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]Product, error)

	// ListByCreatedBetween returns products created in [start, end].
	ListByCreatedBetween(ctx context.Context, start, end time.Time) ([]Product, error)

	// ListByCategory returns products in the given category.
	ListByCategory(ctx context.Context, category string) ([]Product, error)

	// Create persists a new product and assigns its ID.
	// Returns ErrURLExists if the URL is already taken.
	Create(ctx context.Context, p *Product) error

	// Update persists changes to an existing product.
	// Returns ErrNotFound if the product does not exist.
	Update(ctx context.Context, p *Product) error

	// Delete removes a product by ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error
}
