package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atelier-store/atelier/internal/domain/catalog"
	"github.com/atelier-store/atelier/internal/domain/user"
)

// CatalogService provides product CRUD and filtered queries over a
// catalog.Store.
type CatalogService struct {
	store  catalog.Store
	logger *slog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store catalog.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// CreateProductInput holds the input for creating a product.
type CreateProductInput struct {
	Price       float64
	URL         string
	Gender      user.Gender
	Description string
	Category    string
}

// Create adds a product to the catalog.
func (s *CatalogService) Create(ctx context.Context, input CreateProductInput) (*catalog.Product, error) {
	if input.URL == "" || input.Category == "" {
		return nil, fmt.Errorf("product url and category are required")
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("product price must be positive")
	}

	p := &catalog.Product{
		Price:       input.Price,
		URL:         input.URL,
		Gender:      input.Gender,
		Description: input.Description,
		Category:    input.Category,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", "id", p.ID, "category", p.Category)
	return p, nil
}

// UpdateProductInput holds the updatable product fields.
// Zero-valued fields are left unchanged.
type UpdateProductInput struct {
	Price       float64
	URL         string
	Gender      user.Gender
	Description string
	Category    string
}

// Update applies a partial update to an existing product.
func (s *CatalogService) Update(ctx context.Context, id int64, input UpdateProductInput) (*catalog.Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Price > 0 {
		p.Price = input.Price
	}
	if input.URL != "" {
		p.URL = input.URL
	}
	if input.Gender != "" {
		p.Gender = input.Gender
	}
	if input.Description != "" {
		p.Description = input.Description
	}
	if input.Category != "" {
		p.Category = input.Category
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product updated", "id", id)
	return p, nil
}

// Delete removes a product by ID.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", "id", id)
	return nil
}

// GetByID retrieves a product by ID.
func (s *CatalogService) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	return s.store.GetByID(ctx, id)
}

// List returns all products.
func (s *CatalogService) List(ctx context.Context) ([]catalog.Product, error) {
	return s.store.List(ctx)
}

// ListByGender returns products tagged with the given gender.
func (s *CatalogService) ListByGender(ctx context.Context, gender user.Gender) ([]catalog.Product, error) {
	return s.store.ListByGender(ctx, gender)
}

// ListByPriceRange returns products priced within [minPrice, maxPrice].
func (s *CatalogService) ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]catalog.Product, error) {
	if minPrice > maxPrice {
		return nil, fmt.Errorf("minPrice must not exceed maxPrice")
	}
	return s.store.ListByPriceRange(ctx, minPrice, maxPrice)
}

// ListByCreatedBetween returns products created in [start, end].
func (s *CatalogService) ListByCreatedBetween(ctx context.Context, start, end time.Time) ([]catalog.Product, error) {
	if start.After(end) {
		return nil, fmt.Errorf("startDate must not be after endDate")
	}
	return s.store.ListByCreatedBetween(ctx, start, end)
}

// ListByCategory returns products in the given category.
func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	return s.store.ListByCategory(ctx, category)
}
