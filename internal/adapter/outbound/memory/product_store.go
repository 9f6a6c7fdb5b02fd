package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atelier-store/atelier/internal/domain/catalog"
	"github.com/atelier-store/atelier/internal/domain/user"
)

// ProductStore implements catalog.Store with an in-memory map.
// Thread-safe for concurrent access. For development and testing.
type ProductStore struct {
	mu       sync.RWMutex
	products map[int64]*catalog.Product
	byURL    map[string]int64
	nextID   int64
}

// NewProductStore creates a new in-memory product store.
func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[int64]*catalog.Product),
		byURL:    make(map[string]int64),
	}
}

// GetByID retrieves a product by ID. Returns catalog.ErrNotFound if absent.
func (s *ProductStore) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// List returns all products ordered by ID.
func (s *ProductStore) List(ctx context.Context) ([]catalog.Product, error) {
	return s.listWhere(func(*catalog.Product) bool { return true })
}

// ListByGender returns products tagged with the given gender.
func (s *ProductStore) ListByGender(ctx context.Context, gender user.Gender) ([]catalog.Product, error) {
	return s.listWhere(func(p *catalog.Product) bool { return p.Gender == gender })
}

// ListByPriceRange returns products with minPrice <= price <= maxPrice.
func (s *ProductStore) ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]catalog.Product, error) {
	return s.listWhere(func(p *catalog.Product) bool {
		return p.Price >= minPrice && p.Price <= maxPrice
	})
}

// ListByCreatedBetween returns products created in [start, end].
func (s *ProductStore) ListByCreatedBetween(ctx context.Context, start, end time.Time) ([]catalog.Product, error) {
	return s.listWhere(func(p *catalog.Product) bool {
		return !p.CreatedAt.Before(start) && !p.CreatedAt.After(end)
	})
}

// ListByCategory returns products in the given category.
func (s *ProductStore) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	return s.listWhere(func(p *catalog.Product) bool { return p.Category == category })
}

func (s *ProductStore) listWhere(keep func(*catalog.Product) bool) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Create persists a new product and assigns its ID.
func (s *ProductStore) Create(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byURL[p.URL]; taken {
		return catalog.ErrURLExists
	}

	s.nextID++
	now := time.Now().UTC()
	p.ID = s.nextID
	p.CreatedAt = now
	p.UpdatedAt = now

	cp := *p
	s.products[p.ID] = &cp
	s.byURL[p.URL] = p.ID
	return nil
}

// Update persists changes to an existing product.
func (s *ProductStore) Update(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	if existing.URL != p.URL {
		if _, taken := s.byURL[p.URL]; taken {
			return catalog.ErrURLExists
		}
		delete(s.byURL, existing.URL)
		s.byURL[p.URL] = p.ID
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

// Delete removes a product by ID.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	delete(s.byURL, p.URL)
	delete(s.products, id)
	return nil
}
