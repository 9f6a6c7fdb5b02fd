package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atelier-store/atelier/internal/domain/catalog"
	"github.com/atelier-store/atelier/internal/domain/user"
)

const productColumns = `id, price, url, gender, description, category,
	created_at, updated_at`

// ProductStore implements catalog.Store on SQLite.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a ProductStore over an opened database.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// GetByID retrieves a product by ID. Returns catalog.ErrNotFound if absent.
func (s *ProductStore) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// List returns all products ordered by ID.
func (s *ProductStore) List(ctx context.Context) ([]catalog.Product, error) {
	return s.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

// ListByGender returns products tagged with the given gender.
func (s *ProductStore) ListByGender(ctx context.Context, gender user.Gender) ([]catalog.Product, error) {
	return s.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE gender = ? ORDER BY id`,
		string(gender))
}

// ListByPriceRange returns products with minPrice <= price <= maxPrice.
func (s *ProductStore) ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]catalog.Product, error) {
	return s.query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE price >= ? AND price <= ? ORDER BY id`,
		minPrice, maxPrice)
}

// ListByCreatedBetween returns products created in [start, end].
func (s *ProductStore) ListByCreatedBetween(ctx context.Context, start, end time.Time) ([]catalog.Product, error) {
	return s.query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE created_at >= ? AND created_at <= ? ORDER BY id`,
		start, end)
}

// ListByCategory returns products in the given category.
func (s *ProductStore) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	return s.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = ? ORDER BY id`,
		category)
}

// Create persists a new product and assigns its ID.
func (s *ProductStore) Create(ctx context.Context, p *catalog.Product) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (price, url, gender, description, category,
		 created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Price, p.URL, string(p.Gender), p.Description, p.Category, now, now)
	if isUniqueViolation(err) {
		return catalog.ErrURLExists
	}
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// Update persists changes to an existing product.
func (s *ProductStore) Update(ctx context.Context, p *catalog.Product) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET price = ?, url = ?, gender = ?, description = ?,
		 category = ?, updated_at = ? WHERE id = ?`,
		p.Price, p.URL, string(p.Gender), p.Description, p.Category, now, p.ID)
	if isUniqueViolation(err) {
		return catalog.ErrURLExists
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if err := requireAffected(res, catalog.ErrNotFound); err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

// Delete removes a product by ID.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res, catalog.ErrNotFound)
}

func (s *ProductStore) query(ctx context.Context, q string, args ...any) ([]catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	result := []catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return result, nil
}

func scanProduct(sc scanner) (*catalog.Product, error) {
	var p catalog.Product
	var gender string
	err := sc.Scan(&p.ID, &p.Price, &p.URL, &gender, &p.Description,
		&p.Category, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Gender = user.Gender(gender)
	return &p, nil
}
