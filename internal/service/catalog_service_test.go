package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atelier-store/atelier/internal/adapter/outbound/memory"
	"github.com/atelier-store/atelier/internal/domain/catalog"
	"github.com/atelier-store/atelier/internal/domain/user"
)

func newTestCatalogService() *CatalogService {
	return NewCatalogService(memory.NewProductStore(), discardLogger())
}

func mustCreateProduct(t *testing.T, svc *CatalogService, url, category string, price float64) *catalog.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), CreateProductInput{
		Price:    price,
		URL:      url,
		Category: category,
	})
	if err != nil {
		t.Fatalf("Create(%q): %v", url, err)
	}
	return p
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService()

	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing url", CreateProductInput{Price: 10, Category: "shoes"}},
		{"missing category", CreateProductInput{Price: 10, URL: "https://a.example/p"}},
		{"zero price", CreateProductInput{URL: "https://a.example/p", Category: "shoes"}},
		{"negative price", CreateProductInput{Price: -5, URL: "https://a.example/p", Category: "shoes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := svc.Create(context.Background(), tt.input); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateProductDuplicateURL(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService()
	mustCreateProduct(t, svc, "https://a.example/p1", "shoes", 10)

	_, err := svc.Create(context.Background(), CreateProductInput{
		Price:    20,
		URL:      "https://a.example/p1",
		Category: "bags",
	})
	if !errors.Is(err, catalog.ErrURLExists) {
		t.Errorf("duplicate URL: err = %v, want ErrURLExists", err)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService()
	p := mustCreateProduct(t, svc, "https://a.example/p1", "shoes", 10)

	updated, err := svc.Update(context.Background(), p.ID, UpdateProductInput{Price: 25})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 25 {
		t.Errorf("Price = %v, want 25", updated.Price)
	}
	if updated.URL != "https://a.example/p1" || updated.Category != "shoes" {
		t.Errorf("unset fields changed: URL = %q, Category = %q", updated.URL, updated.Category)
	}

	if _, err := svc.Update(context.Background(), 9999, UpdateProductInput{Price: 1}); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("unknown product: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService()
	p := mustCreateProduct(t, svc, "https://a.example/p1", "shoes", 10)

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), p.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetByID after delete: err = %v, want ErrNotFound", err)
	}
}

func TestListByPriceRange(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService()
	mustCreateProduct(t, svc, "https://a.example/p1", "shoes", 10)
	mustCreateProduct(t, svc, "https://a.example/p2", "shoes", 50)
	mustCreateProduct(t, svc, "https://a.example/p3", "shoes", 100)

	got, err := svc.ListByPriceRange(context.Background(), 10, 50)
	if err != nil {
		t.Fatalf("ListByPriceRange: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d products, want 2 (bounds inclusive)", len(got))
	}

	if _, err := svc.ListByPriceRange(context.Background(), 50, 10); err == nil {
		t.Error("expected error for minPrice > maxPrice")
	}
}

func TestListByCreatedBetween(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService()
	mustCreateProduct(t, svc, "https://a.example/p1", "shoes", 10)

	now := time.Now().UTC()
	got, err := svc.ListByCreatedBetween(context.Background(), now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListByCreatedBetween: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d products, want 1", len(got))
	}

	if _, err := svc.ListByCreatedBetween(context.Background(), now, now.Add(-time.Hour)); err == nil {
		t.Error("expected error for start after end")
	}
}

func TestListByGenderAndCategory(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService()
	if _, err := svc.Create(context.Background(), CreateProductInput{
		Price: 10, URL: "https://a.example/p1", Category: "shoes", Gender: user.GenderFemale,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	mustCreateProduct(t, svc, "https://a.example/p2", "bags", 20)

	byGender, err := svc.ListByGender(context.Background(), user.GenderFemale)
	if err != nil {
		t.Fatalf("ListByGender: %v", err)
	}
	if len(byGender) != 1 {
		t.Errorf("ListByGender: got %d, want 1", len(byGender))
	}

	byCategory, err := svc.ListByCategory(context.Background(), "bags")
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(byCategory) != 1 {
		t.Errorf("ListByCategory: got %d, want 1", len(byCategory))
	}
}
