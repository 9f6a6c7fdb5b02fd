// Package seed applies an optional bootstrap file at startup: an initial
// admin account and catalog entries, so a fresh deployment is usable without
// manual database edits.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/atelier-store/atelier/internal/domain/catalog"
	"github.com/atelier-store/atelier/internal/domain/user"
)

// File is the YAML bootstrap file layout.
type File struct {
	Admin    *Admin    `yaml:"admin"`
	Products []Product `yaml:"products"`
}

// Admin is the initial administrator account.
type Admin struct {
	Number   string `yaml:"number"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	LastName string `yaml:"last_name"`
	Email    string `yaml:"email"`
}

// Product is an initial catalog entry.
type Product struct {
	Price       float64 `yaml:"price"`
	URL         string  `yaml:"url"`
	Gender      string  `yaml:"gender"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
}

// Load parses the bootstrap file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Apply writes the bootstrap records into the stores. Records that already
// exist (by number or URL) are skipped, so re-running at every startup is
// safe.
func Apply(ctx context.Context, f *File, users user.Store, products catalog.Store, logger *slog.Logger) error {
	if f.Admin != nil {
		if err := applyAdmin(ctx, f.Admin, users, logger); err != nil {
			return err
		}
	}

	for i := range f.Products {
		if err := applyProduct(ctx, &f.Products[i], products, logger); err != nil {
			return err
		}
	}
	return nil
}

func applyAdmin(ctx context.Context, a *Admin, users user.Store, logger *slog.Logger) error {
	if a.Number == "" || a.Password == "" {
		return errors.New("seed admin requires number and password")
	}

	hash, err := user.HashPassword(a.Password)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New().String(),
		Number:       a.Number,
		PasswordHash: hash,
		Name:         a.Name,
		LastName:     a.LastName,
		Email:        a.Email,
		Role:         user.RoleAdmin,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrExists) {
			logger.Debug("seed admin already present", "number", u.MaskedNumber())
			return nil
		}
		return fmt.Errorf("create seed admin: %w", err)
	}

	logger.Info("seed admin created", "number", u.MaskedNumber())
	return nil
}

func applyProduct(ctx context.Context, sp *Product, products catalog.Store, logger *slog.Logger) error {
	if sp.URL == "" || sp.Category == "" {
		return errors.New("seed product requires url and category")
	}

	var gender user.Gender
	if sp.Gender != "" {
		g, err := user.ParseGender(sp.Gender)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", sp.URL, err)
		}
		gender = g
	}

	p := &catalog.Product{
		Price:       sp.Price,
		URL:         sp.URL,
		Gender:      gender,
		Description: sp.Description,
		Category:    sp.Category,
	}

	if err := products.Create(ctx, p); err != nil {
		if errors.Is(err, catalog.ErrURLExists) {
			logger.Debug("seed product already present", "url", sp.URL)
			return nil
		}
		return fmt.Errorf("create seed product %q: %w", sp.URL, err)
	}

	logger.Info("seed product created", "id", p.ID, "url", sp.URL)
	return nil
}
