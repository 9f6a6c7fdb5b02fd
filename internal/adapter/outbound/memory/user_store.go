// Package memory provides in-memory implementations of the outbound stores.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/atelier-store/atelier/internal/domain/user"
)

// UserStore implements user.Store with an in-memory map.
// Thread-safe for concurrent access. For development and testing.
type UserStore struct {
	mu       sync.RWMutex
	byID     map[string]*user.User
	byNumber map[string]string // number -> ID
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:     make(map[string]*user.User),
		byNumber: make(map[string]string),
	}
}

// GetByID retrieves a user by ID. Returns user.ErrNotFound if absent.
func (s *UserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByNumber retrieves a user by login credential.
func (s *UserStore) GetByNumber(ctx context.Context, number string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byNumber[number]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

// List returns all users ordered by creation time.
func (s *UserStore) List(ctx context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.User, 0, len(s.byID))
	for _, u := range s.byID {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Create persists a new user. Returns user.ErrExists if the number is taken.
func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byNumber[u.Number]; ok {
		return user.ErrExists
	}
	cp := *u
	s.byID[cp.ID] = &cp
	s.byNumber[cp.Number] = cp.ID
	return nil
}

// Update persists changes to an existing user.
func (s *UserStore) Update(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[u.ID]
	if !ok {
		return user.ErrNotFound
	}
	// Number changes must keep the uniqueness index consistent.
	if existing.Number != u.Number {
		if _, taken := s.byNumber[u.Number]; taken {
			return user.ErrExists
		}
		delete(s.byNumber, existing.Number)
		s.byNumber[u.Number] = u.ID
	}
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

// Delete removes a user by ID.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	delete(s.byNumber, u.Number)
	delete(s.byID, id)
	return nil
}
