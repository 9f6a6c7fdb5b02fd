package user

import (
	"context"
	"errors"
)

// Sentinel errors for user operations.
var (
	// ErrNotFound is returned when a user lookup matches no record.
	ErrNotFound = errors.New("user not found")
	// ErrExists is returned when the login credential is already registered.
	ErrExists = errors.New("user with this phone number already exists")
	// ErrInvalidCredentials is returned for every failed authentication,
	// regardless of which precondition failed.
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	// ErrPasswordUnchanged is returned when a password update supplies
	// identical old and new secrets.
	ErrPasswordUnchanged = errors.New("new password matches the old password")
	// ErrOldPasswordMismatch is returned when the supplied old password does
	// not verify against the stored hash.
	ErrOldPasswordMismatch = errors.New("old password is incorrect")
	// ErrUnknownRole is returned for role names outside the fixed set.
	ErrUnknownRole = errors.New("unknown role")
	// ErrUnknownGender is returned for unrecognized gender names.
	ErrUnknownGender = errors.New("unknown gender")
)

// Store provides persistence for user records.
// Implementations: in-memory (dev, tests), SQLite (prod).
// Each call must be atomic; the core never retries on transient failure.
type Store interface {
	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByNumber retrieves a user by login credential.
	// Returns ErrNotFound if absent.
	GetByNumber(ctx context.Context, number string) (*User, error)

	// List returns all users.
	List(ctx context.Context) ([]User, error)

	// Create persists a new user. Returns ErrExists if the number is taken.
	Create(ctx context.Context, u *User) error

	// Update persists changes to an existing user.
	// Returns ErrNotFound if the user does not exist.
	Update(ctx context.Context, u *User) error

	// Delete removes a user by ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}
