package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atelier-store/atelier/internal/domain/user"
)

const userColumns = `id, number, password_hash, name, last_name, email, vk_id,
	gender, role, enabled, locked, created_at, updated_at`

// UserStore implements user.Store on SQLite.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a UserStore over an opened database.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// GetByID retrieves a user by ID. Returns user.ErrNotFound if absent.
func (s *UserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByNumber retrieves a user by login credential.
func (s *UserStore) GetByNumber(ctx context.Context, number string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE number = ?`, number)
	return scanUser(row)
}

// List returns all users ordered by creation time.
func (s *UserStore) List(ctx context.Context) ([]user.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var result []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if result == nil {
		result = []user.User{}
	}
	return result, nil
}

// Create persists a new user. Returns user.ErrExists if the number is taken.
func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Number, u.PasswordHash, u.Name, u.LastName, u.Email, u.VkID,
		string(u.Gender), string(u.Role), u.Enabled, u.Locked,
		u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return user.ErrExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update persists changes to an existing user.
func (s *UserStore) Update(ctx context.Context, u *user.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET number = ?, password_hash = ?, name = ?,
		 last_name = ?, email = ?, vk_id = ?, gender = ?, role = ?,
		 enabled = ?, locked = ?, updated_at = ?
		 WHERE id = ?`,
		u.Number, u.PasswordHash, u.Name, u.LastName, u.Email, u.VkID,
		string(u.Gender), string(u.Role), u.Enabled, u.Locked,
		u.UpdatedAt, u.ID)
	if isUniqueViolation(err) {
		return user.ErrExists
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res, user.ErrNotFound)
}

// Delete removes a user by ID.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, user.ErrNotFound)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(sc scanner) (*user.User, error) {
	var u user.User
	var gender, role string
	err := sc.Scan(&u.ID, &u.Number, &u.PasswordHash, &u.Name, &u.LastName,
		&u.Email, &u.VkID, &gender, &role, &u.Enabled, &u.Locked,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Gender = user.Gender(gender)
	u.Role = user.Role(role)
	return &u, nil
}

// requireAffected converts a zero-row write into the store's not-found error.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
