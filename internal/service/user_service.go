// Package service contains application services.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/atelier-store/atelier/internal/domain/token"
	"github.com/atelier-store/atelier/internal/domain/user"
)

// UserService orchestrates registration, authentication, and account
// administration over a user.Store.
type UserService struct {
	store  user.Store
	codec  *token.Codec
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(store user.Store, codec *token.Codec, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		codec:  codec,
		logger: logger,
		tracer: otel.Tracer("atelier/service"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput holds the input for creating a user.
type RegisterInput struct {
	Number   string
	Password string
	Name     string
	LastName string
	Email    string
	VkID     string
	Gender   user.Gender
}

// Register creates a new USER-role account with a hashed password.
// Returns user.ErrExists if the number is already registered.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	hash, err := user.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := &user.User{
		ID:           uuid.New().String(),
		Number:       input.Number,
		PasswordHash: hash,
		Name:         input.Name,
		LastName:     input.LastName,
		Email:        input.Email,
		VkID:         input.VkID,
		Gender:       input.Gender,
		Role:         user.RoleUser,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrExists) {
			s.logger.Warn("registration rejected, number taken", "number", u.MaskedNumber())
		}
		return nil, err
	}

	s.logger.Info("user registered", "id", u.ID, "number", u.MaskedNumber())
	return u, nil
}

// Authenticate verifies the credentials and returns a signed bearer token.
//
// Every failure path returns the identical user.ErrInvalidCredentials: an
// unknown number, a wrong password, a locked account, and a disabled account
// are indistinguishable to the caller. The actual cause is only logged
// server-side.
func (s *UserService) Authenticate(ctx context.Context, number, password string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()

	u, err := s.store.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("authentication failed, unknown number", "number", user.MaskNumber(number))
			return "", user.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !user.VerifyPassword(password, u.PasswordHash) {
		s.logger.Warn("authentication failed, wrong password", "number", u.MaskedNumber())
		return "", user.ErrInvalidCredentials
	}

	if !u.Active() {
		s.logger.Warn("authentication failed, account inactive",
			"number", u.MaskedNumber(), "enabled", u.Enabled, "locked", u.Locked)
		return "", user.ErrInvalidCredentials
	}

	tok, err := s.codec.Issue(u.Number, s.now())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	span.SetAttributes(attribute.String("user.role", string(u.Role)))
	s.logger.Info("user authenticated", "number", u.MaskedNumber(), "role", u.Role)
	return tok, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	return s.store.GetByID(ctx, id)
}

// GetByNumber retrieves a user by login credential.
func (s *UserService) GetByNumber(ctx context.Context, number string) (*user.User, error) {
	return s.store.GetByNumber(ctx, number)
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.store.List(ctx)
}

// UpdateInput holds the admin-updatable profile fields.
// Empty fields are left unchanged.
type UpdateInput struct {
	Name     string
	LastName string
	Number   string
	Email    string
	VkID     string
}

// Update applies a partial profile update to an existing user.
func (s *UserService) Update(ctx context.Context, id string, input UpdateInput) (*user.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		u.Name = input.Name
	}
	if input.LastName != "" {
		u.LastName = input.LastName
	}
	if input.Number != "" {
		u.Number = input.Number
	}
	if input.Email != "" {
		u.Email = input.Email
	}
	if input.VkID != "" {
		u.VkID = input.VkID
	}
	u.UpdatedAt = s.now()

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user updated", "id", id)
	return u, nil
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "id", id)
	return nil
}

// ChangeRole assigns a new role to the user.
func (s *UserService) ChangeRole(ctx context.Context, id string, role user.Role) (*user.User, error) {
	if !role.IsValid() {
		return nil, user.ErrUnknownRole
	}
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	u.UpdatedAt = s.now()
	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user role changed", "id", id, "role", role)
	return u, nil
}

// Block locks the account with the given number. A locked account cannot
// authenticate; tokens already issued keep working until they expire.
func (s *UserService) Block(ctx context.Context, number string) error {
	return s.setLocked(ctx, number, true)
}

// Unblock unlocks the account with the given number.
func (s *UserService) Unblock(ctx context.Context, number string) error {
	return s.setLocked(ctx, number, false)
}

func (s *UserService) setLocked(ctx context.Context, number string, locked bool) error {
	u, err := s.store.GetByNumber(ctx, number)
	if err != nil {
		return err
	}
	u.Locked = locked
	u.UpdatedAt = s.now()
	if err := s.store.Update(ctx, u); err != nil {
		return err
	}
	s.logger.Info("user lock state changed", "number", u.MaskedNumber(), "locked", locked)
	return nil
}

// UpdatePassword changes the password for the user with the given number.
// The old password must verify, and the new password must differ:
// user.ErrOldPasswordMismatch and user.ErrPasswordUnchanged otherwise.
func (s *UserService) UpdatePassword(ctx context.Context, number, oldPassword, newPassword string) error {
	if oldPassword == newPassword {
		return user.ErrPasswordUnchanged
	}

	u, err := s.store.GetByNumber(ctx, number)
	if err != nil {
		return err
	}

	if !user.VerifyPassword(oldPassword, u.PasswordHash) {
		s.logger.Warn("password update rejected, old password mismatch", "number", u.MaskedNumber())
		return user.ErrOldPasswordMismatch
	}

	hash, err := user.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	u.UpdatedAt = s.now()

	if err := s.store.Update(ctx, u); err != nil {
		return err
	}
	s.logger.Info("password updated", "number", u.MaskedNumber())
	return nil
}
