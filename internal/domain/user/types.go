// Package user contains the domain types and logic for identity management.
package user

import (
	"strings"
	"time"
)

// Role represents an authorization level with a strict total order.
type Role string

const (
	// RoleGuest has read-only access to public resources.
	RoleGuest Role = "GUEST"
	// RoleUser has standard access to self-service operations.
	RoleUser Role = "USER"
	// RoleModerator can manage user status and moderate the catalog.
	RoleModerator Role = "MODERATOR"
	// RoleAdmin has full access to all operations.
	RoleAdmin Role = "ADMIN"
)

// IsValid returns true if the role is a known valid role.
func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// AccessLevel returns the numeric rank of the role.
// Higher values grant strictly more access: GUEST < USER < MODERATOR < ADMIN.
func (r Role) AccessLevel() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleModerator:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// Authority returns the granted-authority string for this role ("ROLE_ADMIN").
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// ParseRole converts a case-insensitive role name into a Role.
// Returns ErrUnknownRole for unrecognized names.
func ParseRole(name string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(name)))
	if !r.IsValid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Gender is an optional profile attribute, also used to tag catalog entries.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// IsValid returns true if the gender is a known value or empty (unset).
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, "":
		return true
	default:
		return false
	}
}

// ParseGender converts a case-insensitive gender name into a Gender.
func ParseGender(name string) (Gender, error) {
	g := Gender(strings.ToUpper(strings.TrimSpace(name)))
	if g == "" || !g.IsValid() {
		return "", ErrUnknownGender
	}
	return g, nil
}

// User represents an identity record: the login credential (phone number),
// the password hash, the role, and the enabled/locked flags.
type User struct {
	// ID is the unique identifier for this user.
	ID string `json:"id"`
	// Number is the unique login credential in phone-number format.
	Number string `json:"number"`
	// PasswordHash is the argon2id PHC-format hash. Never serialized.
	PasswordHash string `json:"-"`
	// Name is the optional first name.
	Name string `json:"name,omitempty"`
	// LastName is the optional last name.
	LastName string `json:"lastName,omitempty"`
	// Email is optional; having one enables password reset eligibility.
	Email string `json:"email,omitempty"`
	// VkID is an optional profile link.
	VkID string `json:"vkId,omitempty"`
	// Gender is an optional profile attribute.
	Gender Gender `json:"gender,omitempty"`
	// Role is the authorization level. Always one of the four fixed values.
	Role Role `json:"role"`
	// Enabled indicates if this user is active.
	Enabled bool `json:"enabled"`
	// Locked indicates if this user is blocked. Locked overrides Enabled.
	Locked bool `json:"locked"`
	// CreatedAt is when the user registered (UTC).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is when the user was last modified (UTC).
	UpdatedAt time.Time `json:"updatedAt"`
}

// Active returns true if the user may authenticate.
// A locked user is never active regardless of the enabled flag.
func (u *User) Active() bool {
	return u.Enabled && !u.Locked
}

// Status returns the display status used by the moderator endpoints.
func (u *User) Status() string {
	switch {
	case u.Locked:
		return "blocked"
	case u.Enabled:
		return "active"
	default:
		return "disabled"
	}
}

// CanResetPassword reports whether a reset link could be delivered.
func (u *User) CanResetPassword() bool {
	return u.Email != ""
}

// MaskedNumber returns the login credential with the middle digits hidden,
// safe for logs and moderator views.
func (u *User) MaskedNumber() string {
	return MaskNumber(u.Number)
}

// MaskNumber hides the middle digits of a login credential. Use it when only
// the raw string is at hand, such as logging a failed lookup.
func MaskNumber(number string) string {
	if len(number) < 10 {
		return number
	}
	return number[:len(number)-10] + "******" + number[len(number)-4:]
}

// Authorities returns the granted-authority set derived from the role.
func (u *User) Authorities() []string {
	return []string{u.Role.Authority()}
}
