// Package policy contains the route access rules and the decision engine.
package policy

import (
	"github.com/atelier-store/atelier/internal/domain/user"
)

// Requirement describes what a rule demands from the caller.
type Requirement int

const (
	// RequireNone permits anonymous callers.
	RequireNone Requirement = iota
	// RequireAuthenticated permits any authenticated caller regardless of role.
	RequireAuthenticated
	// RequireRole permits callers holding at least one of the rule's roles.
	RequireRole
)

// Decision is the outcome of evaluating a request against the rule table.
type Decision int

const (
	// Permit allows the request to proceed to the handler.
	Permit Decision = iota
	// Unauthorized rejects the request because no identity was presented (401).
	Unauthorized
	// Forbidden rejects the request because the identity's role is
	// insufficient (403).
	Forbidden
)

// String returns the decision name for logs and metrics labels.
func (d Decision) String() string {
	switch d {
	case Permit:
		return "permit"
	case Unauthorized:
		return "unauthorized"
	default:
		return "forbidden"
	}
}

// Rule maps a path prefix (and optionally a method set) to a requirement.
// Rules are matched most-specific-prefix first; the first match wins.
type Rule struct {
	// PathPrefix is the URL path prefix this rule applies to.
	PathPrefix string
	// Methods restricts the rule to the listed HTTP methods.
	// Empty means all methods.
	Methods []string
	// Require is the access requirement.
	Require Requirement
	// Roles are the permitted roles when Require is RequireRole.
	// OR semantics: the caller needs at least one of them.
	Roles []user.Role
}

// matchesMethod reports whether the rule applies to the given HTTP method.
func (r *Rule) matchesMethod(method string) bool {
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// allowsRole reports whether the role satisfies the rule's role set.
func (r *Rule) allowsRole(role user.Role) bool {
	for _, allowed := range r.Roles {
		if role == allowed {
			return true
		}
	}
	return false
}
